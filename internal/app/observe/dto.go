package observe

import (
	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

type ViewRequest struct {
	WorldID string
	X       int
	Y       int
	Radius  int
}

type Window struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

func (w Window) contains(x, y int) bool {
	return x >= w.MinX && x <= w.MaxX && y >= w.MinY && y <= w.MaxY
}

// overlaps reports whether a square of half-size r centred on (x, y) touches
// the window.
func (w Window) overlaps(x, y, r int) bool {
	return x+r >= w.MinX && x-r <= w.MaxX && y+r >= w.MinY && y-r <= w.MaxY
}

type ViewResponse struct {
	Center      world.Point            `json:"center"`
	Radius      int                    `json:"radius"`
	Window      Window                 `json:"window"`
	Tiles       []world.Tile           `json:"tiles"`
	Settlements []world.Settlement     `json:"settlements"`
	Resources   []world.ResourceNode   `json:"resources"`
	Roads       []world.RoadConnection `json:"roads"`
}

type SelectRequest struct {
	WorldID string
	X       int
	Y       int
}

const (
	SelectionNone       = "none"
	SelectionSettlement = "settlement"
	SelectionResource   = "resource"
)

type SelectResponse struct {
	Kind          string              `json:"kind"`
	Tile          world.Tile          `json:"tile"`
	Settlement    *world.Settlement   `json:"settlement,omitempty"`
	DiameterTiles int                 `json:"diameter_tiles,omitempty"`
	Resource      *world.ResourceNode `json:"resource,omitempty"`
}

type FindRequest struct {
	WorldID string
	Name    string
}

type FindResponse struct {
	Settlement world.Settlement `json:"settlement"`
	Exact      bool             `json:"exact"`
	Distance   int              `json:"distance"`
}

type SummaryResponse struct {
	World       ports.WorldSummary   `json:"world"`
	TileCounts  map[string]int       `json:"tile_counts"`
	Settlements []world.Settlement   `json:"settlements"`
	Resources   []world.ResourceNode `json:"resources"`
}
