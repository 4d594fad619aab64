package world

import "fmt"

// Map is the aggregate root handed to collaborators. Tiles are stored row
// major, indexed by y*Width+x.
type Map struct {
	Seed        int64            `json:"seed"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Tiles       []Tile           `json:"tiles"`
	Settlements []Settlement     `json:"settlements"`
	Resources   []ResourceNode   `json:"resources"`
	Roads       []RoadConnection `json:"roads"`
}

func (m *Map) Index(x, y int) int {
	return y*m.Width + x
}

func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

func (m *Map) TileAt(x, y int) (Tile, bool) {
	if !m.InBounds(x, y) {
		return Tile{}, false
	}
	return m.Tiles[m.Index(x, y)], true
}

// MustTile returns the tile at (x, y) for in-place edits. Out-of-bounds
// coordinates mean a generation bug and panic.
func (m *Map) MustTile(x, y int) *Tile {
	if !m.InBounds(x, y) {
		panic(fmt.Sprintf("world: tile (%d,%d) outside %dx%d map", x, y, m.Width, m.Height))
	}
	return &m.Tiles[m.Index(x, y)]
}

func (m *Map) SettlementByID(id int) (*Settlement, bool) {
	for i := range m.Settlements {
		if m.Settlements[i].ID == id {
			return &m.Settlements[i], true
		}
	}
	return nil, false
}

func (m *Map) ResourceByID(id int) (*ResourceNode, bool) {
	for i := range m.Resources {
		if m.Resources[i].ID == id {
			return &m.Resources[i], true
		}
	}
	return nil, false
}

// RoadMask marks every tile index covered by an existing road.
func (m *Map) RoadMask() []bool {
	mask := make([]bool, len(m.Tiles))
	for _, road := range m.Roads {
		for _, step := range road.Path {
			if m.InBounds(step.X, step.Y) {
				mask[m.Index(step.X, step.Y)] = true
			}
		}
	}
	return mask
}

// TypeCounts returns how many tiles of each type the map holds.
func (m *Map) TypeCounts() map[TileType]int {
	out := make(map[TileType]int, len(TileTypes))
	for _, t := range m.Tiles {
		out[t.Type]++
	}
	return out
}

// Regenerate advances every resource node by dtSeconds of regeneration.
func (m *Map) Regenerate(dtSeconds float64) {
	for i := range m.Resources {
		m.Resources[i].Regenerate(dtSeconds)
	}
}

// Clone returns a deep copy of m. A nil map clones to an empty one.
func (m *Map) Clone() *Map {
	out := m.ReadOnlyCopy()
	out.Tiles = append([]Tile(nil), out.Tiles...)
	return out
}

// ReadOnlyCopy copies everything but the tile grid, which stays shared with
// m. Tiles do not change after generation; the copy's tiles must not be
// written.
func (m *Map) ReadOnlyCopy() *Map {
	if m == nil {
		return &Map{}
	}
	out := *m
	out.Settlements = append([]Settlement(nil), m.Settlements...)
	out.Resources = append([]ResourceNode(nil), m.Resources...)
	out.Roads = make([]RoadConnection, 0, len(m.Roads))
	for _, road := range m.Roads {
		road.Path = append([]Point(nil), road.Path...)
		out.Roads = append(out.Roads, road)
	}
	return &out
}
