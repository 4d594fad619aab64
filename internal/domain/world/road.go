package world

import (
	"errors"
	"strings"
)

type EndpointKind string

const (
	EndpointSettlement EndpointKind = "settlement"
	EndpointResource   EndpointKind = "resource"
)

func ParseEndpointKind(raw string) (EndpointKind, bool) {
	switch EndpointKind(strings.ToLower(strings.TrimSpace(raw))) {
	case EndpointSettlement:
		return EndpointSettlement, true
	case EndpointResource:
		return EndpointResource, true
	default:
		return "", false
	}
}

// Endpoint is one end of a road: a settlement or a resource node, reduced to
// the coordinates the pathfinder needs.
type Endpoint struct {
	Kind EndpointKind `json:"kind"`
	X    int          `json:"x"`
	Y    int          `json:"y"`
}

func SettlementEndpoint(s Settlement) Endpoint {
	return Endpoint{Kind: EndpointSettlement, X: s.X, Y: s.Y}
}

func ResourceEndpoint(r ResourceNode) Endpoint {
	return Endpoint{Kind: EndpointResource, X: r.X, Y: r.Y}
}

func (e Endpoint) Point() Point {
	return Point{X: e.X, Y: e.Y}
}

type RoadConnection struct {
	ID   int      `json:"id"`
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
	Path []Point  `json:"path"`
}

var ErrInvalidRoad = errors.New("invalid road")

// Validate checks that the path runs from From to To in unit orthogonal
// steps.
func (r RoadConnection) Validate() error {
	if r.ID <= 0 || len(r.Path) == 0 {
		return ErrInvalidRoad
	}
	if r.Path[0] != r.From.Point() || r.Path[len(r.Path)-1] != r.To.Point() {
		return ErrInvalidRoad
	}
	for i := 1; i < len(r.Path); i++ {
		dx := abs(r.Path[i].X - r.Path[i-1].X)
		dy := abs(r.Path[i].Y - r.Path[i-1].Y)
		if dx+dy != 1 {
			return ErrInvalidRoad
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
