package observe

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid observe request")

const (
	DefaultViewRadius = 8
	MaxViewRadius     = 64
	DefaultListLimit  = 50
	MaxListLimit      = 200
)

type UseCase struct {
	Repo ports.WorldRepository
}

// load never writes the map it returns, so it prefers the read-only path.
func (u UseCase) load(ctx context.Context, worldID string) (*world.Map, ports.WorldRecord, error) {
	if u.Repo == nil || strings.TrimSpace(worldID) == "" {
		return nil, ports.WorldRecord{}, ErrInvalidRequest
	}
	var (
		rec ports.WorldRecord
		err error
	)
	if ro, ok := u.Repo.(ports.ReadOnlyWorldGetter); ok {
		rec, err = ro.GetReadOnly(ctx, worldID)
	} else {
		rec, err = u.Repo.Get(ctx, worldID)
	}
	if err != nil {
		return nil, ports.WorldRecord{}, err
	}
	return rec.Map, rec, nil
}

// View returns the square window of tiles around (X, Y), clipped to the map,
// with every settlement, resource and road that reaches into it.
func (u UseCase) View(ctx context.Context, req ViewRequest) (ViewResponse, error) {
	radius := req.Radius
	if radius == 0 {
		radius = DefaultViewRadius
	}
	if radius < 0 || radius > MaxViewRadius {
		return ViewResponse{}, ErrInvalidRequest
	}
	m, _, err := u.load(ctx, req.WorldID)
	if err != nil {
		return ViewResponse{}, err
	}
	if !m.InBounds(req.X, req.Y) {
		return ViewResponse{}, ErrInvalidRequest
	}

	win := Window{
		MinX: max(0, req.X-radius),
		MinY: max(0, req.Y-radius),
		MaxX: min(m.Width-1, req.X+radius),
		MaxY: min(m.Height-1, req.Y+radius),
	}
	resp := ViewResponse{
		Center:      world.Point{X: req.X, Y: req.Y},
		Radius:      radius,
		Window:      win,
		Tiles:       make([]world.Tile, 0, (win.MaxX-win.MinX+1)*(win.MaxY-win.MinY+1)),
		Settlements: []world.Settlement{},
		Resources:   []world.ResourceNode{},
		Roads:       []world.RoadConnection{},
	}
	for y := win.MinY; y <= win.MaxY; y++ {
		for x := win.MinX; x <= win.MaxX; x++ {
			resp.Tiles = append(resp.Tiles, m.Tiles[m.Index(x, y)])
		}
	}
	for _, s := range m.Settlements {
		if win.overlaps(s.X, s.Y, world.SettlementDiameterTiles(s.Population)/2) {
			resp.Settlements = append(resp.Settlements, s)
		}
	}
	for _, r := range m.Resources {
		if win.overlaps(r.X, r.Y, world.ResourceFootprint/2) {
			resp.Resources = append(resp.Resources, r)
		}
	}
	for _, road := range m.Roads {
		for _, p := range road.Path {
			if win.contains(p.X, p.Y) {
				resp.Roads = append(resp.Roads, road)
				break
			}
		}
	}
	return resp, nil
}

// Select resolves a tile click: a settlement wins over a resource node.
func (u UseCase) Select(ctx context.Context, req SelectRequest) (SelectResponse, error) {
	m, _, err := u.load(ctx, req.WorldID)
	if err != nil {
		return SelectResponse{}, err
	}
	tile, ok := m.TileAt(req.X, req.Y)
	if !ok {
		return SelectResponse{}, ErrInvalidRequest
	}

	resp := SelectResponse{Kind: SelectionNone, Tile: tile}
	if s, ok := world.SettlementAt(m.Settlements, req.X, req.Y); ok {
		resp.Kind = SelectionSettlement
		resp.Settlement = s
		resp.DiameterTiles = world.SettlementDiameterTiles(s.Population)
		return resp, nil
	}
	if r, ok := world.ResourceAt(m.Resources, req.X, req.Y); ok {
		resp.Kind = SelectionResource
		resp.Resource = r
	}
	return resp, nil
}

// FindSettlement looks a settlement up by name. An exact case-insensitive
// match wins; otherwise the closest name within a small edit distance is
// returned.
func (u UseCase) FindSettlement(ctx context.Context, req FindRequest) (FindResponse, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		return FindResponse{}, ErrInvalidRequest
	}
	m, _, err := u.load(ctx, req.WorldID)
	if err != nil {
		return FindResponse{}, err
	}

	best := -1
	bestDist := 0
	for i, s := range m.Settlements {
		cand := strings.ToLower(s.Name)
		if cand == name {
			return FindResponse{Settlement: s, Exact: true}, nil
		}
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return FindResponse{}, ports.ErrNotFound
	}
	return FindResponse{Settlement: m.Settlements[best], Distance: bestDist}, nil
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func (u UseCase) Summary(ctx context.Context, worldID string) (SummaryResponse, error) {
	m, rec, err := u.load(ctx, worldID)
	if err != nil {
		return SummaryResponse{}, err
	}
	counts := map[string]int{}
	for t, n := range m.TypeCounts() {
		counts[string(t)] = n
	}
	return SummaryResponse{
		World:       ports.SummaryOf(rec),
		TileCounts:  counts,
		Settlements: m.Settlements,
		Resources:   m.Resources,
	}, nil
}

func (u UseCase) List(ctx context.Context, limit int) ([]ports.WorldSummary, error) {
	if u.Repo == nil || limit < 0 {
		return nil, ErrInvalidRequest
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	out, err := u.Repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
