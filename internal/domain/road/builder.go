package road

import "overland/internal/domain/world"

// Builder appends pathfound roads to a map, numbering them after the roads it
// was created with.
type Builder struct {
	Pathfinder Pathfinder
	nextID     int
}

func NewBuilder(existing []world.RoadConnection) *Builder {
	next := 1
	for _, r := range existing {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return &Builder{Pathfinder: NewPathfinder(), nextID: next}
}

type BuildResult struct {
	Road world.RoadConnection
	Cost float64
}

// Build connects from and to. On success the road is appended to m.Roads and
// returned with the path cost measured before it was added. When no path
// exists m is left untouched.
func (b *Builder) Build(m *world.Map, from, to world.Endpoint) (BuildResult, bool) {
	path, ok := b.Pathfinder.FindPath(m, from.Point(), to.Point())
	if !ok {
		return BuildResult{}, false
	}
	cost := b.Pathfinder.PathCost(m, path)

	r := world.RoadConnection{
		ID:   b.nextID,
		From: from,
		To:   to,
		Path: path,
	}
	b.nextID++
	m.Roads = append(m.Roads, r)
	return BuildResult{Road: r, Cost: cost}, true
}
