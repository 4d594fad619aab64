package road

import (
	"container/heap"
	"fmt"

	"overland/internal/domain/world"
)

// Costs are the per-step multipliers applied when entering a tile.
type Costs struct {
	Base           float64 `json:"base"`
	RoadMultiplier float64 `json:"road_multiplier"`
	Mountains      float64 `json:"mountains"`
	Hills          float64 `json:"hills"`
	Forest         float64 `json:"forest"`
}

func DefaultCosts() Costs {
	return Costs{
		Base:           1,
		RoadMultiplier: 0.2,
		Mountains:      3,
		Hills:          1.5,
		Forest:         1.2,
	}
}

// StepCost is the cost of entering tile t. onRoad applies the road discount.
func (c Costs) StepCost(t world.TileType, onRoad bool) float64 {
	cost := c.Base
	if onRoad {
		cost *= c.RoadMultiplier
	}
	switch t {
	case world.TileMountains:
		cost *= c.Mountains
	case world.TileHills:
		cost *= c.Hills
	case world.TileForest:
		cost *= c.Forest
	}
	return cost
}

type Pathfinder struct {
	Costs Costs
}

func NewPathfinder() Pathfinder {
	return Pathfinder{Costs: DefaultCosts()}
}

// FindPath runs FindPath with the default costs.
func FindPath(m *world.Map, start, goal world.Point) ([]world.Point, bool) {
	return NewPathfinder().FindPath(m, start, goal)
}

// neighbours is ordered up, right, down, left. On equal cost the first
// discovered route wins, so this order fixes which of several ties is built.
var neighbours = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// FindPath returns the cheapest 4-connected path from start to goal, both
// included, never entering deep or shallow water. Tiles covered by existing
// roads are discounted. The bool is false when the goal is unreachable.
func (p Pathfinder) FindPath(m *world.Map, start, goal world.Point) ([]world.Point, bool) {
	mustInBounds(m, start)
	mustInBounds(m, goal)
	if start == goal {
		return []world.Point{start}, true
	}

	roads := m.RoadMask()
	size := m.Width * m.Height
	dist := make([]float64, size)
	prev := make([]int, size)
	done := make([]bool, size)
	for i := range dist {
		dist[i] = -1
		prev[i] = -1
	}

	startIdx := m.Index(start.X, start.Y)
	goalIdx := m.Index(goal.X, goal.Y)
	dist[startIdx] = 0

	q := &frontier{}
	var seq uint64
	heap.Push(q, entry{idx: startIdx, dist: 0, seq: seq})

	for q.Len() > 0 {
		cur := heap.Pop(q).(entry)
		if done[cur.idx] {
			continue
		}
		done[cur.idx] = true
		if cur.idx == goalIdx {
			break
		}

		x, y := cur.idx%m.Width, cur.idx/m.Width
		for _, d := range neighbours {
			nx, ny := x+d[0], y+d[1]
			if !m.InBounds(nx, ny) {
				continue
			}
			n := m.Index(nx, ny)
			if done[n] || m.Tiles[n].Type.IsOpenWater() {
				continue
			}
			alt := cur.dist + p.Costs.StepCost(m.Tiles[n].Type, roads[n])
			if dist[n] >= 0 && alt >= dist[n] {
				continue
			}
			dist[n] = alt
			prev[n] = cur.idx
			seq++
			heap.Push(q, entry{idx: n, dist: alt, seq: seq})
		}
	}

	if !done[goalIdx] {
		return nil, false
	}

	path := make([]world.Point, 0)
	for idx := goalIdx; idx != -1; idx = prev[idx] {
		path = append(path, world.Point{X: idx % m.Width, Y: idx / m.Width})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// PathCost sums the step costs of path under the current roads. The first
// point is free.
func (p Pathfinder) PathCost(m *world.Map, path []world.Point) float64 {
	roads := m.RoadMask()
	total := 0.0
	for i := 1; i < len(path); i++ {
		mustInBounds(m, path[i])
		idx := m.Index(path[i].X, path[i].Y)
		total += p.Costs.StepCost(m.Tiles[idx].Type, roads[idx])
	}
	return total
}

func PathCost(m *world.Map, path []world.Point) float64 {
	return NewPathfinder().PathCost(m, path)
}

func mustInBounds(m *world.Map, pt world.Point) {
	if !m.InBounds(pt.X, pt.Y) {
		panic(fmt.Sprintf("road: point (%d,%d) outside %dx%d map", pt.X, pt.Y, m.Width, m.Height))
	}
}

type entry struct {
	idx  int
	dist float64
	seq  uint64
}

// frontier is a min-heap on distance; equal distances pop in push order.
type frontier []entry

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(entry)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	e := old[n-1]
	*f = old[:n-1]
	return e
}
