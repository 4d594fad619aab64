package world

import "math"

// Unreachable marks tiles with no 4-connected route to water.
const Unreachable = math.MaxInt32

const (
	riverSourceElevation = 0.65
	riverSourceMoisture  = 0.55
	tilesPerRiver        = 300
	minRivers            = 4
	maxRivers            = 12

	riverDistanceWeight = 2.0
	riverDownhillWeight = 1.0
	riverSameDirPenalty = 0.6
	riverJitter         = 0.4
)

type RiverReport struct {
	Rivers      int `json:"rivers"`
	TilesCarved int `json:"tiles_carved"`
}

var orthogonal = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// DistanceToWater computes, for every tile, the Manhattan distance to the
// nearest deep water, shallow water or coast tile with a multi-source BFS.
func DistanceToWater(m *Map) []int {
	dist := make([]int, len(m.Tiles))
	queue := make([]int, 0, len(m.Tiles))
	for i, t := range m.Tiles {
		if t.Type.IsWaterSource() {
			dist[i] = 0
			queue = append(queue, i)
			continue
		}
		dist[i] = Unreachable
	}

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := idx%m.Width, idx/m.Width
		next := dist[idx] + 1
		for _, d := range orthogonal {
			nx, ny := x+d[0], y+d[1]
			if !m.InBounds(nx, ny) {
				continue
			}
			n := m.Index(nx, ny)
			if dist[n] > next {
				dist[n] = next
				queue = append(queue, n)
			}
		}
	}
	return dist
}

// RiverCount is the number of rivers a width x height map tries to carve.
func RiverCount(width, height int) int {
	n := int(math.Round(float64(width*height) / tilesPerRiver))
	if n < minRivers {
		return minRivers
	}
	if n > maxRivers {
		return maxRivers
	}
	return n
}

// CarveRivers walks rivers from high, moist land down towards water,
// rewriting the land and coast tiles they cross to TileRiver. Callers must
// hold the only reference to m while it runs.
func CarveRivers(m *Map, rng *RNG) RiverReport {
	dist := DistanceToWater(m)

	candidates := make([]int, 0)
	for i, t := range m.Tiles {
		if t.Elevation > riverSourceElevation && t.Moisture > riverSourceMoisture && t.Type.IsLand() {
			candidates = append(candidates, i)
		}
	}

	var report RiverReport
	count := RiverCount(m.Width, m.Height)
	for i := 0; i < count && len(candidates) > 0; i++ {
		pick := rng.RandInt(0, len(candidates)-1)
		source := candidates[pick]
		candidates = append(candidates[:pick], candidates[pick+1:]...)

		_, carved := walkRiver(m, rng, dist, source)
		report.TilesCarved += carved
		report.Rivers++
	}
	return report
}

// walkRiver follows one river from source and returns the tile indices it
// passed through, in order, and how many of them it carved. The walk never
// re-enters a tile, so a plateau of equal distances cannot make it cycle.
func walkRiver(m *Map, rng *RNG, dist []int, source int) (course []int, carved int) {
	visited := make(map[int]struct{})
	current := source
	prevDx, prevDy := 0, 0

	for step := 0; step < m.Width*m.Height; step++ {
		tile := &m.Tiles[current]
		if tile.Type.IsOpenWater() {
			break
		}
		if tile.Type.IsLand() || tile.Type == TileCoast {
			tile.Type = TileRiver
			carved++
		}
		visited[current] = struct{}{}
		course = append(course, current)

		curDist := dist[current]
		if curDist == Unreachable {
			break
		}

		best := -1
		bestScore := 0.0
		bestDx, bestDy := 0, 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := tile.X+dx, tile.Y+dy
				if !m.InBounds(nx, ny) {
					continue
				}
				n := m.Index(nx, ny)
				if _, seen := visited[n]; seen {
					continue
				}
				d := dist[n]
				if d == Unreachable || d > curDist+1 {
					continue
				}

				downhill := math.Max(0, tile.Elevation-m.Tiles[n].Elevation)
				score := float64(d)*riverDistanceWeight - downhill*riverDownhillWeight
				if dx == prevDx && dy == prevDy {
					score += riverSameDirPenalty
				}
				score += rng.Float64() * riverJitter

				if best < 0 || score < bestScore {
					best, bestScore = n, score
					bestDx, bestDy = dx, dy
				}
			}
		}
		if best < 0 {
			break
		}
		prevDx, prevDy = bestDx, bestDy
		current = best
	}
	return course, carved
}
