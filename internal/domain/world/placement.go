package world

import (
	"math"
	"math/rand/v2"
)

const (
	settlementAttemptsPer = 40
	resourceAttemptsPer   = 120

	settlementSpacing         = 5
	resourceSettlementSpacing = 3
	resourceSpacing           = 5
	resourceBorder            = 2
)

// PlacementReport makes exhausted attempts visible: Placed may be below
// Requested without that being an error.
type PlacementReport struct {
	Requested int `json:"requested"`
	Placed    int `json:"placed"`
	Attempts  int `json:"attempts"`
}

func (r PlacementReport) Exhausted() bool {
	return r.Placed < r.Requested
}

var (
	namePrefixes = []string{"New", "North", "South", "Port", "Lake", "Fort", "High"}
	nameRoots    = []string{"ford", "ham", "bury", "field", "bridge", "ton", "wick"}
)

// PlaceSettlements scatters up to want settlements on land tiles, keeping
// them at least settlementSpacing tiles apart.
func PlaceSettlements(m *Map, rng *RNG, ids *IDAllocator, want int) PlacementReport {
	report := PlacementReport{Requested: want}

	land := make([]int, 0)
	for i, t := range m.Tiles {
		if t.Type.IsLand() {
			land = append(land, i)
		}
	}
	if len(land) == 0 {
		return report
	}

	for report.Placed < want && report.Attempts < want*settlementAttemptsPer {
		report.Attempts++

		tile := m.Tiles[Choice(rng, land)]
		if tooClose(m.Settlements, tile.X, tile.Y, settlementSpacing) {
			continue
		}

		size := randomSettlementSize(rng)
		lo, hi := PopulationRange(size)
		population := rng.RandInt(lo, hi)
		name := Choice(rng, namePrefixes) + Choice(rng, nameRoots)

		pop := float64(population)
		demand := DemandProfile{
			Pax:   roundInt(pop/1000 + rng.RandRange(5, 25)),
			Goods: roundInt(pop/1500 + rng.RandRange(3, 20)),
			Fuel:  roundInt(pop/2000 + rng.RandRange(2, 12)),
		}
		supply := SupplyProfile{
			Goods: capBelow(roundInt(pop/2000+rng.RandRange(1, 8)), demand.Goods),
			Fuel:  capBelow(roundInt(pop/3000+rng.RandRange(0, 4)), demand.Fuel),
		}

		m.Settlements = append(m.Settlements, Settlement{
			ID:         ids.NextSettlementID(),
			Name:       name,
			X:          tile.X,
			Y:          tile.Y,
			Size:       size,
			Population: population,
			Demand:     demand,
			Supply:     supply,
		})
		report.Placed++
	}
	return report
}

func randomSettlementSize(rng *RNG) SettlementSize {
	r := rng.Float64()
	switch {
	case r < 0.15:
		return SizeCity
	case r < 0.55:
		return SizeTown
	default:
		return SizeVillage
	}
}

func tooClose(settlements []Settlement, x, y, minDist int) bool {
	for _, s := range settlements {
		if distanceSq(s.X, s.Y, x, y) < minDist*minDist {
			return true
		}
	}
	return false
}

func resourceTooClose(resources []ResourceNode, x, y, minDist int) bool {
	for _, r := range resources {
		if distanceSq(r.X, r.Y, x, y) < minDist*minDist {
			return true
		}
	}
	return false
}

func resourceTypeSource(cfg GenConfig, rng *RNG) func() float64 {
	if cfg.UnseededResourceTypes {
		return rand.Float64
	}
	return rng.Float64
}

// PlaceResources scatters up to want resource nodes on any tile away from
// the border, picking a type from the tile's biome. roll supplies the draw
// for that pick.
func PlaceResources(m *Map, rng *RNG, ids *IDAllocator, want int, roll func() float64) PlacementReport {
	report := PlacementReport{Requested: want}
	if len(m.Tiles) == 0 {
		return report
	}
	if roll == nil {
		roll = rng.Float64
	}

	for report.Placed < want && report.Attempts < want*resourceAttemptsPer {
		report.Attempts++

		tile := Choice(rng, m.Tiles)
		if tile.X < resourceBorder || tile.Y < resourceBorder ||
			tile.X > m.Width-1-resourceBorder || tile.Y > m.Height-1-resourceBorder {
			continue
		}

		kind, ok := PickResourceType(tile.Type, roll())
		if !ok {
			continue
		}
		if tooClose(m.Settlements, tile.X, tile.Y, resourceSettlementSpacing) {
			continue
		}
		if resourceTooClose(m.Resources, tile.X, tile.Y, resourceSpacing) {
			continue
		}

		richness := rng.RandRange(0.4, 1.0)
		capacity, regen := ResourceStats(kind, richness)
		lo, hi := StartRange(kind)
		start := rng.RandRange(lo, hi)

		node := ResourceNode{
			ID:           ids.NextResourceID(),
			Type:         kind,
			X:            tile.X,
			Y:            tile.Y,
			Richness:     richness,
			Capacity:     capacity,
			Current:      math.Floor(float64(capacity) * start),
			RegenPerTick: regen,
		}
		node.CheckInvariant()
		m.Resources = append(m.Resources, node)
		report.Placed++
	}
	return report
}

type resourceOdds struct {
	below float64
	kind  ResourceType
}

// biomeResources holds cumulative odds per tile type; a roll past the last
// entry yields no resource for that attempt.
var biomeResources = map[TileType][]resourceOdds{
	TileForest:       {{0.75, ResourceWood}, {0.88, ResourceGrain}, {0.96, ResourceCoal}},
	TilePlains:       {{0.7, ResourceGrain}, {0.82, ResourceWood}, {0.92, ResourceIron}},
	TileHills:        {{0.45, ResourceCoal}, {0.85, ResourceIron}, {0.92, ResourceGrain}},
	TileMountains:    {{0.5, ResourceCoal}, {0.9, ResourceIron}, {0.96, ResourceOil}},
	TileCoast:        {{0.55, ResourceOil}, {0.8, ResourceGrain}},
	TileRiver:        {{0.55, ResourceOil}, {0.8, ResourceGrain}},
	TileDeepWater:    {{0.65, ResourceOil}},
	TileShallowWater: {{0.65, ResourceOil}},
}

// PickResourceType maps a tile type and a roll in [0, 1) to a deposit type.
func PickResourceType(t TileType, roll float64) (ResourceType, bool) {
	for _, o := range biomeResources[t] {
		if roll < o.below {
			return o.kind, true
		}
	}
	return "", false
}

// capBelow keeps a settlement a net importer of every category it supplies.
func capBelow(supply, demand int) int {
	if supply >= demand {
		return demand - 1
	}
	return supply
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
