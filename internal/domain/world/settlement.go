package world

import "math"

type SettlementSize string

const (
	SizeVillage SettlementSize = "village"
	SizeTown    SettlementSize = "town"
	SizeCity    SettlementSize = "city"
)

type DemandProfile struct {
	Pax   int `json:"pax"`
	Goods int `json:"goods"`
	Fuel  int `json:"fuel"`
}

type SupplyProfile struct {
	Goods int `json:"goods"`
	Fuel  int `json:"fuel"`
}

type Settlement struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Size       SettlementSize `json:"size"`
	Population int            `json:"population"`
	Demand     DemandProfile  `json:"demand"`
	Supply     SupplyProfile  `json:"supply"`
}

// PopulationRange returns the inclusive population bounds of a size class.
func PopulationRange(size SettlementSize) (min, max int) {
	switch size {
	case SizeCity:
		return 80_000, 200_000
	case SizeTown:
		return 15_000, 80_000
	default:
		return 2_000, 15_000
	}
}

func (s Settlement) PopulationInRange() bool {
	min, max := PopulationRange(s.Size)
	return s.Population >= min && s.Population <= max
}

const (
	minHitPopulation = 2_000
	maxHitPopulation = 200_000
	minDiameterTiles = 5
	maxDiameterTiles = 25
)

// SettlementDiameterTiles maps population to the odd tile diameter a
// settlement covers. Rendering and hit-testing both use it.
func SettlementDiameterTiles(population int) int {
	clamped := population
	if clamped < minHitPopulation {
		clamped = minHitPopulation
	}
	if clamped > maxHitPopulation {
		clamped = maxHitPopulation
	}
	t := float64(clamped-minHitPopulation) / float64(maxHitPopulation-minHitPopulation)
	diameter := int(math.Round(minDiameterTiles + t*(maxDiameterTiles-minDiameterTiles)))
	if diameter%2 == 0 {
		diameter++
	}
	return diameter
}

// Covers reports whether tile (x, y) falls inside the settlement's footprint.
func (s Settlement) Covers(x, y int) bool {
	r := SettlementDiameterTiles(s.Population) / 2
	return distanceSq(s.X, s.Y, x, y) <= r*r
}

// SettlementAt returns the first settlement covering (x, y).
func SettlementAt(settlements []Settlement, x, y int) (*Settlement, bool) {
	for i := range settlements {
		if settlements[i].Covers(x, y) {
			return &settlements[i], true
		}
	}
	return nil, false
}
