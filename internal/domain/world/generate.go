package world

import "math"

// GenReport describes what a generation run produced, including any
// placement that ran out of attempts before reaching its target.
type GenReport struct {
	Rivers      RiverReport     `json:"rivers"`
	Settlements PlacementReport `json:"settlements"`
	Resources   PlacementReport `json:"resources"`
}

// Generate builds a complete world for seed. The same config and seed always
// produce the same tiles, settlements and resources. A nil allocator starts
// ids at 1.
func Generate(cfg GenConfig, seed int64, ids *IDAllocator) (*Map, GenReport) {
	cfg = cfg.Normalize()
	if ids == nil {
		ids = NewIDAllocator()
	}
	rng := NewRNG(seed)

	// Elevation is seeded first, moisture second.
	elevation := NewNoiseField(cfg.Noise, rng.Int64())
	moisture := NewNoiseField(cfg.Noise, rng.Int64())

	m := &Map{
		Seed:        seed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Tiles:       generateTiles(cfg, elevation, moisture),
		Settlements: []Settlement{},
		Resources:   []ResourceNode{},
		Roads:       []RoadConnection{},
	}

	var report GenReport
	report.Rivers = CarveRivers(m, rng)
	report.Settlements = PlaceSettlements(m, rng, ids, cfg.NumSettlements)
	report.Resources = PlaceResources(m, rng, ids, cfg.NumResources, resourceTypeSource(cfg, rng))
	return m, report
}

func generateTiles(cfg GenConfig, elevation, moisture NoiseField) []Tile {
	tiles := make([]Tile, 0, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			e, m := sampleTile(cfg, elevation, moisture, x, y)
			tiles = append(tiles, Tile{
				X:         x,
				Y:         y,
				Type:      cfg.Thresholds.Classify(e, m),
				Elevation: e,
				Moisture:  m,
			})
		}
	}
	return tiles
}

func sampleTile(cfg GenConfig, elevation, moisture NoiseField, x, y int) (float64, float64) {
	nx := float64(x)/float64(cfg.Width)*2 - 1
	ny := float64(y)/float64(cfg.Height)*2 - 1

	e := elevation.Eval(float64(x)*cfg.ElevationScale, float64(y)*cfg.ElevationScale)
	mask := ContinentMask(cfg, math.Sqrt(nx*nx+ny*ny))
	elev := clamp01(e*0.75 + mask*0.3 + cfg.ElevationBias)

	moist := clamp01(moisture.Eval(
		float64(x)*cfg.MoistureScale+cfg.MoistureOffset,
		float64(y)*cfg.MoistureScale+cfg.MoistureOffset,
	))
	return elev, moist
}

// ContinentMask is 1 inside the inner radius and falls to 0 past the outer.
func ContinentMask(cfg GenConfig, distanceFromCenter float64) float64 {
	return 1 - smoothstep(cfg.MaskInner, cfg.MaskOuter, distanceFromCenter)
}
