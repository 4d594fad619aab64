package world

import "errors"

var ErrInvalidThresholds = errors.New("invalid terrain thresholds")

// Thresholds are the elevation and moisture cut-offs used by Classify.
type Thresholds struct {
	DeepWater    float64 `json:"deep_water"`
	ShallowWater float64 `json:"shallow_water"`
	Coast        float64 `json:"coast"`

	Mountain            float64 `json:"mountain"`
	MountainMoistureMax float64 `json:"mountain_moisture_max"`

	Highland               float64 `json:"highland"`
	HighlandForestMoisture float64 `json:"highland_forest_moisture"`

	Midland               float64 `json:"midland"`
	MidlandForestMoisture float64 `json:"midland_forest_moisture"`

	LowlandForestMoisture float64 `json:"lowland_forest_moisture"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		DeepWater:    0.3,
		ShallowWater: 0.38,
		Coast:        0.42,

		Mountain:            0.86,
		MountainMoistureMax: 0.75,

		Highland:               0.68,
		HighlandForestMoisture: 0.55,

		Midland:               0.45,
		MidlandForestMoisture: 0.7,

		LowlandForestMoisture: 0.65,
	}
}

func (t Thresholds) Validate() error {
	if t.DeepWater > t.ShallowWater || t.ShallowWater > t.Coast {
		return ErrInvalidThresholds
	}
	return nil
}

// Classify maps a single tile's elevation and moisture to its terrain type.
// It looks at nothing but its arguments.
func (t Thresholds) Classify(elevation, moisture float64) TileType {
	switch {
	case elevation < t.DeepWater:
		return TileDeepWater
	case elevation < t.ShallowWater:
		return TileShallowWater
	case elevation < t.Coast:
		return TileCoast
	case elevation > t.Mountain && moisture < t.MountainMoistureMax:
		return TileMountains
	case elevation > t.Highland:
		if moisture > t.HighlandForestMoisture {
			return TileForest
		}
		return TileHills
	case elevation > t.Midland:
		if moisture > t.MidlandForestMoisture {
			return TileForest
		}
		return TilePlains
	case moisture > t.LowlandForestMoisture:
		return TileForest
	default:
		return TilePlains
	}
}

// Classify uses the default thresholds.
func Classify(elevation, moisture float64) TileType {
	return DefaultThresholds().Classify(elevation, moisture)
}
