package world

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width  int
	Height int

	NumSettlements int
	NumResources   int

	ElevationBias  float64 // negative = more water, positive = more land
	ElevationScale float64
	MoistureScale  float64
	MoistureOffset float64

	// Continent mask falloff radii, in normalised [-1, 1] space.
	MaskInner float64
	MaskOuter float64

	Noise      NoiseKind
	Thresholds Thresholds

	// UnseededResourceTypes draws resource types from an unseeded source, so
	// the same seed yields varying deposit types. Off by default.
	UnseededResourceTypes bool
}

func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:          2000,
		Height:         1000,
		NumSettlements: 15,
		NumResources:   25,
		ElevationBias:  -0.35,
		ElevationScale: 0.0036,
		MoistureScale:  0.0044,
		MoistureOffset: 100,
		MaskInner:      0.9,
		MaskOuter:      1.4,
		Noise:          NoiseSimplex,
		Thresholds:     DefaultThresholds(),
	}
}

// SmallConfig returns a tiny world for rapid iteration and tests. The noise
// scales are raised so the terrain still varies across the smaller grid, and
// the bias is lifted so a small map keeps enough land to settle.
func SmallConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Width = 128
	cfg.Height = 96
	cfg.ElevationBias = -0.2
	cfg.ElevationScale = 0.045
	cfg.MoistureScale = 0.055
	return cfg
}

// Normalize fills zero fields from DefaultGenConfig. A zero config becomes
// the default config, bias included.
func (c GenConfig) Normalize() GenConfig {
	def := DefaultGenConfig()
	if c == (GenConfig{}) {
		return def
	}
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.NumSettlements <= 0 {
		c.NumSettlements = def.NumSettlements
	}
	if c.NumResources <= 0 {
		c.NumResources = def.NumResources
	}
	if c.ElevationScale <= 0 {
		c.ElevationScale = def.ElevationScale
	}
	if c.MoistureScale <= 0 {
		c.MoistureScale = def.MoistureScale
	}
	if c.MaskOuter <= c.MaskInner {
		c.MaskInner = def.MaskInner
		c.MaskOuter = def.MaskOuter
	}
	if _, ok := ParseNoiseKind(string(c.Noise)); !ok {
		c.Noise = def.Noise
	}
	if c.Thresholds == (Thresholds{}) || c.Thresholds.Validate() != nil {
		c.Thresholds = def.Thresholds
	}
	return c
}
