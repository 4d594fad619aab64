package world

import (
	"strings"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

type NoiseKind string

const (
	NoiseSimplex NoiseKind = "simplex"
	NoisePerlin  NoiseKind = "perlin"
)

// NoiseField is a coherent 2D noise function normalised to [0, 1].
type NoiseField interface {
	Eval(x, y float64) float64
}

func ParseNoiseKind(raw string) (NoiseKind, bool) {
	switch NoiseKind(strings.ToLower(strings.TrimSpace(raw))) {
	case NoiseSimplex:
		return NoiseSimplex, true
	case NoisePerlin:
		return NoisePerlin, true
	default:
		return "", false
	}
}

func NewNoiseField(kind NoiseKind, seed int64) NoiseField {
	if kind == NoisePerlin {
		return perlinField{p: perlin.NewPerlin(2, 2, 3, seed)}
	}
	return simplexField{n: opensimplex.NewNormalized(seed)}
}

type simplexField struct {
	n opensimplex.Noise
}

func (f simplexField) Eval(x, y float64) float64 {
	return clamp01(f.n.Eval2(x, y))
}

type perlinField struct {
	p *perlin.Perlin
}

func (f perlinField) Eval(x, y float64) float64 {
	return clamp01(f.p.Noise2D(x, y)*0.5 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
