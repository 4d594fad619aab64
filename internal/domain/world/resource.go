package world

import (
	"fmt"
	"math"
)

type ResourceType string

const (
	ResourceWood  ResourceType = "wood"
	ResourceCoal  ResourceType = "coal"
	ResourceOil   ResourceType = "oil"
	ResourceIron  ResourceType = "iron"
	ResourceGrain ResourceType = "grain"
)

// ResourceFootprint is the side, in tiles, of the square a deposit covers.
const ResourceFootprint = 5

type ResourceNode struct {
	ID           int          `json:"id"`
	Type         ResourceType `json:"type"`
	X            int          `json:"x"`
	Y            int          `json:"y"`
	Richness     float64      `json:"richness"`
	Capacity     int          `json:"capacity"`
	Current      float64      `json:"current"`
	RegenPerTick float64      `json:"regen_per_tick"`
}

type resourceBase struct {
	capacity float64
	regen    float64
	startMin float64
	startMax float64
}

var resourceBases = map[ResourceType]resourceBase{
	ResourceWood:  {capacity: 1_000, regen: 2, startMin: 0.7, startMax: 1.0},
	ResourceGrain: {capacity: 1_500, regen: 3, startMin: 0.4, startMax: 0.8},
	ResourceCoal:  {capacity: 3_000, regen: 1, startMin: 0.2, startMax: 1.0},
	ResourceIron:  {capacity: 2_500, regen: 1.5, startMin: 0.2, startMax: 1.0},
	ResourceOil:   {capacity: 5_000, regen: 0.8, startMin: 0.1, startMax: 0.6},
}

func baseFor(t ResourceType) resourceBase {
	if b, ok := resourceBases[t]; ok {
		return b
	}
	return resourceBase{capacity: 1_000, regen: 1, startMin: 0.2, startMax: 0.9}
}

// ResourceStats scales a type's base capacity and regeneration by richness.
func ResourceStats(t ResourceType, richness float64) (capacity int, regenPerTick float64) {
	b := baseFor(t)
	capacity = int(math.Round(b.capacity * (0.7 + richness*0.6)))
	regenPerTick = math.Round(b.regen*(0.6+richness*0.8)*100) / 100
	return capacity, regenPerTick
}

// StartRange is the fraction of capacity a fresh deposit starts with.
func StartRange(t ResourceType) (min, max float64) {
	b := baseFor(t)
	return b.startMin, b.startMax
}

// SetCurrent stores v clamped to [0, Capacity].
func (r *ResourceNode) SetCurrent(v float64) {
	switch {
	case math.IsNaN(v) || v < 0:
		v = 0
	case v > float64(r.Capacity):
		v = float64(r.Capacity)
	}
	r.Current = v
	r.CheckInvariant()
}

// Regenerate adds RegenPerTick per second of dtSeconds, never past capacity.
func (r *ResourceNode) Regenerate(dtSeconds float64) {
	if r.Current >= float64(r.Capacity) || dtSeconds <= 0 {
		return
	}
	r.SetCurrent(r.Current + r.RegenPerTick*dtSeconds)
}

// CheckInvariant panics when the stock is outside [0, Capacity].
func (r ResourceNode) CheckInvariant() {
	if r.Capacity <= 0 || math.IsNaN(r.Current) || r.Current < 0 || r.Current > float64(r.Capacity) {
		panic(fmt.Sprintf("world: resource %d stock %.2f outside [0,%d]", r.ID, r.Current, r.Capacity))
	}
}

// Covers reports whether (x, y) is inside the node's square footprint.
func (r ResourceNode) Covers(x, y int) bool {
	half := ResourceFootprint / 2
	dx := x - r.X
	dy := y - r.Y
	return dx >= -half && dx <= half && dy >= -half && dy <= half
}

// ResourceAt returns the first resource node covering (x, y).
func ResourceAt(resources []ResourceNode, x, y int) (*ResourceNode, bool) {
	for i := range resources {
		if resources[i].Covers(x, y) {
			return &resources[i], true
		}
	}
	return nil, false
}
