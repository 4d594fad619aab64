package world

import "math/rand/v2"

// RNG is the seeded source every generation step draws from. Each helper
// consumes exactly one draw and none of them reseed.
type RNG struct {
	r *rand.Rand
}

func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}

// Int64 is only used to seed noise fields.
func (r *RNG) Int64() int64 {
	return r.r.Int64()
}

// RandInt returns an integer in [min, max], both inclusive.
func (r *RNG) RandInt(min, max int) int {
	return int(r.Float64()*float64(max-min+1)) + min
}

// RandRange returns a value in [min, max).
func (r *RNG) RandRange(min, max float64) float64 {
	return r.Float64()*(max-min) + min
}

// Choice picks a uniformly random element. An empty list is a caller bug.
func Choice[T any](r *RNG, list []T) T {
	if len(list) == 0 {
		panic("world: choice from empty list")
	}
	return list[int(r.Float64()*float64(len(list)))]
}
