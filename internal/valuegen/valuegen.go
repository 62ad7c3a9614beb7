// Package valuegen is the PRNG leaf every generator in internal/random
// draws from: a thin wrapper over uniform int/uint/float ranges. Each
// OrderGenerationAlgorithm instance owns exactly one ValueGenerator and
// never shares it across goroutines (spec.md §5).
package valuegen

import (
	"math/rand/v2"
)

// ValueGenerator draws uniformly distributed values over caller-given
// ranges. It is not safe for concurrent use.
type ValueGenerator struct {
	rng *rand.Rand
}

// New builds a ValueGenerator seeded from two independent 64-bit seeds.
func New(seed1, seed2 uint64) *ValueGenerator {
	return &ValueGenerator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// UniformInt returns a uniformly distributed integer in [min, max]
// inclusive. Panics if max < min, mirroring the original's assertion.
func (v *ValueGenerator) UniformInt(min, max int) int {
	if max < min {
		panic("valuegen: UniformInt called with max < min")
	}
	if max == min {
		return min
	}
	return min + int(v.rng.Int64N(int64(max-min+1)))
}

// UniformUint32 returns a uniformly distributed uint32 in [min, max] inclusive.
func (v *ValueGenerator) UniformUint32(min, max uint32) uint32 {
	if max < min {
		panic("valuegen: UniformUint32 called with max < min")
	}
	if max == min {
		return min
	}
	return min + uint32(v.rng.Int64N(int64(max-min+1)))
}

// UniformFloat64 returns a uniformly distributed float64 in [min, max).
func (v *ValueGenerator) UniformFloat64(min, max float64) float64 {
	if max < min {
		panic("valuegen: UniformFloat64 called with max < min")
	}
	if max == min {
		return min
	}
	return min + v.rng.Float64()*(max-min)
}
