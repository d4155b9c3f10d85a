package plum

import "math/rand"

// Rand is the only source of randomness the scheduler uses. *rand.Rand
// satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// NewRand returns a seeded source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
