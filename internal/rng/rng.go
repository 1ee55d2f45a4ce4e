package rng

import "math/rand"

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Seeder provides seeds for game states
// Every shuffle in a game is derived from the seed so that a stored state replays deterministically
type Seeder interface {
	Seed() int64
}

// Seeded is a deterministic generator backed by math/rand
type Seeded struct {
	r *rand.Rand
}

// NewSeeded returns a deterministic generator for the seed
func NewSeeded(seed int64) *Seeded {
	return &Seeded{
		r: rand.New(rand.NewSource(seed)), // nolint:gosec
	}
}

// Intn returns a random number from 0 <= x < n
func (s *Seeded) Intn(n int) int {
	return s.r.Intn(n)
}
