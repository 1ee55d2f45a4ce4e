package rng

import (
	"crypto/rand"
	"math"
	"math/big"
)

// Crypto wraps the crypto/rand library
type Crypto struct{}

// Intn returns a random number from 0 <= x < n
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}

// Seed returns a non-negative seed for deck.Shuffle()
func (c Crypto) Seed() int64 {
	b, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		panic(err)
	}

	return b.Int64()
}
