// Package random abstracts the randomness source so jittered timings
// can be made deterministic in tests.
package random

import (
	"crypto/rand"
	"math/big"
)

// Random yields random integers. The scheduler draws its interval
// jitter through this interface.
type Random interface {
	// Intn returns a random int in [0, n); n <= 0 yields 0.
	Intn(n int) int
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the unjittered base rather than panic a timer loop.
		return 0
	}
	return int(result.Int64())
}
