package gacha

import (
	cryptoRand "crypto/rand"
	"math/rand/v2"
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// drawSource feeds rarity and character picks. It is not safe for
// concurrent use; a Session serializes access.
type drawSource struct {
	*rand.Rand
}

// pcgStream fixes the second PCG word so a single seed selects a sequence.
const pcgStream = 0x9e3779b97f4a7c15

// NewRNG returns a source for simulated pulls. Seed 0 keys a ChaCha8
// generator from crypto/rand; any other seed replays the same pulls.
func NewRNG(seed uint64) RandomSource {
	if seed == 0 {
		var key [32]byte
		// crypto/rand.Read never fails on supported platforms
		_, _ = cryptoRand.Read(key[:])
		return drawSource{rand.New(rand.NewChaCha8(key))}
	}
	return NewSeededRNG(seed)
}

// DefaultRNG is an unseeded NewRNG.
func DefaultRNG() RandomSource { return NewRNG(0) }

// NewSeededRNG always returns a reproducible PCG source, including for seed 0.
func NewSeededRNG(seed uint64) RandomSource {
	return drawSource{rand.New(rand.NewPCG(seed, pcgStream))}
}

// pick returns an index in [0, n) using rng.
func pick(n int, rng RandomSource) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
