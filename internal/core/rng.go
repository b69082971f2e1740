package core

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source is the set of draws the Metropolis engine needs from a random source.
type Source interface {
	Bool() bool
	IntN(n int) int
	Uint32() uint32
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// EntropySeed returns a non-zero seed read from the operating system entropy pool.
// Callers log it so the run can be replayed with NewRNG.
func EntropySeed() int64 {
	var buf [8]byte
	for {
		if _, err := crand.Read(buf[:]); err != nil {
			panic("core: reading entropy: " + err.Error())
		}
		if s := int64(binary.LittleEndian.Uint64(buf[:]) >> 1); s != 0 {
			return s
		}
	}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// IntN returns a uniformly distributed int in [0, n).
func (r *RNG) IntN(n int) int {
	return r.r.IntN(n)
}

// Uint32 returns a uniformly distributed 32-bit value.
func (r *RNG) Uint32() uint32 {
	return r.r.Uint32()
}
