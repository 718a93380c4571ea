// Package rng implements Lehmer64, a multiplicative congruential generator
// with 128 bits of state that returns the upper 64 bits of every step.
// See https://lemire.me/blog/2019/03/19/the-fastest-conventional-random-number-generator-that-can-pass-big-crush
//
// It is geared towards test-case generation: cheap to create, no locking,
// no syscalls after seeding, and not cryptographically secure.
package rng

import (
	"math/bits"
	"sync/atomic"
	"time"
)

// multiplier is the 64-bit odd constant used by Lehmer64.
const multiplier uint64 = 0xda942042e4dd58b5

// warmup is the number of outputs discarded after seeding.
const warmup = 100

// stream separates generators seeded from the clock in the same nanosecond.
var stream atomic.Uint64

// Rand is a Lehmer64 generator.
// It must not be shared between goroutines; give every worker its own.
type Rand struct {
	hi, lo uint64
}

// New returns a generator seeded from the high-resolution clock.
func New() *Rand {
	now := uint64(time.Now().UnixNano())
	return NewSeeded(now ^ stream.Add(1)*0x9e3779b97f4a7c15)
}

// NewSeeded returns a deterministic generator for seed.
// Two generators with the same seed produce the same stream.
func NewSeeded(seed uint64) *Rand {
	r := &Rand{}
	r.Seed(seed)
	return r
}

// Seed resets the state from seed and mixes it.
func (r *Rand) Seed(seed uint64) {
	s := seed
	r.hi = splitmix64(&s)
	// An even state loses period; an all-zero state is a fixed point.
	r.lo = splitmix64(&s) | 1
	for range warmup {
		r.Next()
	}
}

// Next advances the state and returns the upper 64 bits.
func (r *Rand) Next() uint64 {
	carry, lo := bits.Mul64(r.lo, multiplier)
	r.hi = r.hi*multiplier + carry
	r.lo = lo
	return r.hi
}

// Uint64 implements math/rand/v2.Source.
func (r *Rand) Uint64() uint64 { return r.Next() }

// Uint64n returns a value in [0, n). It panics if n is 0.
func (r *Rand) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("rng: Uint64n with n == 0")
	}
	return r.Next() % n
}

// Bool returns a fair coin flip.
func (r *Rand) Bool() bool {
	return r.Next()&1 == 1
}

func splitmix64(s *uint64) uint64 {
	*s += 0x9e3779b97f4a7c15
	z := *s
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
