// Package grammar is a random generator for a JSON grammar. Symbols are
// expanded recursively, bounded by a per-case depth counter so that any
// PRNG stream terminates.
package grammar

import "pkg.jsn.cam/jsongen/pkg/rng"

// Generator expands grammar symbols from one PRNG.
// It holds the depth counter of the call tree currently in flight, so a
// Generator must not be used from more than one goroutine.
type Generator struct {
	r     *rng.Rand
	lim   Limits
	depth uint64
}

// NewGenerator returns a generator drawing from r and bounded by lim.
// Zero fields in lim take their DefaultLimits value.
func NewGenerator(r *rng.Rand, lim Limits) *Generator {
	return &Generator{
		r:   r,
		lim: lim.WithDefaults(),
	}
}

// Generate appends one top-level JSON value to buf.
func (g *Generator) Generate(buf []byte) []byte {
	g.depth = 0
	return g.json(buf)
}

// Depth reports the counter left by the last call tree.
func (g *Generator) Depth() uint64 { return g.depth }

// Limits returns the bounds in effect.
func (g *Generator) Limits() Limits { return g.lim }

// AppendValue expands a single value symbol into buf, threading the
// caller's depth counter. It is the stateless form of Generate for callers
// that manage their own counter across several calls.
func AppendValue(buf []byte, r *rng.Rand, depth *uint64, lim Limits) []byte {
	g := Generator{r: r, lim: lim.WithDefaults(), depth: *depth}
	buf = g.value(buf)
	*depth = g.depth
	return buf
}
