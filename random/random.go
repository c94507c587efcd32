// Package random provides the seeded random stream shared by content
// resolution and planning. A Generator is not safe for concurrent use.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Generator wraps a seeded math/rand source. Given the same seed and the same
// call sequence it always yields the same values.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// NewSeed generates a high-entropy seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (g *Generator) Seed() int64 { return g.seed }

// SetSeed restarts the stream from seed.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// IntRange returns a uniform integer in [lower, upper]. The bounds are
// swapped when given in the wrong order.
func (g *Generator) IntRange(lower, upper int) int {
	if lower > upper {
		lower, upper = upper, lower
	}
	return lower + g.rng.Intn(upper-lower+1)
}

// NextInt returns a uniform integer in [0, upper].
func (g *Generator) NextInt(upper int) int {
	if upper <= 0 {
		return 0
	}
	return g.rng.Intn(upper + 1)
}

// NextDouble returns a uniform float in [0, 1).
func (g *Generator) NextDouble() float64 {
	return g.rng.Float64()
}

// Pick returns a uniformly chosen element of items, or false when items is
// empty.
func Pick[T any](g *Generator, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[g.rng.Intn(len(items))], true
}

// PickWeighted chooses an index with probability proportional to weights.
// Non-positive weights are never chosen; -1 means nothing could be chosen.
func (g *Generator) PickWeighted(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := g.rng.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return -1
}
