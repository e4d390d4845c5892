// Package rng provides the seeded deterministic random stream used by the
// simulation engine. Every draw advances a counter, so two worlds created
// from the same seed and fed the same command sequence consume the stream
// identically and can be compared draw-for-draw.
package rng

import (
	"hash/fnv"
)

// Stream is a splitmix64 generator with a draw counter.
// It is not safe for concurrent use; each world owns exactly one.
type Stream struct {
	seed  int64
	state uint64
	draws uint64
}

// New creates a stream from the given seed.
func New(seed int64) *Stream {
	return &Stream{
		seed:  seed,
		state: uint64(seed),
	}
}

// Seed returns the seed the stream was created from.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Draws returns how many values have been consumed so far.
func (s *Stream) Draws() uint64 {
	return s.draws
}

// Uint64 returns the next value in the stream.
func (s *Stream) Uint64() uint64 {
	s.draws++
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Int63 returns a non-negative int64.
func (s *Stream) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Intn returns a value in [0, n). Panics if n <= 0, matching math/rand.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return int(s.Uint64() % uint64(n))
}

// Range returns a value in [lo, hi] inclusive.
func (s *Stream) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Shuffle permutes n elements using the Fisher-Yates algorithm.
// Consumes exactly n-1 draws.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}

// WeightedIndex picks an index proportionally to weights.
// Zero or negative total weight falls back to a uniform pick.
func (s *Stream) WeightedIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return s.Intn(len(weights))
	}
	roll := s.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}

// Fork derives an independent stream from the seed and a label.
// Forked streams do not advance the parent counter, which keeps
// derived content (map layouts per act) stable regardless of how
// many draws the trajectory consumed before the fork point.
func (s *Stream) Fork(label string) *Stream {
	h := fnv.New64a()
	h.Write([]byte(label))
	return New(s.seed ^ int64(h.Sum64()))
}
