package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// seededSource implements Source with a PCG generator
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded creates a source that produces the same sequence for the same seed
func NewSeeded(seed uint64) Source {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewFromClock creates a source seeded from the current time
func NewFromClock() Source {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// Float64 implements Source.Float64
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// IntN implements Source.IntN
func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Chance reports whether an event with probability p happens
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// WeightedIndex picks an index with probability proportional to its weight.
// It returns -1 when no weight is positive.
func WeightedIndex(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	pick := src.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if pick < w {
			return i
		}
		pick -= w
	}
	// float rounding can leave a sliver past the last bucket
	return last
}
