package mockrandom

import (
	"fmt"
	"sync"
)

// ManualMockSource implements random.Source for testing with predetermined results
type ManualMockSource struct {
	mu       sync.Mutex
	floats   []float64
	floatIdx int
	ints     []int
	intIdx   int
}

// NewManualMockSource creates a new mock source
func NewManualMockSource() *ManualMockSource {
	return &ManualMockSource{}
}

// SetFloats sets the results returned by Float64, in order
func (m *ManualMockSource) SetFloats(values ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floats = values
	m.floatIdx = 0
}

// SetInts sets the results returned by IntN, in order
func (m *ManualMockSource) SetInts(values ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints = values
	m.intIdx = 0
}

// Remaining reports how many predetermined floats are unused
func (m *ManualMockSource) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.floats) - m.floatIdx
}

// Float64 implements random.Source.Float64
func (m *ManualMockSource) Float64() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.floatIdx >= len(m.floats) {
		panic(fmt.Sprintf("no more predetermined floats available (used %d of %d)", m.floatIdx, len(m.floats)))
	}
	v := m.floats[m.floatIdx]
	m.floatIdx++
	return v
}

// IntN implements random.Source.IntN
func (m *ManualMockSource) IntN(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.intIdx >= len(m.ints) {
		panic(fmt.Sprintf("no more predetermined ints available (used %d of %d)", m.intIdx, len(m.ints)))
	}
	v := m.ints[m.intIdx]
	m.intIdx++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("invalid int %d for range [0, %d)", v, n))
	}
	return v
}
