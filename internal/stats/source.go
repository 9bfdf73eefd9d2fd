package stats

import (
	"fmt"
	"sync"
)

// Source identifies the effect or rule instance that produced a modifier.
// It is a value type: copies compare equal, so removal by source works no matter
// how many times the producing instance was copied around.
type Source struct {
	index      uint32
	generation uint32
}

// IsZero reports whether the source was never allocated from an arena
func (s Source) IsZero() bool {
	return s.generation == 0
}

func (s Source) String() string {
	if s.IsZero() {
		return "src#none"
	}
	return fmt.Sprintf("src#%d.%d", s.index, s.generation)
}

// SourceArena issues Source handles. Slots are recycled after Release, with the
// slot generation bumped so a stale handle never matches the new occupant.
type SourceArena struct {
	mu          sync.Mutex
	generations []uint32
	live        []bool
	free        []uint32
}

// NewSourceArena creates an empty arena
func NewSourceArena() *SourceArena {
	return &SourceArena{}
}

// Allocate returns a fresh, live handle
func (a *SourceArena) Allocate() Source {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.generations[idx]++
		a.live[idx] = true
		return Source{index: idx, generation: a.generations[idx]}
	}

	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 1)
	a.live = append(a.live, true)
	return Source{index: idx, generation: 1}
}

// Release returns a handle to the arena. Releasing a stale or unknown handle
// returns false and changes nothing.
func (a *SourceArena) Release(s Source) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isLive(s) {
		return false
	}
	a.live[s.index] = false
	a.free = append(a.free, s.index)
	return true
}

// Live reports whether the handle is currently allocated
func (a *SourceArena) Live(s Source) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isLive(s)
}

// Len returns the number of live handles
func (a *SourceArena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.generations) - len(a.free)
}

func (a *SourceArena) isLive(s Source) bool {
	if s.IsZero() || int(s.index) >= len(a.generations) {
		return false
	}
	return a.live[s.index] && a.generations[s.index] == s.generation
}
