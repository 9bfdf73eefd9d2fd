package stats

import (
	"fmt"
	"math"
	"sync"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// Bounds is the closed range a stat's computed value is clamped to
type Bounds struct {
	Min float64
	Max float64
}

// Unbounded is used for stats without explicit bounds
var Unbounded = Bounds{Min: -math.MaxFloat64, Max: math.MaxFloat64}

// Stat is a bounded numeric value computed from a base value and a stack of
// modifiers. The computed value is cached and recomputed on the first read
// after a mutation.
type Stat struct {
	mu        sync.Mutex
	base      float64
	bounds    Bounds
	bounded   bool
	discrete  bool
	modifiers []Modifier
	value     float64
	dirty     bool
}

// New creates an unbounded stat
func New(base float64) *Stat {
	return &Stat{
		base:   base,
		bounds: Unbounded,
		dirty:  true,
	}
}

// NewBounded creates a stat clamped to bounds. Discrete stats round their
// computed value to the nearest integer after clamping.
func NewBounded(base float64, bounds Bounds, discrete bool) *Stat {
	if bounds.Min > bounds.Max {
		bounds.Min, bounds.Max = bounds.Max, bounds.Min
	}
	return &Stat{
		base:     base,
		bounds:   bounds,
		bounded:  true,
		discrete: discrete,
		dirty:    true,
	}
}

// BaseValue returns the value before modifiers
func (s *Stat) BaseValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// SetBaseValue replaces the base value
func (s *Stat) SetBaseValue(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = v
	s.dirty = true
}

// AddToBase permanently shifts the base value
func (s *Stat) AddToBase(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base += delta
	s.dirty = true
}

// Bounds returns the clamp range and whether the stat is bounded at all
func (s *Stat) Bounds() (Bounds, bool) {
	return s.bounds, s.bounded
}

// IsDiscrete reports whether the computed value is rounded
func (s *Stat) IsDiscrete() bool {
	return s.discrete
}

// Value returns the computed value, recomputing it if needed
func (s *Stat) Value() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		s.recalculate()
	}
	return s.value
}

// Normalized projects the computed value linearly onto [0, 1] using the
// stat's own bounds. Unbounded stats cannot be normalized.
func (s *Stat) Normalized() (float64, error) {
	if !s.bounded {
		return 0, simerr.InvalidArgument("cannot normalize an unbounded stat")
	}

	span := s.bounds.Max - s.bounds.Min
	if span == 0 {
		return 0, nil
	}
	return (s.Value() - s.bounds.Min) / span, nil
}

// AddModifier appends a modifier to the stack. Every modifier must carry a
// source so that it can be removed again.
func (s *Stat) AddModifier(m Modifier) error {
	if m.Source.IsZero() {
		return simerr.Internalf("modifier %s has no source", m)
	}
	if _, ok := kindNames[m.Kind]; !ok {
		return simerr.InvalidArgumentf("modifier has unknown kind %s", m.Kind)
	}
	if math.IsNaN(m.Magnitude) || math.IsInf(m.Magnitude, 0) {
		return simerr.InvalidArgumentf("modifier magnitude %v is not finite", m.Magnitude)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.modifiers = append(s.modifiers, m)
	s.dirty = true
	return nil
}

// RemoveModifiersFromSource removes every modifier produced by source and
// reports whether anything was removed. Unknown sources are a no-op.
func (s *Stat) RemoveModifiersFromSource(source Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.modifiers[:0]
	removed := false
	for _, m := range s.modifiers {
		if m.Source == source {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	// clear the tail so removed modifiers are not retained by the backing array
	for i := len(kept); i < len(s.modifiers); i++ {
		s.modifiers[i] = Modifier{}
	}
	s.modifiers = kept

	if removed {
		s.dirty = true
	}
	return removed
}

// Modifiers returns a copy of the modifier stack in insertion order
func (s *Stat) Modifiers() []Modifier {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Modifier, len(s.modifiers))
	copy(out, s.modifiers)
	return out
}

func (s *Stat) recalculate() {
	value := s.base

	var percentAdd float64
	for _, m := range s.modifiers {
		switch m.Kind {
		case Flat:
			value += m.Magnitude
		case PercentAdd:
			percentAdd += m.Magnitude
		}
	}

	value *= 1 + percentAdd

	for _, m := range s.modifiers {
		if m.Kind == PercentMultiply {
			value *= 1 + m.Magnitude
		}
	}

	if s.bounded {
		// NaN survives math.Max and math.Min
		if math.IsNaN(value) {
			value = s.bounds.Min
		}
		value = math.Max(s.bounds.Min, math.Min(s.bounds.Max, value))
	}
	if s.discrete {
		value = math.Round(value)
	}

	s.value = value
	s.dirty = false
}

func (s *Stat) String() string {
	return fmt.Sprintf("Stat(value=%g, base=%g, modifiers=%d)", s.Value(), s.BaseValue(), len(s.Modifiers()))
}
