package entities

import "github.com/ShiJbey/neighborly/internal/stats"

// Predicate is a boolean check against an entity
type Predicate interface {
	Check(target *Entity) bool
}

// LocationPreference makes a character more or less likely to frequent places
// that satisfy all of its preconditions.
type LocationPreference struct {
	Source        stats.Source
	Description   string
	Probability   float64
	Preconditions []Predicate
}

// Matches reports whether location satisfies every precondition
func (p *LocationPreference) Matches(location *Entity) bool {
	for _, pre := range p.Preconditions {
		if !pre.Check(location) {
			return false
		}
	}
	return true
}

// PreferenceSet holds an entity's location preferences in order
type PreferenceSet struct {
	prefs []*LocationPreference
}

// NewPreferenceSet creates an empty set
func NewPreferenceSet() *PreferenceSet {
	return &PreferenceSet{}
}

// Add appends a preference
func (s *PreferenceSet) Add(p *LocationPreference) {
	s.prefs = append(s.prefs, p)
}

// RemoveFromSource drops every preference added under src
func (s *PreferenceSet) RemoveFromSource(src stats.Source) bool {
	kept := s.prefs[:0]
	removed := false
	for _, p := range s.prefs {
		if p.Source == src {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(s.prefs); i++ {
		s.prefs[i] = nil
	}
	s.prefs = kept
	return removed
}

// All returns the preferences in insertion order
func (s *PreferenceSet) All() []*LocationPreference {
	out := make([]*LocationPreference, len(s.prefs))
	copy(out, s.prefs)
	return out
}

// Len returns the number of preferences
func (s *PreferenceSet) Len() int {
	return len(s.prefs)
}
