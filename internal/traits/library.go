package traits

import (
	"sort"
	"sync"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// Library is the catalogue of every loaded trait definition
type Library struct {
	mu     sync.RWMutex
	traits map[string]*Trait
}

// NewLibrary creates an empty library
func NewLibrary() *Library {
	return &Library{traits: make(map[string]*Trait)}
}

// Add catalogues a trait
func (l *Library) Add(t *Trait) error {
	if t == nil || t.ID == "" {
		return simerr.InvalidArgument("trait id is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.traits[t.ID]; ok {
		return simerr.AlreadyExistsf("trait %q is already defined", t.ID).WithMeta("trait", t.ID)
	}
	l.traits[t.ID] = t
	return nil
}

// Get returns the trait with the given id
func (l *Library) Get(id string) (*Trait, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.traits[id]
	if !ok {
		return nil, simerr.NotFoundf("trait %q is not defined", id).WithMeta("trait", id)
	}
	return t, nil
}

// Has reports whether id is catalogued
func (l *Library) Has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.traits[id]
	return ok
}

// IDs returns every trait id in sorted order
func (l *Library) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.traits))
	for id := range l.traits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every trait sorted by id
func (l *Library) All() []*Trait {
	ids := l.IDs()

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Trait, 0, len(ids))
	for _, id := range ids {
		if t, ok := l.traits[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of catalogued traits
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.traits)
}

// UnknownConflicts lists "trait -> id" pairs whose conflict id is not
// catalogued, sorted
func (l *Library) UnknownConflicts() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []string
	for id, t := range l.traits {
		for other := range t.ConflictsWith {
			if _, ok := l.traits[other]; !ok {
				out = append(out, id+" -> "+other)
			}
		}
	}
	sort.Strings(out)
	return out
}
