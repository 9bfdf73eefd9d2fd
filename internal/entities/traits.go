package entities

import "github.com/ShiJbey/neighborly/internal/stats"

// Permanent marks a trait attachment without a countdown
const Permanent = -1

// TraitRecord is one trait attached to an entity. Sources holds the provenance
// handle of each of the trait's effects, in declaration order.
type TraitRecord struct {
	ID          string
	Description string
	Sources     []stats.Source
	Remaining   int

	// Granted is set when an effect attached the trait rather than a direct
	// call. A granted record goes away with its last grant.
	Granted bool
	grants  map[stats.Source]struct{}
}

// AddGrant records that the effect applied under src holds this trait
func (r *TraitRecord) AddGrant(src stats.Source) {
	if r.grants == nil {
		r.grants = make(map[stats.Source]struct{})
	}
	r.grants[src] = struct{}{}
}

// DropGrant withdraws src's grant and reports whether it held one
func (r *TraitRecord) DropGrant(src stats.Source) bool {
	if _, ok := r.grants[src]; !ok {
		return false
	}
	delete(r.grants, src)
	return true
}

// Grants returns the number of effects holding the trait
func (r *TraitRecord) Grants() int {
	return len(r.grants)
}

// HasDuration reports whether the attachment counts down
func (r *TraitRecord) HasDuration() bool {
	return r.Remaining != Permanent
}

// TraitSet keeps attached traits in attachment order
type TraitSet struct {
	records []*TraitRecord
	index   map[string]*TraitRecord
}

// NewTraitSet creates an empty set
func NewTraitSet() *TraitSet {
	return &TraitSet{index: make(map[string]*TraitRecord)}
}

// Has reports whether id is attached
func (s *TraitSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns the record for id
func (s *TraitSet) Get(id string) (*TraitRecord, bool) {
	r, ok := s.index[id]
	return r, ok
}

// IDs returns attached trait ids in attachment order
func (s *TraitSet) IDs() []string {
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.ID
	}
	return out
}

// Records returns the attached records in attachment order
func (s *TraitSet) Records() []*TraitRecord {
	out := make([]*TraitRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of attached traits
func (s *TraitSet) Len() int {
	return len(s.records)
}

// Insert appends a record. It returns false if the id is already attached.
// Only the trait lifecycle manager should call this.
func (s *TraitSet) Insert(r *TraitRecord) bool {
	if s.Has(r.ID) {
		return false
	}
	s.records = append(s.records, r)
	s.index[r.ID] = r
	return true
}

// Delete drops the record for id and returns it
func (s *TraitSet) Delete(id string) (*TraitRecord, bool) {
	r, ok := s.index[id]
	if !ok {
		return nil, false
	}
	delete(s.index, id)
	for i, rec := range s.records {
		if rec == r {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return r, true
}
