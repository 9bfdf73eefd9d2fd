package stats

import (
	"sync"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// Definition describes one stat in a schema
type Definition struct {
	ID       string
	Base     float64
	Bounds   Bounds
	Bounded  bool
	Discrete bool
}

// Build creates a fresh stat from the definition
func (d Definition) Build() *Stat {
	if d.Bounded {
		return NewBounded(d.Base, d.Bounds, d.Discrete)
	}
	return New(d.Base)
}

// Schema is a named catalogue of stat identifiers. Every entity kind has one;
// a sheet built from it holds exactly those stats.
type Schema struct {
	name  string
	defs  []Definition
	index map[string]int
}

// NewSchema creates a schema. Later definitions with a repeated ID replace earlier ones.
func NewSchema(name string, defs ...Definition) *Schema {
	s := &Schema{name: name, index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if i, ok := s.index[d.ID]; ok {
			s.defs[i] = d
			continue
		}
		s.index[d.ID] = len(s.defs)
		s.defs = append(s.defs, d)
	}
	return s
}

// Name returns the schema name
func (s *Schema) Name() string {
	return s.name
}

// Has reports whether id is part of the schema
func (s *Schema) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Definition returns the definition for id
func (s *Schema) Definition(id string) (Definition, bool) {
	i, ok := s.index[id]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// Definitions returns the definitions in declaration order
func (s *Schema) Definitions() []Definition {
	out := make([]Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Sheet holds the stats of one entity
type Sheet struct {
	mu     sync.RWMutex
	schema *Schema
	stats  map[string]*Stat
	order  []string
}

// NewSheet builds every stat of the schema. A nil schema yields an empty,
// open sheet (used for skills, which are added on demand).
func NewSheet(schema *Schema) *Sheet {
	sh := &Sheet{schema: schema, stats: make(map[string]*Stat)}
	if schema == nil {
		return sh
	}
	for _, d := range schema.defs {
		sh.stats[d.ID] = d.Build()
		sh.order = append(sh.order, d.ID)
	}
	return sh
}

// Schema returns the schema the sheet was built from, or nil
func (sh *Sheet) Schema() *Schema {
	return sh.schema
}

// Get returns the stat with the given id. Reading an id outside the sheet is
// an error rather than a silent zero.
func (sh *Sheet) Get(id string) (*Stat, error) {
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	stat, ok := sh.stats[id]
	if !ok {
		schemaName := "open"
		if sh.schema != nil {
			schemaName = sh.schema.name
		}
		return nil, simerr.NotFoundf("stat %q is not defined", id).
			WithMeta("stat", id).
			WithMeta("schema", schemaName)
	}
	return stat, nil
}

// Has reports whether the sheet holds id
func (sh *Sheet) Has(id string) bool {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, ok := sh.stats[id]
	return ok
}

// Add inserts a stat. It returns AlreadyExists if the id is taken.
func (sh *Sheet) Add(id string, stat *Stat) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.stats[id]; ok {
		return simerr.AlreadyExistsf("stat %q already exists", id).WithMeta("stat", id)
	}
	sh.stats[id] = stat
	sh.order = append(sh.order, id)
	return nil
}

// IDs returns stat ids in the order they were added
func (sh *Sheet) IDs() []string {
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	out := make([]string, len(sh.order))
	copy(out, sh.order)
	return out
}

// RemoveModifiersFromSource strips source from every stat on the sheet
func (sh *Sheet) RemoveModifiersFromSource(source Source) bool {
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	removed := false
	for _, id := range sh.order {
		if sh.stats[id].RemoveModifiersFromSource(source) {
			removed = true
		}
	}
	return removed
}

// Snapshot returns the computed value of every stat
func (sh *Sheet) Snapshot() map[string]float64 {
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	out := make(map[string]float64, len(sh.stats))
	for id, stat := range sh.stats {
		out[id] = stat.Value()
	}
	return out
}
