package traits

import (
	"github.com/ShiJbey/neighborly/internal/effects"
)

// Trait is a named bundle of effects that can be attached to an entity
type Trait struct {
	ID                      string
	DisplayName             string
	Description             string
	Effects                 []effects.Effect
	ConflictsWith           map[string]struct{}
	SpawnFrequency          float64
	InheritanceChanceSingle float64
	InheritanceChanceBoth   float64
}

// Conflicts reports whether this trait lists other as a conflict
func (t *Trait) Conflicts(other string) bool {
	_, ok := t.ConflictsWith[other]
	return ok
}

// Conflicting returns the conflict ids in no particular order
func (t *Trait) Conflicting() []string {
	out := make([]string, 0, len(t.ConflictsWith))
	for id := range t.ConflictsWith {
		out = append(out, id)
	}
	return out
}

// Inheritable reports whether either inheritance chance is positive
func (t *Trait) Inheritable() bool {
	return t.InheritanceChanceSingle > 0 || t.InheritanceChanceBoth > 0
}

// Builder helps create traits
type Builder struct {
	trait *Trait
}

// NewBuilder creates a new trait builder
func NewBuilder(id string) *Builder {
	return &Builder{
		trait: &Trait{
			ID:            id,
			DisplayName:   id,
			ConflictsWith: make(map[string]struct{}),
		},
	}
}

// WithDisplayName sets the display name
func (b *Builder) WithDisplayName(name string) *Builder {
	if name != "" {
		b.trait.DisplayName = name
	}
	return b
}

// WithDescription adds a description
func (b *Builder) WithDescription(desc string) *Builder {
	b.trait.Description = desc
	return b
}

// AddEffect appends an effect. Effects apply in the order they are added.
func (b *Builder) AddEffect(e effects.Effect) *Builder {
	b.trait.Effects = append(b.trait.Effects, e)
	return b
}

// ConflictsWith marks trait ids that cannot be held alongside this one
func (b *Builder) ConflictsWith(ids ...string) *Builder {
	for _, id := range ids {
		b.trait.ConflictsWith[id] = struct{}{}
	}
	return b
}

// WithSpawnFrequency sets the relative weight for random spawning
func (b *Builder) WithSpawnFrequency(f float64) *Builder {
	b.trait.SpawnFrequency = f
	return b
}

// WithInheritance sets the chance of inheriting from one or both parents
func (b *Builder) WithInheritance(single, both float64) *Builder {
	b.trait.InheritanceChanceSingle = single
	b.trait.InheritanceChanceBoth = both
	return b
}

// Build returns the constructed trait
func (b *Builder) Build() *Trait {
	return b.trait
}
