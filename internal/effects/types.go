package effects

import (
	"github.com/ShiJbey/neighborly/internal/entities"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// Effect is a reversible side effect applied to an entity. Apply tags every
// change with ctx.Source and Remove undoes exactly the changes made under it.
type Effect interface {
	Description() string
	Apply(ctx *Context, target *entities.Entity) error
	Remove(ctx *Context, target *entities.Entity) error
}

// Validator is implemented by effects that can reject a target before
// anything is applied
type Validator interface {
	Validate(target *entities.Entity) error
}

// Precondition is a pure predicate over an entity
type Precondition interface {
	entities.Predicate
	Description() string
}

// Context is passed to every Apply and Remove call
type Context struct {
	Source stats.Source
	Rules  RuleSink
	Traits TraitAttacher
}

// WithSource returns a copy of the context tagged with src
func (c *Context) WithSource(src stats.Source) *Context {
	out := *c
	out.Source = src
	return &out
}

// SocialRule is a bundle of preconditions and effects that an owner applies to
// each of its outgoing relationships that satisfies every precondition.
// Rules are identified by owner and source.
type SocialRule struct {
	Source        stats.Source
	Owner         *entities.Entity
	Description   string
	Preconditions []Precondition
	Effects       []Effect
}

// Check reports whether the relationship satisfies every precondition
func (r *SocialRule) Check(relationship *entities.Entity) bool {
	for _, p := range r.Preconditions {
		if !p.Check(relationship) {
			return false
		}
	}
	return true
}

// Same reports whether both values describe the same registered rule
func (r *SocialRule) Same(other *SocialRule) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Owner == other.Owner && r.Source == other.Source
}
