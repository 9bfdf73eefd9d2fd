package entities

import (
	"fmt"

	"github.com/ShiJbey/neighborly/internal/stats"
)

// Kind is the broad category of a simulation entity
type Kind string

const (
	KindCharacter    Kind = "character"
	KindBusiness     Kind = "business"
	KindResidence    Kind = "residence"
	KindRelationship Kind = "relationship"
)

// Entity is an addressable simulation object that stats and traits attach to.
// Relationships are entities too; for them Edge is non-nil.
type Entity struct {
	ID        string
	Name      string
	Kind      Kind
	Sex       Sex
	LifeStage LifeStage

	Stats               *stats.Sheet
	Skills              *stats.Sheet
	Traits              *TraitSet
	LocationPreferences *PreferenceSet
	Relationships       *RelationshipIndex

	Edge *Edge
}

// Edge records the endpoints of a directed relationship
type Edge struct {
	Owner  *Entity
	Target *Entity
}

// Config holds the fields used to build a new entity
type Config struct {
	ID        string
	Name      string
	Kind      Kind
	Sex       Sex
	LifeStage LifeStage
	Schema    *stats.Schema
}

// New creates an entity with a stat sheet built from cfg.Schema and empty
// skills, traits, preferences and relationships.
func New(cfg *Config) *Entity {
	name := cfg.Name
	if name == "" {
		name = cfg.ID
	}
	return &Entity{
		ID:                  cfg.ID,
		Name:                name,
		Kind:                cfg.Kind,
		Sex:                 cfg.Sex,
		LifeStage:           cfg.LifeStage,
		Stats:               stats.NewSheet(cfg.Schema),
		Skills:              stats.NewSheet(nil),
		Traits:              NewTraitSet(),
		LocationPreferences: NewPreferenceSet(),
		Relationships:       NewRelationshipIndex(),
	}
}

// NewRelationship creates the relationship entity for owner -> target
func NewRelationship(id string, owner, target *Entity, schema *stats.Schema) *Entity {
	rel := New(&Config{
		ID:     id,
		Name:   fmt.Sprintf("%s -> %s", owner.Name, target.Name),
		Kind:   KindRelationship,
		Schema: schema,
	})
	rel.Edge = &Edge{Owner: owner, Target: target}
	return rel
}

// IsRelationship reports whether the entity is a directed relationship
func (e *Entity) IsRelationship() bool {
	return e.Edge != nil
}

// HasTrait reports whether a trait with the given id is attached
func (e *Entity) HasTrait(id string) bool {
	return e.Traits.Has(id)
}

// GetStat returns a stat from the entity's sheet
func (e *Entity) GetStat(id string) (*stats.Stat, error) {
	return e.Stats.Get(id)
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Name)
}
