package events

import (
	"github.com/ShiJbey/neighborly/internal/entities"
)

// EventType represents the type of simulation event
type EventType string

// Event is the base interface for all simulation events. Events are emitted
// after the change they describe has completed.
type Event interface {
	GetType() EventType
	GetEntity() *entities.Entity
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type      EventType
	Entity    *entities.Entity
	Cancelled bool
}

func (e *BaseEvent) GetType() EventType          { return e.Type }
func (e *BaseEvent) GetEntity() *entities.Entity { return e.Entity }
func (e *BaseEvent) IsCancelled() bool           { return e.Cancelled }
func (e *BaseEvent) Cancel()                     { e.Cancelled = true }

// TraitEvent reports a trait attached to, detached from, or expired on Entity
type TraitEvent struct {
	BaseEvent
	TraitID string
}

// RelationshipEvent reports a relationship created or removed. Entity is the
// relationship's owner.
type RelationshipEvent struct {
	BaseEvent
	Relationship *entities.Entity
}

// RuleEvent reports a social rule applied to or removed from a relationship.
// Entity is the rule's owner.
type RuleEvent struct {
	BaseEvent
	Relationship *entities.Entity
	Description  string
}

// CharacterEvent reports a character entering or leaving the simulation
type CharacterEvent struct {
	BaseEvent
}

// NewTraitEvent builds a trait event
func NewTraitEvent(t EventType, entity *entities.Entity, traitID string) *TraitEvent {
	return &TraitEvent{BaseEvent: BaseEvent{Type: t, Entity: entity}, TraitID: traitID}
}

// NewRelationshipEvent builds a relationship event
func NewRelationshipEvent(t EventType, relationship *entities.Entity) *RelationshipEvent {
	var owner *entities.Entity
	if relationship.Edge != nil {
		owner = relationship.Edge.Owner
	}
	return &RelationshipEvent{BaseEvent: BaseEvent{Type: t, Entity: owner}, Relationship: relationship}
}

// NewCharacterEvent builds a character event
func NewCharacterEvent(t EventType, character *entities.Entity) *CharacterEvent {
	return &CharacterEvent{BaseEvent: BaseEvent{Type: t, Entity: character}}
}
