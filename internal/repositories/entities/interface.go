package entities

//go:generate mockgen -destination=mock/mock.go -package=mockentities -source=interface.go

import (
	"context"

	"github.com/ShiJbey/neighborly/internal/entities"
)

// Repository defines the interface for the live entity store
type Repository interface {
	// Add stores a new entity
	Add(ctx context.Context, entity *entities.Entity) error

	// Get retrieves an entity by ID
	Get(ctx context.Context, id string) (*entities.Entity, error)

	// List returns every entity of kind in insertion order. An empty kind
	// lists everything.
	List(ctx context.Context, kind entities.Kind) ([]*entities.Entity, error)

	// Remove deletes an entity
	Remove(ctx context.Context, id string) error

	// Count returns the number of stored entities
	Count(ctx context.Context) (int, error)
}
