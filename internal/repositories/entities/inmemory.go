package entities

import (
	"context"
	"slices"
	"sync"

	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the entity repository.
// Entities are live objects, so it hands out the stored pointers.
type InMemoryRepository struct {
	mu       sync.RWMutex
	entities map[string]*entities.Entity
	order    []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		entities: make(map[string]*entities.Entity),
	}
}

// Add stores a new entity
func (r *InMemoryRepository) Add(ctx context.Context, entity *entities.Entity) error {
	if entity == nil {
		return simerr.InvalidArgument("entity cannot be nil")
	}

	if entity.ID == "" {
		return simerr.InvalidArgument("entity ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[entity.ID]; exists {
		return simerr.AlreadyExistsf("entity with ID '%s' already exists", entity.ID).
			WithMeta("entity_id", entity.ID)
	}

	r.entities[entity.ID] = entity
	r.order = append(r.order, entity.ID)

	return nil
}

// Get retrieves an entity by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*entities.Entity, error) {
	if id == "" {
		return nil, simerr.InvalidArgument("entity ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entity, exists := r.entities[id]
	if !exists {
		return nil, simerr.NotFoundf("entity with ID '%s' not found", id).
			WithMeta("entity_id", id)
	}

	return entity, nil
}

// List returns entities of kind in insertion order
func (r *InMemoryRepository) List(ctx context.Context, kind entities.Kind) ([]*entities.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Entity, 0, len(r.order))
	for _, id := range r.order {
		entity := r.entities[id]
		if kind == "" || entity.Kind == kind {
			result = append(result, entity)
		}
	}

	return result, nil
}

// Remove deletes an entity
func (r *InMemoryRepository) Remove(ctx context.Context, id string) error {
	if id == "" {
		return simerr.InvalidArgument("entity ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[id]; !exists {
		return simerr.NotFoundf("entity with ID '%s' not found", id).
			WithMeta("entity_id", id)
	}

	delete(r.entities, id)
	r.order = slices.DeleteFunc(r.order, func(existing string) bool { return existing == id })

	return nil
}

// Count returns the number of stored entities
func (r *InMemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities), nil
}
