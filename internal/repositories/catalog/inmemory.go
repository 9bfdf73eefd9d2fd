package catalog

import (
	"context"
	"sort"
	"sync"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// InMemoryRepository keeps documents in a map. Useful for tests and one-shot
// CLI runs.
type InMemoryRepository struct {
	mu        sync.RWMutex
	documents map[string]*Document
	clock     TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return NewInMemoryRepositoryWithClock(systemClock{})
}

// NewInMemoryRepositoryWithClock creates a repository stamping documents with clock
func NewInMemoryRepositoryWithClock(clock TimeProvider) Repository {
	return &InMemoryRepository{
		documents: make(map[string]*Document),
		clock:     clock,
	}
}

// Put creates or replaces a document
func (r *InMemoryRepository) Put(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyDocument(doc)
	stored.UpdatedAt = r.clock.Now()
	r.documents[doc.Name] = stored
	doc.UpdatedAt = stored.UpdatedAt

	return nil
}

// Get retrieves a document by name
func (r *InMemoryRepository) Get(ctx context.Context, name string) (*Document, error) {
	if name == "" {
		return nil, simerr.InvalidArgument("document name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.documents[name]
	if !exists {
		return nil, simerr.NotFoundf("document '%s' not found", name).
			WithMeta("document", name)
	}

	return copyDocument(doc), nil
}

// List returns every document sorted by name
func (r *InMemoryRepository) List(ctx context.Context) ([]*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Document, 0, len(r.documents))
	for _, doc := range r.documents {
		result = append(result, copyDocument(doc))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

// Delete removes a document
func (r *InMemoryRepository) Delete(ctx context.Context, name string) error {
	if name == "" {
		return simerr.InvalidArgument("document name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.documents[name]; !exists {
		return simerr.NotFoundf("document '%s' not found", name).
			WithMeta("document", name)
	}
	delete(r.documents, name)

	return nil
}

func validateDocument(doc *Document) error {
	if doc == nil {
		return simerr.InvalidArgument("document cannot be nil")
	}
	if doc.Name == "" {
		return simerr.InvalidArgument("document name is required")
	}
	return nil
}

func copyDocument(doc *Document) *Document {
	c := *doc
	c.Body = append([]byte(nil), doc.Body...)
	return &c
}
