package catalog

//go:generate mockgen -destination=mock/mock.go -package=mockcatalog -source=interface.go

import (
	"context"
	"time"
)

// Document is one raw authoring record file, keyed by name
type Document struct {
	Name      string
	Body      []byte
	UpdatedAt time.Time
}

// Repository stores authoring record documents
type Repository interface {
	// Put creates or replaces a document
	Put(ctx context.Context, doc *Document) error

	// Get retrieves a document by name
	Get(ctx context.Context, name string) (*Document, error)

	// List returns every document sorted by name
	List(ctx context.Context) ([]*Document, error)

	// Delete removes a document
	Delete(ctx context.Context, name string) error
}

// TimeProvider stamps UpdatedAt on stored documents
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
