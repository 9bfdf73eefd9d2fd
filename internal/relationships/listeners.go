package relationships

//go:generate mockgen -destination=mock/mock.go -package=mockrelationships -source=listeners.go

import "github.com/ShiJbey/neighborly/internal/entities"

// CreationListener is told about every relationship the directory creates
type CreationListener interface {
	OnRelationshipCreated(rel *entities.Entity) error
}

// RemovalListener is told about every relationship the directory removes
type RemovalListener interface {
	Forget(rel *entities.Entity)
}
