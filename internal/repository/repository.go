package repository

import (
	"context"

	"entities/internal/domain"
)

// EntityRepository defines data access for entity records.
//
// Get, Update and Delete return domain.ErrNotFound when no row has the id.
// Any other error is a storage failure.
type EntityRepository interface {
	// Read operations
	List(ctx context.Context) ([]domain.Entity, error)
	Get(ctx context.Context, id int64) (*domain.Entity, error)

	// Write operations
	Create(ctx context.Context, in domain.EntityInput) (*domain.Entity, error)
	Update(ctx context.Context, e domain.Entity) (*domain.Entity, error)
	Delete(ctx context.Context, id int64) error

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}
