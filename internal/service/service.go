package service

import (
	"context"
	"errors"
	"log/slog"

	"entities/internal/domain"
	"entities/internal/repository"
)

// EntityService provides the business operations behind /entities
type EntityService struct {
	repo   repository.EntityRepository
	logger *slog.Logger
}

// NewEntityService creates a new entity service. A nil logger discards
// output.
func NewEntityService(repo repository.EntityRepository, logger *slog.Logger) *EntityService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EntityService{
		repo:   repo,
		logger: logger.With("component", "entity_service"),
	}
}

// List returns all entities, newest first. The result is never nil.
func (s *EntityService) List(ctx context.Context) ([]domain.Entity, error) {
	entities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []domain.Entity{}
	}
	return entities, nil
}

// Get retrieves a single entity by ID
func (s *EntityService) Get(ctx context.Context, id int64) (*domain.Entity, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new entity from a validated payload
func (s *EntityService) Create(ctx context.Context, in domain.EntityInput) (*domain.Entity, error) {
	e, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "entity created", "id", e.ID, "type", e.Type)
	return e, nil
}

// Update merges patch into the stored entity and persists the result.
// Fields left nil in patch keep their stored values; an empty patch
// returns the entity unchanged without writing.
func (s *EntityService) Update(ctx context.Context, id int64, patch domain.EntityPatch) (*domain.Entity, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, patch.Apply(*current))
	if err != nil {
		// Deleted between the read and the write
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.DebugContext(ctx, "entity vanished during update", "id", id)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "entity updated", "id", id)
	return updated, nil
}

// Delete removes an entity
func (s *EntityService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "entity deleted", "id", id)
	return nil
}

// Ping reports whether storage is reachable
func (s *EntityService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
