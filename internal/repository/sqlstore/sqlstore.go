package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entities/internal/domain"
	"entities/internal/repository"
	"entities/internal/storage"
)

var _ repository.EntityRepository = (*Repository)(nil)

// Repository implements repository.EntityRepository on a storage.DB
type Repository struct {
	db *storage.DB
}

// New creates a repository backed by db. The schema must already be
// migrated.
func New(db *storage.DB) *Repository {
	return &Repository{db: db}
}

// List returns every entity, newest first
func (r *Repository) List(ctx context.Context) ([]domain.Entity, error) {
	entities := []domain.Entity{}
	err := r.db.Query(ctx,
		`SELECT `+entityColumns+` FROM entities ORDER BY id DESC`,
		func(rows *sql.Rows) error {
			var row entityRow
			if err := rows.Scan(row.scanArgs()...); err != nil {
				return err
			}
			entities = append(entities, row.toDomain())
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return entities, nil
}

// Get returns the entity with id, or domain.ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*domain.Entity, error) {
	var row entityRow
	err := r.db.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = ?`,
		[]any{id}, row.scanArgs()...,
	)
	if errors.Is(err, storage.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entity %d: %w", id, err)
	}
	e := row.toDomain()
	return &e, nil
}

// Create inserts a new entity and returns it as stored, including the
// generated id and created_at
func (r *Repository) Create(ctx context.Context, in domain.EntityInput) (*domain.Entity, error) {
	e := domain.NewEntity(in)
	id, err := r.db.Insert(ctx,
		`INSERT INTO entities (name, type, description, extra_text) VALUES (?, ?, ?, ?)`,
		e.Name, e.Type, stringPtrToNull(e.Description), stringPtrToNull(e.ExtraText),
	)
	if err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}

	created, err := r.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read back entity %d: %w", id, err)
	}
	return created, nil
}

// Update overwrites the mutable columns of e.ID with e's values.
// id and created_at are never written.
func (r *Repository) Update(ctx context.Context, e domain.Entity) (*domain.Entity, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE entities SET name = ?, type = ?, description = ?, extra_text = ? WHERE id = ?`,
		e.Name, e.Type, stringPtrToNull(e.Description), stringPtrToNull(e.ExtraText), e.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update entity %d: %w", e.ID, err)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// Delete removes the entity with id, or returns domain.ErrNotFound
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM entities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entity %d: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ping checks the underlying database
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
