// Package repository defines the data access interface for entities.
//
// The SQL implementation lives in the sqlstore subpackage and runs on
// either SQLite or Postgres through internal/storage.
//
// # Repository Interface
//
// EntityRepository covers listing, single reads, creation, full-row
// updates and deletion. Missing rows surface as domain.ErrNotFound so
// callers never need to know which engine is underneath.
//
// # Ordering
//
// List returns entities newest first (descending id).
package repository
