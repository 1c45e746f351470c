// Package storage is the relational storage adapter for the entities service.
//
// A DB wraps a database/sql connection pool for one of two engines:
//
// - SQLite via modernc.org/sqlite (pure Go, default)
// - Postgres via the pgx stdlib driver
//
// # Operations
//
// Query returns zero or more rows, QueryRow at most one (ErrNoRows when
// absent), Exec reports affected rows and Insert returns the generated id.
// Every statement is parameterized; callers write ? placeholders and the
// adapter rebinds them for Postgres.
//
// Driver failures come back as *StorageError. The wrapped detail belongs in
// server logs only.
//
// # Schema
//
// Migrate applies the embedded migrations for the active dialect, recording
// each file in schema_migrations. Seed adds the two sample rows to an empty
// table and Reset drops everything for a fresh start.
//
// # Tracing
//
// Each call opens an OpenTelemetry client span. Without a configured
// tracer provider the spans are no-ops.
package storage
