// Package sqlstore implements repository.EntityRepository on top of
// internal/storage, so the same queries run on SQLite and Postgres.
package sqlstore
