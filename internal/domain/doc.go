// Package domain defines the core types of the entities service.
//
// # Core Types
//
// Entity is the single stored record: a surrogate integer id, a name, a
// type, optional description and extra text, and a creation timestamp
// assigned by the database.
//
// EntityInput and EntityPatch are the validated shapes of create and
// update payloads. EntityPatch.Apply implements the partial update policy:
// fields that were not supplied keep their stored value.
//
// # Errors
//
// ErrNotFound, ValidationError and FieldError make up the client-facing
// error taxonomy. Storage failures are reported by the storage package and
// never reach clients in detail.
//
// # Design Principles
//
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
