// Package service implements business logic for the entities service.
//
// EntityService sits between the HTTP handlers and the repository. Payloads
// arrive already validated; the service owns the partial-update merge and
// logs every successful write.
//
// # Update Semantics
//
// Update reads the stored row, overlays the fields supplied in the patch
// and writes the merged row back. Absent or null fields keep their stored
// values. id and created_at are immutable.
//
// # Errors
//
// domain.ErrNotFound passes through unchanged. Anything else comes from
// storage and is returned as-is for the handler to translate.
package service
