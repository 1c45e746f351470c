// Package handler implements the HTTP layer for the entities API.
//
// # Handlers
//
// EntityHandler serves the five CRUD routes under /entities. HealthHandler
// answers /healthz with a database ping. Static serves the embedded
// front-end and falls back to index.html for unknown paths.
//
// Middleware provides request ids, panic recovery, CORS, tracing and a
// structured access log. Chain composes them.
//
// # API Design
//
//   - GET /entities returns every entity, newest first
//   - GET /entities/{id} returns one entity
//   - POST /entities creates an entity (201, Location header)
//   - PUT /entities/{id} merges the supplied fields into an entity
//   - DELETE /entities/{id} removes an entity (204, empty body)
//
// Input is validated before any storage call.
//
// # Response Format
//
// Success responses are JSON. Bad input yields 400 with
// {"errors":[{type,value,msg,path,location}...]}. A missing entity is 404
// {"error":"not found"}. Storage failures are 500
// {"error":"internal server error"}; the cause is logged, never returned.
package handler
