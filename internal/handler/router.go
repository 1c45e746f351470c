package handler

import (
	"io/fs"
	"net/http"
)

// NewRouter binds the entity routes, the health probe and, when static is
// non-nil, the front-end
func NewRouter(entities *EntityHandler, health http.Handler, static fs.FS) *http.ServeMux {
	mux := http.NewServeMux()

	// Entity endpoints
	mux.HandleFunc("GET /entities", entities.List)
	mux.HandleFunc("POST /entities", entities.Create)
	mux.HandleFunc("GET /entities/{id}", entities.Get)
	mux.HandleFunc("PUT /entities/{id}", entities.Update)
	mux.HandleFunc("DELETE /entities/{id}", entities.Delete)

	if health != nil {
		mux.Handle("GET /healthz", health)
	}

	// Front-end with client-side routing fallback
	if static != nil {
		mux.Handle("GET /", Static(static))
	}

	return mux
}
