package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness probes with a database round trip
type HealthHandler struct {
	db      Pinger
	logger  *slog.Logger
	timeout time.Duration
}

// NewHealthHandler creates a health handler that pings db
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HealthHandler{db: db, logger: logger, timeout: 2 * time.Second}
}

// HealthResponse is the body returned by /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, h.logger, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, h.logger, HealthResponse{Status: "ok"}, http.StatusOK)
}
