package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"entities/internal/domain"
	"entities/internal/validate"
)

// maxBodyBytes caps request bodies accepted by write endpoints
const maxBodyBytes = 1 << 20

// EntityService is the business API the handler drives
type EntityService interface {
	List(ctx context.Context) ([]domain.Entity, error)
	Get(ctx context.Context, id int64) (*domain.Entity, error)
	Create(ctx context.Context, in domain.EntityInput) (*domain.Entity, error)
	Update(ctx context.Context, id int64, patch domain.EntityPatch) (*domain.Entity, error)
	Delete(ctx context.Context, id int64) error
}

// EntityHandler handles /entities requests
type EntityHandler struct {
	svc    EntityService
	logger *slog.Logger
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(svc EntityService, logger *slog.Logger) *EntityHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EntityHandler{svc: svc, logger: logger}
}

// ErrorResponse is the body of every non-validation error
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ValidationResponse is the body of a 400 caused by bad input
type ValidationResponse struct {
	Errors []domain.FieldError `json:"errors"`
}

// List returns all entities, newest first
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list entities", err)
		return
	}

	h.writeJSON(w, entities, http.StatusOK)
}

// Get returns a single entity
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, fe := validate.ID(r.PathValue("id"))
	if fe != nil {
		h.writeValidation(w, []domain.FieldError{*fe})
		return
	}

	entity, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get entity", err)
		return
	}

	h.writeJSON(w, entity, http.StatusOK)
}

// Create creates a new entity
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r, nil)
	if !ok {
		return
	}

	in, errs := validate.Create(payload)
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	entity, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create entity", err)
		return
	}

	w.Header().Set("Location", "/entities/"+strconv.FormatInt(entity.ID, 10))
	h.writeJSON(w, entity, http.StatusCreated)
}

// Update merges the supplied fields into an existing entity
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var errs []domain.FieldError
	id, fe := validate.ID(r.PathValue("id"))
	if fe != nil {
		errs = append(errs, *fe)
	}

	payload, ok := h.readPayload(w, r, errs)
	if !ok {
		return
	}

	patch, bodyErrs := validate.Update(payload)
	errs = append(errs, bodyErrs...)
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	entity, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, "update entity", err)
		return
	}

	h.writeJSON(w, entity, http.StatusOK)
}

// Delete removes an entity
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, fe := validate.ID(r.PathValue("id"))
	if fe != nil {
		h.writeValidation(w, []domain.FieldError{*fe})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete entity", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// readPayload reads and decodes the request body. prior holds errors
// already found in the request; they are reported together with any body
// error. ok is false once a response has been written.
func (h *EntityHandler) readPayload(w http.ResponseWriter, r *http.Request, prior []domain.FieldError) (validate.Payload, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "request body too large", "", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		h.writeError(w, "failed to read request body", "", http.StatusBadRequest)
		return nil, false
	}

	payload, fe := validate.ParsePayload(body)
	if fe != nil {
		h.writeValidation(w, append(prior, *fe))
		return nil, false
	}
	return payload, true
}

// fail maps a service error onto an HTTP response. Storage detail is
// logged and never sent to the client.
func (h *EntityHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, "not found", "", http.StatusNotFound)
	case errors.As(err, &verr):
		h.writeValidation(w, verr.Errors)
	case errors.Is(err, context.Canceled):
		h.logger.InfoContext(r.Context(), op+" canceled", "request_id", RequestIDFromContext(r.Context()))
		h.writeError(w, "request canceled", "", http.StatusServiceUnavailable)
	default:
		h.logger.ErrorContext(r.Context(), op+" failed",
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		h.writeError(w, "internal server error", "", http.StatusInternalServerError)
	}
}

// Helper methods

func (h *EntityHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	writeJSON(w, h.logger, data, statusCode)
}

func (h *EntityHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, h.logger, ErrorResponse{Error: error, Details: details}, statusCode)
}

func (h *EntityHandler) writeValidation(w http.ResponseWriter, errs []domain.FieldError) {
	writeJSON(w, h.logger, ValidationResponse{Errors: errs}, http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON", "error", err)
	}
}
