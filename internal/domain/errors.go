package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a referenced entity does not exist
var ErrNotFound = errors.New("not found")

// Error locations reported in FieldError.Location
const (
	LocationBody   = "body"
	LocationParams = "params"
)

// FieldError describes one failed input constraint
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location"`
}

// NewFieldError creates a field error for the given path and location
func NewFieldError(location, path string, value any, msg string) FieldError {
	return FieldError{
		Type:     "field",
		Value:    value,
		Msg:      msg,
		Path:     path,
		Location: location,
	}
}

func (e FieldError) String() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// ValidationError is returned when client input fails one or more constraints
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError wraps field errors, returning nil when there are none
func NewValidationError(errs ...FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.String())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Paths returns the failing field names in order
func (e *ValidationError) Paths() []string {
	paths := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		paths = append(paths, fe.Path)
	}
	return paths
}
