// Package validate checks client payloads before they reach the service layer.
//
// Validation is pure: it reads a decoded JSON object and returns either a
// typed domain value or an ordered list of field errors. Field length rules
// are expressed as go-playground/validator struct tags; JSON type checks are
// done per field so that one bad field never hides another.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"entities/internal/domain"
)

// Payload is a decoded JSON object keyed by field name
type Payload map[string]json.RawMessage

// fieldOrder is the order in which errors are reported
var fieldOrder = []string{"name", "type", "description", "extra_text"}

type bounds struct{ min, max int }

var lengthBounds = map[string]bounds{
	"name": {1, domain.MaxNameLength},
	"type": {1, domain.MaxTypeLength},
}

type createSchema struct {
	Name        *string `json:"name" validate:"required,min=1,max=200"`
	Type        *string `json:"type" validate:"required,min=1,max=100"`
	Description *string `json:"description"`
	ExtraText   *string `json:"extra_text"`
}

type updateSchema struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Type        *string `json:"type" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description"`
	ExtraText   *string `json:"extra_text"`
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParsePayload decodes a request body into a Payload. An empty body is
// treated as an empty object.
func ParsePayload(body []byte) (Payload, *domain.FieldError) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Payload{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var p Payload
	if err := dec.Decode(&p); err != nil {
		var typeErr *json.UnmarshalTypeError
		msg := "request body must be valid JSON"
		if errors.As(err, &typeErr) {
			msg = "request body must be a JSON object"
		}
		fe := domain.NewFieldError(domain.LocationBody, "", nil, msg)
		return nil, &fe
	}
	if p == nil {
		fe := domain.NewFieldError(domain.LocationBody, "", nil, "request body must be a JSON object")
		return nil, &fe
	}
	if _, err := dec.Token(); err != io.EOF {
		fe := domain.NewFieldError(domain.LocationBody, "", nil, "request body must only contain a single JSON object")
		return nil, &fe
	}
	return p, nil
}

// Create validates a creation payload
func Create(p Payload) (domain.EntityInput, []domain.FieldError) {
	var s createSchema
	typeErrs := decodeStrings(p, map[string]**string{
		"name":        &s.Name,
		"type":        &s.Type,
		"description": &s.Description,
		"extra_text":  &s.ExtraText,
	})

	errs := collect(typeErrs, structValidator.Struct(s))
	if len(errs) > 0 {
		return domain.EntityInput{}, errs
	}

	return domain.EntityInput{
		Name:        *s.Name,
		Type:        *s.Type,
		Description: s.Description,
		ExtraText:   s.ExtraText,
	}, nil
}

// Update validates a partial update payload. Absent and null fields are
// left nil in the returned patch.
func Update(p Payload) (domain.EntityPatch, []domain.FieldError) {
	var s updateSchema
	typeErrs := decodeStrings(p, map[string]**string{
		"name":        &s.Name,
		"type":        &s.Type,
		"description": &s.Description,
		"extra_text":  &s.ExtraText,
	})

	errs := collect(typeErrs, structValidator.Struct(s))
	if len(errs) > 0 {
		return domain.EntityPatch{}, errs
	}

	return domain.EntityPatch{
		Name:        s.Name,
		Type:        s.Type,
		Description: s.Description,
		ExtraText:   s.ExtraText,
	}, nil
}

// ID parses an entity id path segment
func ID(raw string) (int64, *domain.FieldError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		fe := domain.NewFieldError(domain.LocationParams, "id", raw, "id must be a positive integer")
		return 0, &fe
	}
	return id, nil
}

// decodeStrings fills each target from the payload. Fields holding a
// non-string JSON value are reported and left nil.
func decodeStrings(p Payload, targets map[string]**string) map[string]domain.FieldError {
	errs := make(map[string]domain.FieldError)
	for name, target := range targets {
		raw, ok := p[name]
		if !ok || isNull(raw) {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			var v any
			_ = json.Unmarshal(raw, &v)
			errs[name] = domain.NewFieldError(domain.LocationBody, name, v, name+" must be a string")
			continue
		}
		*target = &s
	}
	return errs
}

// collect merges type errors with struct validation errors in field order.
// A field with a type error reports only that error.
func collect(typeErrs map[string]domain.FieldError, err error) []domain.FieldError {
	byField := make(map[string]domain.FieldError, len(typeErrs))
	for name, fe := range typeErrs {
		byField[name] = fe
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			name := fe.Field()
			if _, seen := byField[name]; seen {
				continue
			}
			byField[name] = domain.NewFieldError(domain.LocationBody, name, fieldValue(fe), message(name, fe.Tag()))
		}
	}

	var out []domain.FieldError
	for _, name := range fieldOrder {
		if fe, ok := byField[name]; ok {
			out = append(out, fe)
		}
	}
	return out
}

func fieldValue(fe validator.FieldError) any {
	if fe.Tag() == "required" {
		return nil
	}
	v := reflect.ValueOf(fe.Value())
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		return v.Elem().Interface()
	}
	return fe.Value()
}

func message(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "min", "max":
		b := lengthBounds[field]
		return fmt.Sprintf("%s must be between %d and %d characters", field, b.min, b.max)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
