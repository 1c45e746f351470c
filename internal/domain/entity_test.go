package domain

import (
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNewEntity(t *testing.T) {
	t.Run("copies payload fields", func(t *testing.T) {
		e := NewEntity(EntityInput{Name: "Alpha", Type: "typeA", Description: strPtr("d")})

		if e.ID != 0 {
			t.Errorf("expected unsaved ID 0, got %d", e.ID)
		}
		if e.Name != "Alpha" || e.Type != "typeA" {
			t.Errorf("unexpected name/type: %s/%s", e.Name, e.Type)
		}
		if e.Description == nil || *e.Description != "d" {
			t.Errorf("expected description 'd', got %v", e.Description)
		}
		if e.ExtraText != nil {
			t.Errorf("expected nil extra_text, got %v", *e.ExtraText)
		}
		if !e.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be left for storage")
		}
	})
}

func TestEntityPatchApply(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	base := Entity{
		ID:          7,
		Name:        "Alpha",
		Type:        "typeA",
		Description: strPtr("first"),
		CreatedAt:   created,
		ExtraText:   strPtr("extra"),
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		p := EntityPatch{}
		if !p.IsEmpty() {
			t.Fatal("expected empty patch")
		}
		got := p.Apply(base)
		if got.Name != base.Name || got.Type != base.Type || *got.Description != "first" || *got.ExtraText != "extra" {
			t.Errorf("empty patch changed entity: %+v", got)
		}
	})

	t.Run("subset patch preserves unsupplied fields", func(t *testing.T) {
		got := EntityPatch{Name: strPtr("Renamed")}.Apply(base)

		if got.Name != "Renamed" {
			t.Errorf("expected name 'Renamed', got %s", got.Name)
		}
		if got.Type != "typeA" {
			t.Errorf("expected type preserved, got %s", got.Type)
		}
		if got.Description == nil || *got.Description != "first" {
			t.Errorf("expected description preserved, got %v", got.Description)
		}
		if got.ExtraText == nil || *got.ExtraText != "extra" {
			t.Errorf("expected extra_text preserved, got %v", got.ExtraText)
		}
	})

	t.Run("id and created_at never change", func(t *testing.T) {
		got := EntityPatch{
			Name:        strPtr("n"),
			Type:        strPtr("t"),
			Description: strPtr(""),
			ExtraText:   strPtr(""),
		}.Apply(base)

		if got.ID != 7 {
			t.Errorf("expected ID 7, got %d", got.ID)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("expected CreatedAt %s, got %s", created, got.CreatedAt)
		}
		if *got.Description != "" {
			t.Errorf("expected description cleared to empty string, got %q", *got.Description)
		}
	})

	t.Run("does not mutate the original", func(t *testing.T) {
		_ = EntityPatch{Type: strPtr("other")}.Apply(base)
		if base.Type != "typeA" {
			t.Errorf("original mutated: %s", base.Type)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("nil when no errors", func(t *testing.T) {
		if err := NewValidationError(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("lists every path", func(t *testing.T) {
		err := NewValidationError(
			NewFieldError(LocationBody, "name", nil, "name is required"),
			NewFieldError(LocationBody, "type", nil, "type is required"),
		)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		paths := verr.Paths()
		if len(paths) != 2 || paths[0] != "name" || paths[1] != "type" {
			t.Errorf("unexpected paths: %v", paths)
		}
		if verr.Errors[0].Type != "field" {
			t.Errorf("expected type 'field', got %s", verr.Errors[0].Type)
		}
		want := "validation failed: name: name is required; type: type is required"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})
}
