package domain

import "time"

const (
	// MaxNameLength is the longest accepted entity name, in characters
	MaxNameLength = 200
	// MaxTypeLength is the longest accepted entity type, in characters
	MaxTypeLength = 100
)

// Entity is the stored record exposed by the /entities resource
type Entity struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	ExtraText   *string   `json:"extra_text"`
}

// EntityInput carries a validated creation payload
type EntityInput struct {
	Name        string
	Type        string
	Description *string
	ExtraText   *string
}

// NewEntity builds an unsaved entity from a creation payload.
// ID and CreatedAt are assigned by storage.
func NewEntity(in EntityInput) *Entity {
	return &Entity{
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		ExtraText:   in.ExtraText,
	}
}

// EntityPatch carries a validated update payload. A nil field means
// "keep the stored value".
type EntityPatch struct {
	Name        *string
	Type        *string
	Description *string
	ExtraText   *string
}

// IsEmpty reports whether the patch changes nothing
func (p EntityPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Description == nil && p.ExtraText == nil
}

// Apply returns a copy of e with the supplied fields overwritten.
// ID and CreatedAt are never touched.
func (p EntityPatch) Apply(e Entity) Entity {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.ExtraText != nil {
		e.ExtraText = p.ExtraText
	}
	return e
}
