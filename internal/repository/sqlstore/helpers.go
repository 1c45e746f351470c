package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"entities/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToStringPtr converts sql.NullString to *string, keeping SQL NULL as nil
func nullToStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		s := ns.String
		return &s
	}
	return nil
}

// stringPtrToNull converts *string to sql.NullString. An empty string is
// stored as-is; only nil becomes NULL.
func stringPtrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// ============================================================================
// Timestamp Scanning
// ============================================================================

// timeLayouts are the text encodings created_at may come back in. SQLite
// stores TEXT, Postgres drivers hand back time.Time directly.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// dbTime scans a timestamp column regardless of how the driver encodes it
type dbTime struct {
	Time time.Time
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// ============================================================================
// Entity Row Scanner
// ============================================================================
//
// Column order must match between entityColumns and scanArgs().

// entityColumns is the SELECT column list for entity queries
const entityColumns = `id, name, type, description, created_at, extra_text`

// entityRow holds all columns from an entity query for scanning
type entityRow struct {
	ID          int64
	Name        string
	Type        string
	Description sql.NullString
	CreatedAt   dbTime
	ExtraText   sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *entityRow) scanArgs() []any {
	return []any{
		&r.ID,
		&r.Name,
		&r.Type,
		&r.Description,
		&r.CreatedAt,
		&r.ExtraText,
	}
}

// toDomain converts the scanned row to a domain.Entity
func (r *entityRow) toDomain() domain.Entity {
	return domain.Entity{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Description: nullToStringPtr(r.Description),
		CreatedAt:   r.CreatedAt.Time,
		ExtraText:   nullToStringPtr(r.ExtraText),
	}
}
