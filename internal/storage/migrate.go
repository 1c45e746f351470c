package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"entities/internal/storage/migrations"
)

const migrationTable = "schema_migrations"

// Migrate applies every embedded migration for the DB's dialect that has
// not been applied yet. Each file runs in its own transaction.
func (d *DB) Migrate(ctx context.Context) error {
	return d.migrate(ctx, migrations.FS)
}

func (d *DB) migrate(ctx context.Context, migrationFS fs.FS) error {
	root := string(d.dialect)
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := d.sqlDB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
		name TEXT PRIMARY KEY,
		applied_at BIGINT NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", wrap("migrate", err))
	}

	for _, file := range files {
		applied, err := d.isApplied(ctx, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		if err := d.applyMigration(ctx, file, upSQL); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) applyMigration(ctx context.Context, name, upSQL string) error {
	tx, err := d.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, wrap("migrate", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upSQL); err != nil {
		return fmt.Errorf("exec migration %s: %w", name, wrap("migrate", err))
	}
	if _, err := tx.ExecContext(ctx,
		d.dialect.Rebind(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`),
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("record migration %s: %w", name, wrap("migrate", err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, wrap("migrate", err))
	}
	return nil
}

func (d *DB) isApplied(ctx context.Context, name string) (bool, error) {
	var found int
	err := d.sqlDB.QueryRowContext(ctx,
		d.dialect.Rebind(`SELECT 1 FROM `+migrationTable+` WHERE name = ?`), name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap("migrate", err)
	}
	return true, nil
}

// extractUp returns the SQL in the "-- +migrate Up" section, or the whole
// file when it has no sections
func extractUp(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	upIdx := strings.Index(content, up)
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, down)
	if downIdx == -1 {
		return content[upIdx+len(up):]
	}
	return content[upIdx+len(up) : downIdx]
}

// Reset drops the entities table and the migration ledger so the next
// Migrate starts from an empty schema
func (d *DB) Reset(ctx context.Context) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS entities`,
		`DROP TABLE IF EXISTS ` + migrationTable,
	} {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}
	}
	return nil
}

type sampleEntity struct {
	name, typ, description, extraText string
}

var sampleEntities = []sampleEntity{
	{"Alpha", "typeA", "Sample entity Alpha", "extra info A"},
	{"Beta", "typeB", "Sample entity Beta", "extra info B"},
}

// Seed inserts the sample rows when the entities table is empty and
// returns how many rows it added
func (d *DB) Seed(ctx context.Context) (int, error) {
	var count int64
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM entities`, nil, &count); err != nil {
		return 0, fmt.Errorf("count entities: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, s := range sampleEntities {
		if _, err := d.Insert(ctx,
			`INSERT INTO entities (name, type, description, extra_text) VALUES (?, ?, ?, ?)`,
			s.name, s.typ, s.description, s.extraText,
		); err != nil {
			return 0, fmt.Errorf("seed %s: %w", s.name, err)
		}
	}
	return len(sampleEntities), nil
}
