package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

const tracerName = "entities/internal/storage"

// Options configures Open
type Options struct {
	Driver string
	// Path is the SQLite database file (or ":memory:")
	Path string
	// DSN is the Postgres connection string
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// QueryTimeout bounds every call when positive. Zero leaves calls
	// bounded only by the caller's context.
	QueryTimeout time.Duration
}

// Result describes the effect of an Exec
type Result struct {
	RowsAffected int64
}

// DB wraps a connection pool and exposes parameterized query helpers.
// Queries are written with ? placeholders and rebound per dialect.
type DB struct {
	sqlDB        *sql.DB
	dialect      Dialect
	queryTimeout time.Duration
	tracer       trace.Tracer
}

// Open connects to the configured database and verifies the connection
func Open(ctx context.Context, opts Options) (*DB, error) {
	dialect, err := ParseDialect(opts.Driver)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var dsn string
	switch dialect {
	case SQLite:
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			return nil, fmt.Errorf("open storage: sqlite path is required")
		}
		if path != memoryPath {
			path = filepath.Clean(path)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("open storage: create parent dir: %w", err)
			}
		}
		dsn = sqliteDSN(path)
	case Postgres:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, fmt.Errorf("open storage: postgres dsn is required")
		}
		dsn = opts.DSN
	}

	sqlDB, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if dialect == SQLite && strings.TrimSpace(opts.Path) == memoryPath {
		// Each connection would get its own empty in-memory database.
		sqlDB.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open storage: ping %s: %w", dialect, err)
	}

	return &DB{
		sqlDB:        sqlDB,
		dialect:      dialect,
		queryTimeout: opts.QueryTimeout,
		tracer:       otel.Tracer(tracerName),
	}, nil
}

// Dialect returns the SQL dialect of the underlying database
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Close releases the connection pool
func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

// Ping checks that the database is reachable
func (d *DB) Ping(ctx context.Context) error {
	ctx, span := d.startSpan(ctx, "ping", "")
	defer span.End()
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	return d.record(span, wrap("ping", d.sqlDB.PingContext(ctx)))
}

// Query runs a row-returning query and calls scan once per row
func (d *DB) Query(ctx context.Context, query string, scan func(*sql.Rows) error, args ...any) error {
	ctx, span := d.startSpan(ctx, "query", query)
	defer span.End()
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.sqlDB.QueryContext(ctx, d.dialect.Rebind(query), args...)
	if err != nil {
		return d.record(span, wrap("query", err))
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return d.record(span, wrap("scan", err))
		}
	}
	return d.record(span, wrap("query", rows.Err()))
}

// QueryRow runs a query expected to return at most one row and scans it
// into dest. It returns ErrNoRows when nothing matched.
func (d *DB) QueryRow(ctx context.Context, query string, args []any, dest ...any) error {
	ctx, span := d.startSpan(ctx, "query_row", query)
	defer span.End()
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	err := d.sqlDB.QueryRowContext(ctx, d.dialect.Rebind(query), args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return d.record(span, wrap("query_row", err))
}

// Exec runs a statement and reports how many rows it touched
func (d *DB) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	ctx, span := d.startSpan(ctx, "exec", query)
	defer span.End()
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	res, err := d.sqlDB.ExecContext(ctx, d.dialect.Rebind(query), args...)
	if err != nil {
		return Result{}, d.record(span, wrap("exec", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Result{}, d.record(span, wrap("exec", err))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", n))
	return Result{RowsAffected: n}, nil
}

// Insert runs an INSERT into a table whose primary key column is "id" and
// returns the generated id
func (d *DB) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, span := d.startSpan(ctx, "insert", query)
	defer span.End()
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var id int64
	if d.dialect == Postgres {
		q := d.dialect.Rebind(strings.TrimRight(query, "; \n\t") + " RETURNING id")
		if err := d.sqlDB.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
			return 0, d.record(span, wrap("insert", err))
		}
		return id, nil
	}

	res, err := d.sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, d.record(span, wrap("insert", err))
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, d.record(span, wrap("insert", err))
	}
	return id, nil
}

func (d *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

func (d *DB) startSpan(ctx context.Context, op, query string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", d.dialect.system()),
		attribute.String("db.operation", op),
	}
	if query != "" {
		attrs = append(attrs, attribute.String("db.statement", query))
	}
	return d.tracer.Start(ctx, "storage."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func (d *DB) record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failure")
	}
	return err
}
