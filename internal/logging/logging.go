// Package logging builds the service's slog logger: text or JSON output,
// a level filter, redaction of sensitive attributes and optional rotating
// file output alongside stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures New
type Options struct {
	Level  string
	Format string // text or json
	// Rotation.File, when set, receives a copy of every record
	Rotation RotationConfig
	// Output defaults to os.Stderr
	Output io.Writer
}

// New returns a logger for opts and a closer for any file it opened
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil && opts.Level != "" {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.Rotation.File != "" {
		rw, err := NewRotatingWriter(opts.Rotation)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(out, rw)
		closer = rw
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(out, handlerOpts)
	case "json":
		h = slog.NewJSONHandler(out, handlerOpts)
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(NewRedactingHandler(h)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
