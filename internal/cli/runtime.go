package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"entities/internal/config"
	"entities/internal/logging"
	"entities/internal/storage"
)

var loadConfigFn = config.LoadFrom

// loadConfig resolves the effective configuration: flags over env over
// file over defaults
func loadConfig(globals *globalOptions) (*config.Config, string, error) {
	path := ""
	if globals != nil {
		path = strings.TrimSpace(globals.ConfigPath)
	}
	if path == "" {
		path = config.FindConfigPath()
	}

	cfg, path, err := loadConfigFn(path)
	if err != nil {
		return nil, path, configError(fmt.Errorf("load config: %w", err))
	}

	if globals != nil {
		if globals.Port != 0 {
			cfg.Server.Port = globals.Port
		}
		if dbPath := strings.TrimSpace(globals.DBPath); dbPath != "" {
			cfg.Database.Driver = string(storage.SQLite)
			cfg.Database.Path = dbPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, configError(fmt.Errorf("invalid config: %w", err))
	}
	return cfg, path, nil
}

func newLogger(cfg *config.Config, out io.Writer) (*slog.Logger, io.Closer, error) {
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: out,
		Rotation: logging.RotationConfig{
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxFiles:   cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
	})
	if err != nil {
		return nil, nil, configError(fmt.Errorf("init logging: %w", err))
	}
	return logger, closer, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage.DB, error) {
	db, err := storage.Open(ctx, cfg.Database.StorageOptions())
	if err != nil {
		return nil, asExitError(ExitCodeUnavailable, err)
	}
	return db, nil
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
