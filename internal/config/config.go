// Package config provides configuration management for the entities service.
//
// Settings come from four layers, highest priority first: command-line
// flags (applied by the caller), environment variables, a YAML config file
// and built-in defaults.
//
// Config file locations (priority order):
//  1. $ENTITIES_CONFIG
//  2. ./entities.yaml
//  3. $XDG_CONFIG_HOME/entities/config.yaml
//  4. ~/.config/entities/config.yaml
//  5. /etc/entities/config.yaml
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"entities/internal/storage"
)

const (
	DefaultPort       = 3000
	DefaultSQLitePath = "./db.sqlite"
	DefaultPGPort     = 5432
	DefaultService    = "entities"
)

// Load finds the config file, applies environment overrides and fills in
// defaults. The returned path is empty when no file was found.
func Load() (*Config, string, error) {
	return LoadFrom(FindConfigPath())
}

// LoadFrom is Load with an explicit file path. An empty path skips the
// file layer.
func LoadFrom(path string) (*Config, string, error) {
	cfg := &Config{}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, path, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return cfg, path, nil
}

// LoadFromPath loads config from a specific path without consulting the
// environment
func LoadFromPath(path string) (*Config, string, error) {
	var cfg Config
	if err := cfg.readFile(path); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()
	return &cfg, path, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// May hold a database password
	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	// A Postgres host with no explicit driver selects Postgres
	if c.Database.Driver == "" {
		if c.Database.Host != "" {
			c.Database.Driver = string(storage.Postgres)
		} else {
			c.Database.Driver = string(storage.SQLite)
		}
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultSQLitePath
	}
	if c.Database.Port == 0 {
		c.Database.Port = DefaultPGPort
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultService
	}
}

// Validate reports the first setting that cannot work
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	dialect, err := storage.ParseDialect(c.Database.Driver)
	if err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}
	switch dialect {
	case storage.SQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case storage.Postgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for postgres")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("database.port %d out of range", c.Database.Port)
		}
	}
	if c.Database.QueryTimeout < 0 {
		return fmt.Errorf("database.query_timeout must not be negative")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	return nil
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// DSN builds the Postgres connection URL from the individual settings
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	if d.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// StorageOptions converts the database settings into storage.Options
func (d DatabaseConfig) StorageOptions() storage.Options {
	opts := storage.Options{
		Driver:          d.Driver,
		Path:            d.Path,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime.Duration(),
		QueryTimeout:    d.QueryTimeout.Duration(),
	}
	if dialect, err := storage.ParseDialect(d.Driver); err == nil && dialect == storage.Postgres {
		opts.DSN = d.DSN()
	}
	return opts
}

// Summary returns a one-line description safe to log
func (c *Config) Summary() string {
	db := c.Database.Path
	if dialect, _ := storage.ParseDialect(c.Database.Driver); dialect == storage.Postgres {
		db = net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)) + "/" + c.Database.Name
	}
	tracing := "off"
	if c.Telemetry.Endpoint != "" {
		tracing = c.Telemetry.Endpoint
	}
	return fmt.Sprintf("addr=%s driver=%s db=%s log=%s/%s tracing=%s",
		c.Addr(), c.Database.Driver, db, c.Logging.Level, c.Logging.Format, tracing)
}
