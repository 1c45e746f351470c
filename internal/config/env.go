package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists every recognized environment variable. Pointer
// fields stay nil when the variable is unset, so only present values
// override the file.
type envOverrides struct {
	Port *int `env:"PORT"`

	Driver       *string        `env:"DB_DRIVER"`
	Path         *string        `env:"DB_PATH"`
	PGHost       *string        `env:"PGHOST"`
	PGPort       *int           `env:"PGPORT"`
	PGUser       *string        `env:"PGUSER"`
	PGPassword   *string        `env:"PGPASSWORD"`
	PGDatabase   *string        `env:"PGDATABASE"`
	PGSSLMode    *string        `env:"PGSSLMODE"`
	QueryTimeout *time.Duration `env:"DB_QUERY_TIMEOUT"`

	LogLevel  *string `env:"LOG_LEVEL"`
	LogFormat *string `env:"LOG_FORMAT"`
	LogFile   *string `env:"LOG_FILE"`

	OTLPEndpoint *string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  *string `env:"OTEL_SERVICE_NAME"`
}

// ApplyEnv overlays environment variables onto c
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.applyOverrides(o)
	return nil
}

func (c *Config) applyOverrides(o envOverrides) {
	setInt(&c.Server.Port, o.Port)

	setString(&c.Database.Driver, o.Driver)
	setString(&c.Database.Path, o.Path)
	setString(&c.Database.Host, o.PGHost)
	setInt(&c.Database.Port, o.PGPort)
	setString(&c.Database.User, o.PGUser)
	setString(&c.Database.Password, o.PGPassword)
	setString(&c.Database.Name, o.PGDatabase)
	setString(&c.Database.SSLMode, o.PGSSLMode)
	if o.QueryTimeout != nil {
		c.Database.QueryTimeout = Duration(*o.QueryTimeout)
	}

	setString(&c.Logging.Level, o.LogLevel)
	setString(&c.Logging.Format, o.LogFormat)
	setString(&c.Logging.File, o.LogFile)

	setString(&c.Telemetry.Endpoint, o.OTLPEndpoint)
	setString(&c.Telemetry.ServiceName, o.ServiceName)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
