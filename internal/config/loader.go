package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/example/hearing-scheduler/internal/logging"
)

// Prefix is prepended to every environment variable name.
const Prefix = "LISTING"

// Config captures environment driven configuration for the listing service.
type Config struct {
	HTTPPort            int           `envconfig:"HTTP_PORT" default:"8080"`
	SQLiteDSN           string        `envconfig:"SQLITE_DSN" default:"file:listing.db?_pragma=foreign_keys(1)"`
	RegistryTimeout     time.Duration `envconfig:"REGISTRY_TIMEOUT" default:"5s"`
	RegistryMaxAttempts int           `envconfig:"REGISTRY_MAX_ATTEMPTS" default:"3"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat           string        `envconfig:"LOG_FORMAT" default:"json"`
	// CommittingCourtsFile optionally names a YAML offence to committing court table.
	CommittingCourtsFile string `envconfig:"COMMITTING_COURTS_FILE"`
}

// Load reads an optional dotenv file and then the process environment.
// Variables already present in the environment win over the file. Every
// invalid value is reported in one error.
func Load(dotenvFiles ...string) (Config, error) {
	for _, file := range dotenvFiles {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	invalid := make([]string, 0, 6)
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, Prefix+"_HTTP_PORT")
	}
	if strings.TrimSpace(c.SQLiteDSN) == "" {
		invalid = append(invalid, Prefix+"_SQLITE_DSN")
	}
	if c.RegistryTimeout <= 0 {
		invalid = append(invalid, Prefix+"_REGISTRY_TIMEOUT")
	}
	if c.RegistryMaxAttempts <= 0 {
		invalid = append(invalid, Prefix+"_REGISTRY_MAX_ATTEMPTS")
	}
	if _, err := c.Level(); err != nil {
		invalid = append(invalid, Prefix+"_LOG_LEVEL")
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatJSON, logging.FormatText:
	default:
		invalid = append(invalid, Prefix+"_LOG_FORMAT")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
