// ABOUTME: Configuration loader for the anuncia CLI
// ABOUTME: Reads ANUNCIA_* environment variables (and an optional .env file) with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. ANUNCIA_API_URL.
const EnvPrefix = "ANUNCIA"

// DefaultHTTPTimeout matches the default of ANUNCIA_HTTP_TIMEOUT.
const DefaultHTTPTimeout = 30 * time.Second

// Session storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all client settings.
type Config struct {
	// APIURL has no default. A missing value is reported by the API client
	// on the first request, not here.
	APIURL         string        `envconfig:"API_URL"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	ConfigDir      string        `envconfig:"CONFIG_DIR"`
	SessionBackend string        `envconfig:"SESSION_BACKEND" default:"file"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.APIURL = NormalizeURL(cfg.APIURL)
	cfg.SessionBackend = strings.ToLower(strings.TrimSpace(cfg.SessionBackend))
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = DefaultConfigDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%s_SESSION_BACKEND must be one of file, sqlite, memory; got %q", EnvPrefix, c.SessionBackend)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%s_HTTP_TIMEOUT must be positive, got %s", EnvPrefix, c.HTTPTimeout)
	}
	return nil
}

// NormalizeURL trims whitespace and trailing slashes.
func NormalizeURL(url string) string {
	return strings.TrimRight(strings.TrimSpace(url), "/")
}

// DefaultConfigDir returns the config directory following the XDG base directory layout.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "anuncia")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "anuncia")
}
