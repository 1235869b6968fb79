// Package config provides configuration management for the StoryReel server.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort        = 8787
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultDataDir     = ".storyreel"
	DefaultMaxFieldLen = 120
	DefaultCatalogPoll = 2 * time.Second

	// Environment variable names
	EnvPort           = "STORYREEL_PORT"
	EnvLogLevel       = "STORYREEL_LOG_LEVEL"
	EnvLogFormat      = "STORYREEL_LOG_FORMAT"
	EnvDataDir        = "STORYREEL_DATA_DIR"
	EnvHistoryEnabled = "STORYREEL_HISTORY_ENABLED"
	EnvOTelEndpoint   = "STORYREEL_OTEL_ENDPOINT"
	EnvMaxFieldLen    = "STORYREEL_MAX_FIELD_LEN"
	EnvCatalogPath    = "STORYREEL_CATALOG_PATH"
	EnvCatalogPoll    = "STORYREEL_CATALOG_POLL"

	// Database filename
	DBFilename = "storyreel.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	LogFormat() string
	DataDir() string
	DBPath() string
	HistoryEnabled() bool
	OTelEndpoint() string
	MaxFieldLen() int
	CatalogPath() string
	CatalogPoll() time.Duration
}

// envVars is the raw environment mapping parsed by caarlos0/env.
type envVars struct {
	Port           int           `env:"STORYREEL_PORT" envDefault:"8787"`
	LogLevel       string        `env:"STORYREEL_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"STORYREEL_LOG_FORMAT" envDefault:"json"`
	DataDir        string        `env:"STORYREEL_DATA_DIR"`
	HistoryEnabled bool          `env:"STORYREEL_HISTORY_ENABLED" envDefault:"true"`
	OTelEndpoint   string        `env:"STORYREEL_OTEL_ENDPOINT"`
	MaxFieldLen    int           `env:"STORYREEL_MAX_FIELD_LEN" envDefault:"120"`
	CatalogPath    string        `env:"STORYREEL_CATALOG_PATH"`
	CatalogPoll    time.Duration `env:"STORYREEL_CATALOG_POLL" envDefault:"2s"`
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port           int
	logLevel       string
	logFormat      string
	dataDir        string
	historyEnabled bool
	otelEndpoint   string
	maxFieldLen    int
	catalogPath    string
	catalogPoll    time.Duration
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	var raw envVars
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if raw.Port < 1 || raw.Port > 65535 {
		return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
	}
	if raw.MaxFieldLen < 1 {
		return nil, fmt.Errorf("invalid %s: must be positive", EnvMaxFieldLen)
	}
	switch raw.LogFormat {
	case "", "json", "text":
	default:
		return nil, fmt.Errorf("invalid %s: must be json or text", EnvLogFormat)
	}

	cfg := &EnvConfig{
		port:           raw.Port,
		logLevel:       raw.LogLevel,
		logFormat:      raw.LogFormat,
		dataDir:        raw.DataDir,
		historyEnabled: raw.HistoryEnabled,
		otelEndpoint:   raw.OTelEndpoint,
		maxFieldLen:    raw.MaxFieldLen,
		catalogPath:    raw.CatalogPath,
		catalogPoll:    raw.CatalogPoll,
	}
	if cfg.logLevel == "" {
		cfg.logLevel = DefaultLogLevel
	}
	if cfg.logFormat == "" {
		cfg.logFormat = DefaultLogFormat
	}
	if cfg.catalogPoll <= 0 {
		cfg.catalogPoll = DefaultCatalogPoll
	}
	if cfg.dataDir == "" {
		cfg.dataDir = defaultDataDir()
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (or ./.env) into the
// process environment. A missing file is not an error; existing variables are
// never overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// LogFormat returns the log encoding, json or text.
func (c *EnvConfig) LogFormat() string {
	return c.logFormat
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// HistoryEnabled reports whether generations are recorded in the usage log.
func (c *EnvConfig) HistoryEnabled() bool {
	return c.historyEnabled
}

// OTelEndpoint is the OTLP/HTTP collector endpoint. Empty disables tracing.
func (c *EnvConfig) OTelEndpoint() string {
	return c.otelEndpoint
}

func (c *EnvConfig) MaxFieldLen() int {
	return c.maxFieldLen
}

// CatalogPath is an optional genre catalog YAML that replaces the embedded
// one and is reloaded when it changes.
func (c *EnvConfig) CatalogPath() string {
	return c.catalogPath
}

func (c *EnvConfig) CatalogPoll() time.Duration {
	return c.catalogPoll
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
