// Package config handles configuration loading and validation for neighborly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendMemory   = "memory"
	BackendNone     = "none"
)

// Catalog sources.
const (
	SourcePlatzi = "platzi"
	SourceFile   = "file"
)

// Currency modes.
const (
	CurrencyModeLocale = "locale"
	CurrencyModeFixed  = "fixed"
)

// Config holds the application configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	History   HistoryConfig   `yaml:"history"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Currency  CurrencyConfig  `yaml:"currency"`
	Recommend RecommendConfig `yaml:"recommend"`
	Server    ServerConfig    `yaml:"server"`
	Display   DisplayConfig   `yaml:"display"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where interaction history is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// HistoryConfig holds history log settings.
type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// CatalogConfig configures where products come from.
type CatalogConfig struct {
	Source            string        `yaml:"source"`
	URL               string        `yaml:"url"`
	File              string        `yaml:"file"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	FailureThreshold  uint32        `yaml:"failure_threshold"`
}

// CurrencyConfig controls price display.
type CurrencyConfig struct {
	Mode      string `yaml:"mode"`   // locale or fixed
	Fixed     string `yaml:"fixed"`  // currency used in fixed mode
	Locale    string `yaml:"locale"` // overrides the environment locale
	Localized *bool  `yaml:"localized"`
}

// IsLocalized reports whether locale-aware formatting is enabled.
func (c CurrencyConfig) IsLocalized() bool {
	return c.Localized == nil || *c.Localized
}

// RecommendConfig holds recommendation defaults.
type RecommendConfig struct {
	DefaultLimit    int    `yaml:"default_limit"`
	DefaultStrategy string `yaml:"default_strategy"`
	Seed            uint64 `yaml:"seed"` // 0 seeds randomly
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS origins for browser clients
	RateLimit      int      `yaml:"rate_limit"`      // API requests per minute per IP, 0 disables
}

// DisplayConfig customizes terminal output.
type DisplayConfig struct {
	// ProductTemplate overrides the markdown template used by `view`.
	ProductTemplate string `yaml:"product_template"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendJSONFile},
		History: HistoryConfig{MaxEntries: 10},
		Catalog: CatalogConfig{
			Source:            SourcePlatzi,
			URL:               "https://api.escuelajs.co/api/v1",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
			FailureThreshold:  3,
		},
		Currency: CurrencyConfig{Mode: CurrencyModeLocale},
		Recommend: RecommendConfig{
			DefaultLimit:    8,
			DefaultStrategy: "forYou",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8420",
			AllowedOrigins: []string{"http://localhost:3000"},
			RateLimit:      120,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = defaults.Catalog.Source
	}
	if c.Catalog.URL == "" {
		c.Catalog.URL = defaults.Catalog.URL
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = defaults.Catalog.Timeout
	}
	if c.Catalog.FailureThreshold == 0 {
		c.Catalog.FailureThreshold = defaults.Catalog.FailureThreshold
	}
	if c.Currency.Mode == "" {
		c.Currency.Mode = defaults.Currency.Mode
	}
	if c.Recommend.DefaultLimit == 0 {
		c.Recommend.DefaultLimit = defaults.Recommend.DefaultLimit
	}
	if c.Recommend.DefaultStrategy == "" {
		c.Recommend.DefaultStrategy = defaults.Recommend.DefaultStrategy
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.AllowedOrigins == nil {
		c.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
}

// StoragePath returns the on-disk location used by the configured backend,
// or "" for backends that do not persist.
func (c *Config) StoragePath() string {
	switch c.Storage.Backend {
	case BackendJSONFile:
		return filepath.Join(c.DataDir, "history.json")
	case BackendSQLite:
		return filepath.Join(c.DataDir, "neighborly.db")
	case BackendBadger:
		return filepath.Join(c.DataDir, "badger")
	default:
		return ""
	}
}

// CatalogFile resolves the catalog file path relative to the data directory.
func (c *Config) CatalogFile() string {
	if c.Catalog.File == "" || filepath.IsAbs(c.Catalog.File) {
		return c.Catalog.File
	}
	return filepath.Join(c.DataDir, c.Catalog.File)
}
