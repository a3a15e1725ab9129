package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rshade/pokedex/internal/cache"
)

// Defaults for the catalog service and browsing behaviour.
const (
	DefaultBaseURL        = "https://pokeapi.co/api/v2"
	DefaultPageSize       = 20
	DefaultSearchLimit    = 1302
	DefaultTimeoutSeconds = 30
	DefaultCeiling        = 1008
	DefaultLanguage       = "en"
	DefaultCacheTTL       = 3600
	DefaultConcurrency    = 4
	DefaultBatchSize      = 20
	DefaultOutputFormat   = "table"

	configFileName = "config.yaml"
	logFileName    = "pokedex.log"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvHome                  = "POKEDEX_HOME"
	EnvBaseURL               = "POKEDEX_BASE_URL"
	EnvPageSize              = "POKEDEX_PAGE_SIZE"
	EnvCeiling               = "POKEDEX_CEILING"
	EnvExcludeAlternateForms = "POKEDEX_EXCLUDE_ALTERNATE_FORMS"
	EnvLanguage              = "POKEDEX_LANGUAGE"
	EnvCacheTTL              = "POKEDEX_CACHE_TTL"
	EnvLogLevel              = "POKEDEX_LOG_LEVEL"
	EnvLogFormat             = "POKEDEX_LOG_FORMAT"
	EnvLogFile               = "POKEDEX_LOG_FILE"
	EnvOutputFormat          = "POKEDEX_OUTPUT_FORMAT"
)

var validOutputFormats = map[string]bool{ //nolint:gochecknoglobals // Lookup table.
	"table":  true,
	"json":   true,
	"ndjson": true,
	"yaml":   true,
}

// Config is the full pokedex configuration.
type Config struct {
	API      APIConfig      `yaml:"api"      json:"api"`
	Catalog  CatalogConfig  `yaml:"catalog"  json:"catalog"`
	Cache    CacheConfig    `yaml:"cache"    json:"cache"`
	Prefetch PrefetchConfig `yaml:"prefetch" json:"prefetch"`
	Output   OutputConfig   `yaml:"output"   json:"output"`
	Logging  LoggingConfig  `yaml:"logging"  json:"logging"`
}

// APIConfig points the client at the catalog service.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"        json:"base_url"`
	PageSize       int    `yaml:"page_size"       json:"page_size"`
	SearchLimit    int    `yaml:"search_limit"    json:"search_limit"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// CatalogConfig holds listing policy.
type CatalogConfig struct {
	// Ceiling is the highest canonical identifier; larger ids are variant forms.
	Ceiling int `yaml:"ceiling" json:"ceiling"`
	// ExcludeAlternateForms drops hyphenated names from name searches.
	ExcludeAlternateForms bool `yaml:"exclude_alternate_forms" json:"exclude_alternate_forms"`
	// Language selects flavor text.
	Language string `yaml:"language" json:"language"`
}

// CacheConfig controls the in-memory detail cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"     json:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// PrefetchConfig controls background detail lookups for listed entries.
type PrefetchConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency"`
	BatchSize   int `yaml:"batch_size"  json:"batch_size"`
}

// OutputConfig controls non-interactive rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			PageSize:       DefaultPageSize,
			SearchLimit:    DefaultSearchLimit,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Catalog: CatalogConfig{
			Ceiling:  DefaultCeiling,
			Language: DefaultLanguage,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTL,
		},
		Prefetch: PrefetchConfig{
			Concurrency: DefaultConcurrency,
			BatchSize:   DefaultBatchSize,
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (if it exists)
// and environment overrides. An empty path means the default location.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides fields from POKEDEX_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.API.PageSize = n
	}
	if v, ok := lookup(EnvCeiling); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCeiling, err)
		}
		c.Catalog.Ceiling = n
	}
	if v, ok := lookup(EnvExcludeAlternateForms); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvExcludeAlternateForms, err)
		}
		c.Catalog.ExcludeAlternateForms = b
	}
	if v, ok := lookup(EnvLanguage); ok && v != "" {
		c.Catalog.Language = v
	}
	if v, ok := lookup(EnvCacheTTL); ok && v != "" {
		ttl, err := cache.ParseTTL(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheTTL, err)
		}
		c.Cache.TTLSeconds = ttl
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Logging.File = v
	}
	if v, ok := lookup(EnvOutputFormat); ok && v != "" {
		c.Output.DefaultFormat = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL))
	}
	if c.API.PageSize < 1 {
		errs = append(errs, fmt.Errorf("api.page_size must be >= 1, got %d", c.API.PageSize))
	}
	if c.API.SearchLimit < c.Catalog.Ceiling {
		errs = append(errs, fmt.Errorf("api.search_limit (%d) must cover catalog.ceiling (%d)",
			c.API.SearchLimit, c.Catalog.Ceiling))
	}
	if c.API.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("api.timeout_seconds must be >= 0, got %d", c.API.TimeoutSeconds))
	}
	if c.Catalog.Ceiling < 1 {
		errs = append(errs, fmt.Errorf("catalog.ceiling must be >= 1, got %d", c.Catalog.Ceiling))
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds < 1 {
		errs = append(errs, fmt.Errorf("cache.ttl_seconds must be >= 1 when cache is enabled, got %d",
			c.Cache.TTLSeconds))
	}
	if c.Prefetch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("prefetch.concurrency must be >= 1, got %d", c.Prefetch.Concurrency))
	}
	if c.Prefetch.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("prefetch.batch_size must be >= 1, got %d", c.Prefetch.BatchSize))
	}
	if !validOutputFormats[strings.ToLower(c.Output.DefaultFormat)] {
		errs = append(errs, fmt.Errorf("output.default_format must be one of table, json, ndjson, yaml, got %q",
			c.Output.DefaultFormat))
	}

	return errors.Join(errs...)
}

// Save writes the configuration as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if mkErr := os.MkdirAll(filepath.Dir(path), 0700); mkErr != nil {
		return fmt.Errorf("creating config directory: %w", mkErr)
	}
	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", path, writeErr)
	}
	return nil
}

// IsValidOutputFormat reports whether format is a supported output format.
func IsValidOutputFormat(format string) bool {
	return validOutputFormats[strings.ToLower(format)]
}

// GetConfigDir returns the pokedex configuration directory.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pokedex"), nil
}

// DefaultConfigPath returns the path of config.yaml inside the config dir.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultLogPath returns the log file used by the TUI when none is configured.
func DefaultLogPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}
