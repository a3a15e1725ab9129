package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedex/internal/config"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.API.PageSize)
	assert.Equal(t, 1302, cfg.API.SearchLimit)
	assert.Equal(t, 1008, cfg.Catalog.Ceiling)
	assert.False(t, cfg.Catalog.ExcludeAlternateForms)
	assert.Equal(t, "en", cfg.Catalog.Language)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		cfg := config.New()
		err := cfg.ApplyEnv(envMap(map[string]string{
			config.EnvBaseURL:               "http://localhost:9999/api/v2",
			config.EnvPageSize:              "50",
			config.EnvCeiling:               "900",
			config.EnvExcludeAlternateForms: "true",
			config.EnvLanguage:              "de",
			config.EnvCacheTTL:              "90m",
			config.EnvLogLevel:              "debug",
			config.EnvOutputFormat:          "yaml",
		}))
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9999/api/v2", cfg.API.BaseURL)
		assert.Equal(t, 50, cfg.API.PageSize)
		assert.Equal(t, 900, cfg.Catalog.Ceiling)
		assert.True(t, cfg.Catalog.ExcludeAlternateForms)
		assert.Equal(t, "de", cfg.Catalog.Language)
		assert.Equal(t, 5400, cfg.Cache.TTLSeconds)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "yaml", cfg.Output.DefaultFormat)
	})

	t.Run("invalid numbers", func(t *testing.T) {
		cfg := config.New()
		err := cfg.ApplyEnv(envMap(map[string]string{config.EnvCeiling: "lots"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.EnvCeiling)
	})

	t.Run("invalid bool", func(t *testing.T) {
		cfg := config.New()
		err := cfg.ApplyEnv(envMap(map[string]string{config.EnvExcludeAlternateForms: "maybe"}))
		require.Error(t, err)
	})

	t.Run("ttl out of range", func(t *testing.T) {
		cfg := config.New()
		err := cfg.ApplyEnv(envMap(map[string]string{config.EnvCacheTTL: "30d"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.EnvCacheTTL)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "relative base url", mutate: func(c *config.Config) { c.API.BaseURL = "/api" }, wantErr: "api.base_url"},
		{name: "zero page size", mutate: func(c *config.Config) { c.API.PageSize = 0 }, wantErr: "api.page_size"},
		{
			name:    "search limit below ceiling",
			mutate:  func(c *config.Config) { c.API.SearchLimit = 100 },
			wantErr: "api.search_limit",
		},
		{name: "zero ceiling", mutate: func(c *config.Config) { c.Catalog.Ceiling = 0 }, wantErr: "catalog.ceiling"},
		{name: "zero ttl", mutate: func(c *config.Config) { c.Cache.TTLSeconds = 0 }, wantErr: "cache.ttl_seconds"},
		{
			name:    "zero concurrency",
			mutate:  func(c *config.Config) { c.Prefetch.Concurrency = 0 },
			wantErr: "prefetch.concurrency",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *config.Config) { c.Output.DefaultFormat = "xml" },
			wantErr: "output.default_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("disabled cache ignores ttl", func(t *testing.T) {
		cfg := config.New()
		cfg.Cache.Enabled = false
		cfg.Cache.TTLSeconds = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadAndSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvPageSize, "")

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultPageSize, cfg.API.PageSize)
	})

	t.Run("round trip through default path", func(t *testing.T) {
		path, err := config.DefaultConfigPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "config.yaml"), path)

		cfg := config.New()
		cfg.Catalog.Ceiling = 900
		require.NoError(t, cfg.Save(path))

		loaded, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, 900, loaded.Catalog.Ceiling)
	})

	t.Run("env wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("catalog:\n  ceiling: 900\n"), 0600))
		t.Setenv(config.EnvCeiling, "151")

		loaded, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 151, loaded.Catalog.Ceiling)
	})
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	config.ResetGlobalConfigForTest()
	defer config.ResetGlobalConfigForTest()

	cfg := config.GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, config.GetGlobalConfig())

	custom := config.New()
	custom.Output.DefaultFormat = "json"
	config.SetGlobalConfig(custom)
	assert.Equal(t, "json", config.GetOutputFormat(""))
	assert.Equal(t, "yaml", config.GetOutputFormat("yaml"))
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "console"}
	out := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", out.Output)
	assert.Equal(t, "warn", out.Level)

	lc.File = "/tmp/pokedex.log"
	out = lc.ToLoggingConfig()
	assert.Equal(t, "file", out.Output)
	assert.Equal(t, "/tmp/pokedex.log", out.File)
}
