package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/pokedex/internal/cache"
	"github.com/rshade/pokedex/internal/catalog"
	"github.com/rshade/pokedex/internal/config"
	"github.com/rshade/pokedex/internal/listctl"
	"github.com/rshade/pokedex/internal/logging"
	"github.com/rshade/pokedex/internal/prefetch"
)

// services are the catalog components shared by the commands.
type services struct {
	cfg    *config.Config
	client *catalog.Client
	loader *catalog.DetailLoader
	log    zerolog.Logger
}

// loadServices validates the global configuration and builds services
// from it.
func loadServices() (*services, error) {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return newServices(cfg, logger), nil
}

// newServices builds the catalog client and detail loader from cfg.
func newServices(cfg *config.Config, log zerolog.Logger) *services {
	policy := catalog.Policy{
		Ceiling:               cfg.Catalog.Ceiling,
		ExcludeAlternateForms: cfg.Catalog.ExcludeAlternateForms,
	}

	client := catalog.NewClient(
		catalog.WithBaseURL(cfg.API.BaseURL),
		catalog.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		catalog.WithPageSize(cfg.API.PageSize),
		catalog.WithSearchLimit(cfg.API.SearchLimit),
		catalog.WithLanguage(cfg.Catalog.Language),
		catalog.WithPolicy(policy),
		catalog.WithLogger(logging.ComponentLogger(log, "catalog")),
	)

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	loader := catalog.NewDetailLoader(client,
		catalog.WithCache(cfg.Cache.Enabled, ttl),
		catalog.WithLoaderLogger(logging.ComponentLogger(log, "loader")),
	)

	log.Debug().
		Str("base_url", cfg.API.BaseURL).
		Int("ceiling", policy.Ceiling).
		Bool("cache", cfg.Cache.Enabled).
		Str("cache_ttl", cache.FormatDuration(ttl)).
		Msg("catalog services ready")

	return &services{cfg: cfg, client: client, loader: loader, log: log}
}

// newController creates a list controller over the client.
func (s *services) newController() *listctl.Controller {
	return listctl.New(s.client, listctl.WithLogger(logging.ComponentLogger(s.log, "listctl")))
}

// newPrefetcher creates a prefetcher recording into sink.
func (s *services) newPrefetcher(sink prefetch.Sink, opts ...prefetch.Option) (*prefetch.Prefetcher, error) {
	opts = append([]prefetch.Option{
		prefetch.WithConcurrency(s.cfg.Prefetch.Concurrency),
		prefetch.WithLogger(logging.ComponentLogger(s.log, "prefetch")),
	}, opts...)
	return prefetch.New(s.loader, sink, s.cfg.Prefetch.BatchSize, opts...)
}
