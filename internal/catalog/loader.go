package catalog

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rshade/pokedex/internal/cache"
)

// DetailSource fetches single-entry records. *Client implements it.
type DetailSource interface {
	FetchEntryDetail(ctx context.Context, idOrName string) (*EntryDetail, error)
	FetchEntryNarrative(ctx context.Context, idOrName string) (*SpeciesNarrative, error)
}

// Profile is an entry's detail together with its narrative.
type Profile struct {
	Detail    *EntryDetail      `json:"detail"    yaml:"detail"`
	Narrative *SpeciesNarrative `json:"narrative" yaml:"narrative"`
}

// LoaderStats counts loader outcomes.
type LoaderStats struct {
	Hits    int64
	Fetches int64
	Shared  int64
	// Cached counts stored details and narratives, expired ones included.
	Cached int
}

// DetailLoader deduplicates concurrent lookups of the same entry and caches
// successful results for a TTL. Failures are never cached.
type DetailLoader struct {
	source     DetailSource
	details    *cache.Store[*EntryDetail]
	narratives *cache.Store[*SpeciesNarrative]
	group      singleflight.Group
	logger     zerolog.Logger

	hits    atomic.Int64
	fetches atomic.Int64
	shared  atomic.Int64
}

// LoaderOption configures a DetailLoader.
type LoaderOption func(*DetailLoader)

// WithCache replaces the default caches with stores of the given state.
func WithCache(enabled bool, ttl time.Duration) LoaderOption {
	return func(l *DetailLoader) {
		l.details = cache.NewStore[*EntryDetail](enabled, ttl)
		l.narratives = cache.NewStore[*SpeciesNarrative](enabled, ttl)
	}
}

// WithLoaderClock injects the clock the caches use to expire entries.
func WithLoaderClock(now func() time.Time) LoaderOption {
	return func(l *DetailLoader) {
		l.details.WithClock(now)
		l.narratives.WithClock(now)
	}
}

// WithLoaderLogger sets the loader logger.
func WithLoaderLogger(logger zerolog.Logger) LoaderOption {
	return func(l *DetailLoader) { l.logger = logger }
}

// NewDetailLoader wraps source. By default results are cached for an hour.
func NewDetailLoader(source DetailSource, opts ...LoaderOption) *DetailLoader {
	l := &DetailLoader{
		source:     source,
		details:    cache.NewStore[*EntryDetail](true, time.Hour),
		narratives: cache.NewStore[*SpeciesNarrative](true, time.Hour),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Detail returns the attribute record of idOrName.
func (l *DetailLoader) Detail(ctx context.Context, idOrName string) (*EntryDetail, error) {
	return load(ctx, l, "detail", idOrName, l.details, l.source.FetchEntryDetail)
}

// Narrative returns the species text of idOrName.
func (l *DetailLoader) Narrative(ctx context.Context, idOrName string) (*SpeciesNarrative, error) {
	return load(ctx, l, "narrative", idOrName, l.narratives, l.source.FetchEntryNarrative)
}

// Profile fetches an entry's detail and its species narrative. Either
// failure fails the whole profile. A main-series identifier doubles as the
// species identifier, so both are fetched concurrently; names and variant
// forms resolve the detail first and follow its species reference.
func (l *DetailLoader) Profile(ctx context.Context, idOrName string) (*Profile, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(idOrName)); err == nil && id >= 1 && id < FirstVariantID {
		return l.concurrentProfile(ctx, strconv.Itoa(id))
	}

	d, err := l.Detail(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	n, err := l.Narrative(ctx, d.SpeciesKey())
	if err != nil {
		return nil, err
	}
	return &Profile{Detail: d, Narrative: n}, nil
}

func (l *DetailLoader) concurrentProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := l.Detail(gctx, id)
		p.Detail = d
		return err
	})
	g.Go(func() error {
		n, err := l.Narrative(gctx, id)
		p.Narrative = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Reset drops every cached record.
func (l *DetailLoader) Reset() {
	l.details.Clear()
	l.narratives.Clear()
}

// Stats returns a snapshot of the loader counters.
func (l *DetailLoader) Stats() LoaderStats {
	return LoaderStats{
		Hits:    l.hits.Load(),
		Fetches: l.fetches.Load(),
		Shared:  l.shared.Load(),
		Cached:  l.details.Count() + l.narratives.Count(),
	}
}

// load serves key from store, or joins a single in-flight fetch for it.
// The fetch runs detached from ctx so one caller giving up does not fail
// the others; a cancelled caller returns ctx.Err() immediately.
func load[T any](
	ctx context.Context,
	l *DetailLoader,
	kind, idOrName string,
	store *cache.Store[T],
	fetch func(context.Context, string) (T, error),
) (T, error) {
	var zero T
	key := strings.ToLower(strings.TrimSpace(idOrName))

	if v, err := store.Get(key); err == nil {
		l.hits.Add(1)
		return v, nil
	}

	ch := l.group.DoChan(kind+":"+key, func() (any, error) {
		l.fetches.Add(1)
		v, err := fetch(context.WithoutCancel(ctx), key)
		if err != nil {
			l.logger.Debug().Err(err).Str("kind", kind).Str("key", key).Msg("lookup failed")
			return v, err
		}
		_ = store.Set(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			l.shared.Add(1)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}
