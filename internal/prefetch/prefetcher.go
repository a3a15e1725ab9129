package prefetch

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/pokedex/internal/catalog"
)

// DefaultConcurrency bounds simultaneous detail requests within a batch.
const DefaultConcurrency = 4

// Loader resolves entry details. *catalog.DetailLoader implements it.
type Loader interface {
	Detail(ctx context.Context, idOrName string) (*catalog.EntryDetail, error)
}

// Sink receives resolved attributes. *listctl.Controller implements it.
type Sink interface {
	RecordAttributes(name string, attrs catalog.Attributes)
	Attributes(name string) (catalog.Attributes, bool)
}

// GenerationalSink is a Sink whose contents are reset over time. Writes
// resolved for an earlier generation are rejected.
type GenerationalSink interface {
	Sink
	Generation() uint64
	RecordAttributesAt(generation uint64, name string, attrs catalog.Attributes) bool
}

// ProgressFunc is invoked after each batch.
type ProgressFunc func(Snapshot)

// Prefetcher resolves details for references and records their attributes.
type Prefetcher struct {
	loader      Loader
	sink        Sink
	processor   *Processor[catalog.EntryRef]
	concurrency int
	onProgress  ProgressFunc
	logger      zerolog.Logger
}

// Option configures a Prefetcher.
type Option func(*Prefetcher)

// WithConcurrency sets the per-batch request limit. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(p *Prefetcher) { p.concurrency = max(n, 1) }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Prefetcher) { p.onProgress = fn }
}

// WithLogger sets the prefetcher logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Prefetcher) { p.logger = l }
}

// New creates a Prefetcher. batchSize must be within [MinBatchSize, MaxBatchSize].
func New(loader Loader, sink Sink, batchSize int, opts ...Option) (*Prefetcher, error) {
	proc, err := NewProcessor[catalog.EntryRef](batchSize)
	if err != nil {
		return nil, err
	}
	p := &Prefetcher{
		loader:      loader,
		sink:        sink,
		processor:   proc,
		concurrency: DefaultConcurrency,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run resolves every reference whose attributes are not yet recorded.
// Individual lookup failures are counted and logged, never returned; Run
// only fails when ctx is done.
func (p *Prefetcher) Run(ctx context.Context, refs []catalog.EntryRef) (Snapshot, error) {
	progress := NewProgress(len(refs), p.processor.TotalBatches(len(refs)))
	record := p.recorder()

	err := p.processor.Process(ctx, refs, func(ctx context.Context, batch []catalog.EntryRef, batchIndex int) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)

		for _, ref := range batch {
			if _, ok := p.sink.Attributes(ref.Name); ok {
				progress.addSkipped()
				continue
			}
			g.Go(func() error {
				p.resolve(gctx, ref, record, progress)
				return nil
			})
		}
		_ = g.Wait()

		progress.batchDone()
		if p.onProgress != nil {
			p.onProgress(progress.Snapshot())
		}
		p.logger.Debug().Ctx(ctx).Int("batch", batchIndex).Int("size", len(batch)).Msg("prefetch batch done")
		return ctx.Err()
	})

	snap := progress.Snapshot()
	p.logger.Info().Ctx(ctx).
		Int("fetched", snap.Fetched).
		Int("failed", snap.Failed).
		Int("skipped", snap.Skipped).
		Int("discarded", snap.Discarded).
		Dur("elapsed", snap.Elapsed).
		Msg("prefetch finished")
	return snap, err
}

// recorder binds writes to the sink generation current when a run starts.
func (p *Prefetcher) recorder() func(string, catalog.Attributes) bool {
	gs, ok := p.sink.(GenerationalSink)
	if !ok {
		return func(name string, attrs catalog.Attributes) bool {
			p.sink.RecordAttributes(name, attrs)
			return true
		}
	}
	gen := gs.Generation()
	return func(name string, attrs catalog.Attributes) bool {
		return gs.RecordAttributesAt(gen, name, attrs)
	}
}

func (p *Prefetcher) resolve(
	ctx context.Context,
	ref catalog.EntryRef,
	record func(string, catalog.Attributes) bool,
	progress *Progress,
) {
	key := ref.Name
	if id := ref.ID(); id > 0 {
		key = strconv.Itoa(id)
	}

	detail, err := p.loader.Detail(ctx, key)
	if err != nil {
		progress.addFailed()
		p.logger.Warn().Ctx(ctx).Err(err).Str("entry", ref.Name).Msg("prefetch lookup failed")
		return
	}
	if !record(ref.Name, detail.Attributes()) {
		progress.addDiscarded()
		p.logger.Debug().Ctx(ctx).Str("entry", ref.Name).Msg("discarding prefetch result after reset")
		return
	}
	progress.addFetched()
}
