package prefetch_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedex/internal/catalog"
	"github.com/rshade/pokedex/internal/catalog/catalogtest"
	"github.com/rshade/pokedex/internal/listctl"
	"github.com/rshade/pokedex/internal/prefetch"
)

type stubLoader struct {
	calls    atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
	fail     map[string]bool
}

func (s *stubLoader) Detail(_ context.Context, key string) (*catalog.EntryDetail, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if s.fail[key] {
		return nil, &catalog.TransportError{Op: "fetch detail", URL: key, Err: catalog.ErrNotFound}
	}
	var id int
	_, _ = fmt.Sscanf(key, "%d", &id)
	return &catalog.EntryDetail{ID: id, Name: key, Types: []string{"normal"}}, nil
}

func makeRefs(n int) []catalog.EntryRef {
	refs := make([]catalog.EntryRef, n)
	for i := range refs {
		id := i + 1
		refs[i] = catalog.EntryRef{
			Name: fmt.Sprintf("entry%d", id),
			URL:  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", id),
		}
	}
	return refs
}

func TestPrefetcher_RecordsAttributes(t *testing.T) {
	loader := &stubLoader{fail: map[string]bool{"7": true}}
	sink := listctl.New(nil)

	var mu sync.Mutex
	var snaps []prefetch.Snapshot
	p, err := prefetch.New(loader, sink, 5,
		prefetch.WithConcurrency(2),
		prefetch.WithProgress(func(s prefetch.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			snaps = append(snaps, s)
		}),
	)
	require.NoError(t, err)

	snap, err := p.Run(context.Background(), makeRefs(12))
	require.NoError(t, err)

	assert.Equal(t, 11, snap.Fetched)
	assert.Equal(t, 1, snap.Failed)
	assert.True(t, snap.IsComplete())
	assert.Equal(t, 3, snap.TotalBatches)
	assert.LessOrEqual(t, loader.peak.Load(), int64(2))

	require.Len(t, snaps, 3)
	assert.Equal(t, 1, snaps[0].ProcessedBatches)
	assert.Equal(t, 3, snaps[2].ProcessedBatches)

	attrs, ok := sink.Attributes("entry3")
	require.True(t, ok)
	assert.Equal(t, 3, attrs.ID)
	assert.Equal(t, []string{"normal"}, attrs.Types)
	_, ok = sink.Attributes("entry7")
	assert.False(t, ok)
}

func TestPrefetcher_SkipsKnownEntries(t *testing.T) {
	loader := &stubLoader{}
	sink := listctl.New(nil)
	sink.RecordAttributes("entry1", catalog.Attributes{ID: 1})

	p, err := prefetch.New(loader, sink, 10)
	require.NoError(t, err)

	snap, err := p.Run(context.Background(), makeRefs(3))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Skipped)
	assert.Equal(t, 2, snap.Fetched)
	assert.Equal(t, int64(2), loader.calls.Load())
}

func TestPrefetcher_Cancelled(t *testing.T) {
	p, err := prefetch.New(&stubLoader{}, listctl.New(nil), 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, makeRefs(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrefetcher_InvalidBatchSize(t *testing.T) {
	_, err := prefetch.New(&stubLoader{}, listctl.New(nil), 0)
	assert.ErrorIs(t, err, prefetch.ErrInvalidBatchSize)
}

func TestPrefetcher_WithDetailLoader(t *testing.T) {
	srv := catalogtest.NewServer()
	defer srv.Close()
	client := catalog.NewClient(catalog.WithBaseURL(srv.URL), catalog.WithHTTPClient(srv.Client()))
	loader := catalog.NewDetailLoader(client)
	ctl := listctl.New(client)
	ctx := context.Background()
	require.NoError(t, ctl.LoadInitial(ctx))

	p, err := prefetch.New(loader, ctl, 5)
	require.NoError(t, err)

	refs := ctl.Display().List()
	// Duplicates share a single request through the loader.
	refs = append(refs, refs[0], refs[1])
	snap, err := p.Run(ctx, refs)
	require.NoError(t, err)
	assert.Equal(t, 20, snap.Fetched)
	assert.Equal(t, 2, snap.Skipped)

	attrs, ok := ctl.Attributes("bulbasaur")
	require.True(t, ok)
	assert.Equal(t, []string{"grass"}, attrs.Types)
	assert.Equal(t, 1, srv.Requests("/pokemon/1"))
}

// refreshingLoader refreshes the list before answering its first lookup.
type refreshingLoader struct {
	stubLoader
	ctl  *listctl.Controller
	once sync.Once
}

func (r *refreshingLoader) Detail(ctx context.Context, key string) (*catalog.EntryDetail, error) {
	r.once.Do(func() { _ = r.ctl.Refresh(ctx) })
	return r.stubLoader.Detail(ctx, key)
}

func TestPrefetcher_DiscardsResultsAfterRefresh(t *testing.T) {
	srv := catalogtest.NewServer()
	defer srv.Close()
	client := catalog.NewClient(catalog.WithBaseURL(srv.URL), catalog.WithHTTPClient(srv.Client()))
	ctl := listctl.New(client)
	ctx := context.Background()
	require.NoError(t, ctl.LoadInitial(ctx))

	loader := &refreshingLoader{ctl: ctl}
	p, err := prefetch.New(loader, ctl, 10, prefetch.WithConcurrency(1))
	require.NoError(t, err)

	snap, err := p.Run(ctx, makeRefs(3))
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Discarded)
	assert.Zero(t, snap.Fetched)
	assert.True(t, snap.IsComplete())

	for _, ref := range makeRefs(3) {
		_, ok := ctl.Attributes(ref.Name)
		assert.False(t, ok, ref.Name)
	}
}
