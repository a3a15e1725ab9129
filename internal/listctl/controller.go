package listctl

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/pokedex/internal/catalog"
)

// LoadFailedMessage is shown when the initial page cannot be fetched.
const LoadFailedMessage = "Failed to fetch catalog data. Please try again later."

// ErrSuperseded is returned by LoadInitial when a Refresh started after it
// and its result was discarded.
var ErrSuperseded = errors.New("load superseded by refresh")

// Catalog is the subset of the catalog client the controller drives.
type Catalog interface {
	FetchPage(ctx context.Context, cursor string) (*catalog.Page, error)
	SearchByNameOrID(ctx context.Context, query string) []catalog.EntryRef
}

// Flags are the four independent in-flight markers.
type Flags struct {
	Loading     bool
	Refreshing  bool
	LoadingMore bool
	Searching   bool
}

// Busy reports whether any request is in flight.
func (f Flags) Busy() bool {
	return f.Loading || f.Refreshing || f.LoadingMore || f.Searching
}

// State is a point-in-time copy of the controller.
type State struct {
	Flags

	Query       string
	Accumulated []catalog.EntryRef
	Filtered    []catalog.EntryRef
	Cursor      string
	Total       int
	Error       string
	Display     Display
}

// Controller owns the list screen state.
type Controller struct {
	cat    Catalog
	logger zerolog.Logger

	mu          sync.Mutex
	flags       Flags
	query       string
	accumulated []catalog.EntryRef
	filtered    []catalog.EntryRef
	cursor      string
	total       int
	errMsg      string
	attributes  map[string]catalog.Attributes
	generation  uint64
	searchSeq   uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates an empty controller over cat.
func New(cat Catalog, opts ...Option) *Controller {
	c := &Controller{
		cat:        cat,
		logger:     zerolog.Nop(),
		attributes: make(map[string]catalog.Attributes),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadInitial fetches the first page and replaces the accumulated set.
// On failure the set is left empty and Error carries LoadFailedMessage.
func (c *Controller) LoadInitial(ctx context.Context) error {
	c.mu.Lock()
	c.flags.Loading = true
	c.errMsg = ""
	gen := c.generation
	c.mu.Unlock()

	page, err := c.cat.FetchPage(ctx, "")

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug().Ctx(ctx).Uint64("generation", gen).Msg("discarding superseded initial page")
		return ErrSuperseded
	}
	c.flags.Loading = false

	if err != nil {
		c.accumulated = nil
		c.cursor = ""
		c.total = 0
		c.errMsg = LoadFailedMessage
		c.logger.Error().Ctx(ctx).Err(err).Msg("initial load failed")
		return err
	}

	c.accumulated = append([]catalog.EntryRef(nil), page.Results...)
	c.cursor = page.Next
	c.total = page.Count
	c.logger.Debug().Ctx(ctx).
		Int("entries", len(c.accumulated)).
		Int("total", c.total).
		Msg("initial page loaded")
	return nil
}

// LoadMore appends the page at the recorded cursor. It does nothing when a
// load-more is already in flight, no cursor is recorded, or a query is
// active. Failures are logged and swallowed. It reports whether entries were
// appended.
func (c *Controller) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	if c.flags.LoadingMore || c.cursor == "" || strings.TrimSpace(c.query) != "" {
		c.mu.Unlock()
		return false
	}
	c.flags.LoadingMore = true
	cursor := c.cursor
	gen := c.generation
	c.mu.Unlock()

	page, err := c.cat.FetchPage(ctx, cursor)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A refresh reset the latch and owns the list now.
	if gen != c.generation {
		c.logger.Debug().Ctx(ctx).Str("cursor", cursor).Msg("discarding superseded page")
		return false
	}
	c.flags.LoadingMore = false

	if err != nil {
		c.logger.Warn().Ctx(ctx).Err(err).Str("cursor", cursor).Msg("load more failed")
		return false
	}

	c.accumulated = append(c.accumulated, page.Results...)
	c.cursor = page.Next
	c.total = page.Count
	return len(page.Results) > 0
}

// Refresh clears the accumulated set, the attribute cache, the query and
// the filtered set, then reloads the first page. Requests started before
// the refresh are discarded when they complete.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	c.searchSeq++
	gen := c.generation
	c.accumulated = nil
	c.cursor = ""
	c.total = 0
	c.errMsg = ""
	c.query = ""
	c.filtered = nil
	c.attributes = make(map[string]catalog.Attributes)
	c.flags = Flags{Refreshing: true}
	c.mu.Unlock()

	c.logger.Info().Ctx(ctx).Uint64("generation", gen).Msg("refreshing list")
	err := c.LoadInitial(ctx)

	c.mu.Lock()
	if gen == c.generation {
		c.flags.Refreshing = false
	}
	c.mu.Unlock()
	return err
}

// Search sets the query. A blank query clears the filtered set without a
// network call; otherwise the filtered set is replaced with the results of
// a catalog search. Results of a superseded search are dropped.
func (c *Controller) Search(ctx context.Context, query string) {
	c.mu.Lock()
	c.query = query
	c.searchSeq++
	seq := c.searchSeq
	c.filtered = nil
	if strings.TrimSpace(query) == "" {
		c.flags.Searching = false
		c.mu.Unlock()
		return
	}
	c.flags.Searching = true
	c.mu.Unlock()

	results := c.cat.SearchByNameOrID(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.searchSeq {
		c.logger.Debug().Ctx(ctx).Str("query", query).Msg("discarding superseded search")
		return
	}
	c.filtered = results
	c.flags.Searching = false
	c.logger.Debug().Ctx(ctx).Str("query", query).Int("matches", len(results)).Msg("search complete")
}

// RecordAttributes caches facts about the entry called name.
func (c *Controller) RecordAttributes(name string, attrs catalog.Attributes) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attributes[name] = attrs
}

// Generation identifies the current list lifetime. Refresh advances it.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// RecordAttributesAt caches attrs unless a Refresh happened after
// generation was read. It reports whether attrs were kept.
func (c *Controller) RecordAttributesAt(generation uint64, name string, attrs catalog.Attributes) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	c.attributes[name] = attrs
	return true
}

// Attributes returns cached facts about the entry called name.
func (c *Controller) Attributes(name string) (catalog.Attributes, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.attributes[name]
	return a, ok
}

// Display returns the entry set to present.
func (c *Controller) Display() Display {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SelectDisplay(c.query, cloneRefs(c.accumulated), c.cursor, cloneRefs(c.filtered))
}

// State returns a copy of the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	acc := cloneRefs(c.accumulated)
	filtered := cloneRefs(c.filtered)
	return State{
		Flags:       c.flags,
		Query:       c.query,
		Accumulated: acc,
		Filtered:    filtered,
		Cursor:      c.cursor,
		Total:       c.total,
		Error:       c.errMsg,
		Display:     SelectDisplay(c.query, acc, c.cursor, filtered),
	}
}

// Flags returns the in-flight markers.
func (c *Controller) Flags() Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

func cloneRefs(refs []catalog.EntryRef) []catalog.EntryRef {
	if refs == nil {
		return nil
	}
	out := make([]catalog.EntryRef, len(refs))
	copy(out, refs)
	return out
}
