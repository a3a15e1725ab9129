package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client defaults.
const (
	DefaultBaseURL     = "https://pokeapi.co/api/v2"
	DefaultPageSize    = 20
	DefaultSearchLimit = 1302
	DefaultTimeout     = 30 * time.Second
	DefaultLanguage    = "en"
)

// Operation names recorded in TransportError.Op.
const (
	opFetchPage      = "fetch page"
	opFetchDetail    = "fetch detail"
	opFetchNarrative = "fetch narrative"
	opFetchSnapshot  = "fetch snapshot"
	opFetchType      = "fetch type"
)

// Client issues read requests to the catalog service.
type Client struct {
	baseURL     string
	pageSize    int
	searchLimit int
	language    string
	policy      Policy
	httpClient  *http.Client
	logger      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another service root.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithPageSize sets the first-page size.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// WithSearchLimit sets the size of the snapshot page used by searches.
func WithSearchLimit(n int) Option {
	return func(c *Client) { c.searchLimit = n }
}

// WithLanguage selects the genus language of narratives.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithPolicy sets the canonical-entry policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client with defaults overridden by opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		pageSize:    DefaultPageSize,
		searchLimit: DefaultSearchLimit,
		language:    DefaultLanguage,
		policy:      DefaultPolicy(),
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the client's canonical-entry policy.
func (c *Client) Policy() Policy {
	return c.policy
}

// FirstPageURL returns the fixed endpoint requested when no cursor is given.
func (c *Client) FirstPageURL() string {
	return fmt.Sprintf("%s/pokemon?limit=%d&offset=0", c.baseURL, c.pageSize)
}

// EntryURL returns the detail resource URL of id.
func (c *Client) EntryURL(id int) string {
	return fmt.Sprintf("%s/pokemon/%d/", c.baseURL, id)
}

// FetchPage fetches the first page when cursor is empty, otherwise exactly
// the URL given by cursor. Entries above the ceiling are dropped and Count
// is clamped to the ceiling. Errors are returned unmodified; there is no
// retry.
func (c *Client) FetchPage(ctx context.Context, cursor string) (*Page, error) {
	target := cursor
	if target == "" {
		target = c.FirstPageURL()
	}

	var ap apiPage
	if err := c.getJSON(ctx, opFetchPage, target, &ap); err != nil {
		return nil, err
	}

	page := convertPage(ap)
	raw := len(page.Results)
	page.Results = FilterCanonical(page.Results, c.policy)
	if page.Count > c.policy.Ceiling {
		page.Count = c.policy.Ceiling
	}

	// The service lists identifiers in ascending order, so a page made up
	// entirely of variant forms means no canonical entries remain.
	if raw > 0 && len(page.Results) == 0 {
		page.Next = ""
	}
	return page, nil
}

// FetchEntryDetail fetches the attribute record of one entry by id or name.
func (c *Client) FetchEntryDetail(ctx context.Context, idOrName string) (*EntryDetail, error) {
	target := fmt.Sprintf("%s/pokemon/%s", c.baseURL, normalizeKey(idOrName))

	var ap apiPokemon
	if err := c.getJSON(ctx, opFetchDetail, target, &ap); err != nil {
		return nil, err
	}
	return convertPokemon(ap), nil
}

// FetchEntryNarrative fetches the species text of one entry by id or name.
func (c *Client) FetchEntryNarrative(ctx context.Context, idOrName string) (*SpeciesNarrative, error) {
	target := fmt.Sprintf("%s/pokemon-species/%s", c.baseURL, normalizeKey(idOrName))

	var as apiSpecies
	if err := c.getJSON(ctx, opFetchNarrative, target, &as); err != nil {
		return nil, err
	}
	return convertSpecies(as, c.language), nil
}

// Snapshot fetches one page large enough to cover the whole catalog,
// variant forms included.
func (c *Client) Snapshot(ctx context.Context) ([]EntryRef, error) {
	target := fmt.Sprintf("%s/pokemon?limit=%d&offset=0", c.baseURL, c.searchLimit)

	var ap apiPage
	if err := c.getJSON(ctx, opFetchSnapshot, target, &ap); err != nil {
		return nil, err
	}
	return convertPage(ap).Results, nil
}

// SearchByNameOrID filters a full catalog snapshot by query. Failures are
// logged and yield an empty result so that browsing is not disrupted.
func (c *Client) SearchByNameOrID(ctx context.Context, query string) []EntryRef {
	entries, err := c.Snapshot(ctx)
	if err != nil {
		c.logger.Warn().Ctx(ctx).Err(err).Str("query", query).Msg("search failed")
		return []EntryRef{}
	}
	return FilterEntries(entries, query, c.policy)
}

// FetchTypeMembers lists the canonical entries of one type, ordered by id.
func (c *Client) FetchTypeMembers(ctx context.Context, typeName string) ([]EntryRef, error) {
	target := fmt.Sprintf("%s/type/%s", c.baseURL, normalizeKey(typeName))

	var at apiType
	if err := c.getJSON(ctx, opFetchType, target, &at); err != nil {
		return nil, err
	}

	refs := make([]EntryRef, 0, len(at.Pokemon))
	for _, p := range at.Pokemon {
		refs = append(refs, EntryRef(p.Pokemon))
	}
	refs = FilterCanonical(refs, c.policy)
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].ID() < refs[j].ID() })
	return refs, nil
}

// Suggest returns up to limit canonical names close to query. Failures
// yield no suggestions.
func (c *Client) Suggest(ctx context.Context, query string, limit int) []string {
	entries, err := c.Snapshot(ctx)
	if err != nil {
		c.logger.Debug().Ctx(ctx).Err(err).Msg("suggestions unavailable")
		return nil
	}
	return RankSuggestions(entries, query, limit, c.policy)
}

func (c *Client) getJSON(ctx context.Context, op, target string, out any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Ctx(ctx).
		Str("op", op).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("catalog request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &TransportError{Op: op, URL: target, StatusCode: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &TransportError{Op: op, URL: target, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return &TransportError{
			Op:  op,
			URL: target,
			Err: fmt.Errorf("%w: %w", ErrMalformedResponse, decodeErr),
		}
	}
	return nil
}

// normalizeKey lower-cases and path-escapes an id or name.
func normalizeKey(idOrName string) string {
	return url.PathEscape(strings.ToLower(strings.TrimSpace(idOrName)))
}
