package listctl

import (
	"strings"

	"github.com/rshade/pokedex/internal/catalog"
)

// Display is the entry set currently presented. It is either Paginated or
// Filtered.
type Display interface {
	// List returns the entries to render, never nil.
	List() []catalog.EntryRef
	isDisplay()
}

// Paginated is the accumulated page listing.
type Paginated struct {
	Entries []catalog.EntryRef
	Cursor  string
}

// List implements Display.
func (p Paginated) List() []catalog.EntryRef { return nonNil(p.Entries) }

// HasMore reports whether another page can be requested.
func (p Paginated) HasMore() bool { return p.Cursor != "" }

func (Paginated) isDisplay() {}

// Filtered is the result of the active search.
type Filtered struct {
	Entries []catalog.EntryRef
	Query   string
}

// List implements Display.
func (f Filtered) List() []catalog.EntryRef { return nonNil(f.Entries) }

func (Filtered) isDisplay() {}

// SelectDisplay picks the filtered set when the trimmed query is non-empty
// and the accumulated set otherwise.
func SelectDisplay(query string, entries []catalog.EntryRef, cursor string, filtered []catalog.EntryRef) Display {
	if q := strings.TrimSpace(query); q != "" {
		return Filtered{Entries: nonNil(filtered), Query: q}
	}
	return Paginated{Entries: nonNil(entries), Cursor: cursor}
}

func nonNil(refs []catalog.EntryRef) []catalog.EntryRef {
	if refs == nil {
		return []catalog.EntryRef{}
	}
	return refs
}
