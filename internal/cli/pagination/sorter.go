package pagination

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/pokedex/internal/catalog"
)

// Sort fields accepted by EntrySorter.
const (
	SortByID   = "id"
	SortByName = "name"
)

// EntrySorter sorts catalog entries by id or name.
type EntrySorter struct {
	validFields map[string]bool
}

// NewEntrySorter creates an EntrySorter.
func NewEntrySorter() *EntrySorter {
	return &EntrySorter{
		validFields: map[string]bool{
			SortByID:   true,
			SortByName: true,
		},
	}
}

// IsValidField reports whether field can be sorted on.
func (s *EntrySorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// ValidFields returns the sortable fields in a stable order.
func (s *EntrySorter) ValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Check returns ErrInvalidSortField for unknown fields. The empty field
// keeps the service order and is accepted.
func (s *EntrySorter) Check(field string) error {
	if field == "" || s.IsValidField(field) {
		return nil
	}
	return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.ValidFields(), ", "))
}

// Sort returns a sorted copy of entries. An unknown field returns entries
// unchanged.
func (s *EntrySorter) Sort(entries []catalog.EntryRef, field, order string) []catalog.EntryRef {
	if !s.IsValidField(field) {
		return entries
	}

	sorted := make([]catalog.EntryRef, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortOrderDesc {
			i, j = j, i
		}
		if field == SortByName {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID() < sorted[j].ID()
	})
	return sorted
}
