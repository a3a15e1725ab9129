package catalog

import (
	"strconv"
	"strings"
)

// Ceiling values seen across catalog generations.
const (
	// DefaultCeiling covers every main-series entry up to generation nine's
	// first release.
	DefaultCeiling = 1008

	// LegacyCeiling is the older generation-eight boundary.
	LegacyCeiling = 900

	// FirstVariantID is where the service starts numbering alternate forms.
	// Below it an entry's identifier is also its species identifier.
	FirstVariantID = 10001
)

// Policy decides which entries are canonical.
type Policy struct {
	// Ceiling is the highest canonical identifier.
	Ceiling int
	// ExcludeAlternateForms drops hyphenated names from name searches.
	ExcludeAlternateForms bool
}

// DefaultPolicy returns the 1008 ceiling with alternate forms allowed.
func DefaultPolicy() Policy {
	return Policy{Ceiling: DefaultCeiling}
}

// IsCanonical reports whether id lies in [1, Ceiling].
func (p Policy) IsCanonical(id int) bool {
	return id >= 1 && id <= p.Ceiling
}

// Clamp bounds id to the canonical range.
func (p Policy) Clamp(id int) int {
	if id < 1 {
		return 1
	}
	if id > p.Ceiling {
		return p.Ceiling
	}
	return id
}

// ParseIdentifier extracts the identifier from the second-to-last
// "/"-delimited segment of a reference URL such as
// "https://pokeapi.co/api/v2/pokemon/25/". Unparsable segments yield 0.
func ParseIdentifier(url string) int {
	parts := strings.Split(url, "/")
	if len(parts) < 2 { //nolint:mnd // need a second-to-last segment
		return 0
	}
	id, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0
	}
	return id
}

// FilterCanonical returns the refs whose identifier is canonical under p,
// preserving order.
func FilterCanonical(refs []EntryRef, p Policy) []EntryRef {
	out := make([]EntryRef, 0, len(refs))
	for _, r := range refs {
		if p.IsCanonical(r.ID()) {
			out = append(out, r)
		}
	}
	return out
}
