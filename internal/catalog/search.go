package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Query is a parsed search term.
type Query struct {
	Raw     string
	Text    string
	Numeric bool
	ID      int
}

// ParseQuery trims raw and decides whether it is an identifier lookup.
// A query is numeric only when it round-trips through an integer parse, so
// "25" is numeric while "025" and "+25" are name searches.
func ParseQuery(raw string) Query {
	q := Query{Raw: raw, Text: strings.ToLower(strings.TrimSpace(raw))}
	if n, err := strconv.Atoi(q.Text); err == nil && strconv.Itoa(n) == q.Text {
		q.Numeric = true
		q.ID = n
	}
	return q
}

// Empty reports whether the query has no content after trimming.
func (q Query) Empty() bool {
	return q.Text == ""
}

// Matches reports whether ref satisfies q under p.
func (q Query) Matches(ref EntryRef, p Policy) bool {
	id := ref.ID()
	if !p.IsCanonical(id) {
		return false
	}
	if q.Numeric {
		return id == q.ID
	}
	name := strings.ToLower(ref.Name)
	if p.ExcludeAlternateForms && strings.Contains(name, "-") {
		return false
	}
	return strings.Contains(name, q.Text)
}

// FilterEntries returns the canonical entries matching query, in snapshot
// order. Blank queries match nothing. The result is never nil.
func FilterEntries(entries []EntryRef, query string, p Policy) []EntryRef {
	q := ParseQuery(query)
	out := []EntryRef{}
	if q.Empty() {
		return out
	}
	for _, e := range entries {
		if q.Matches(e, p) {
			out = append(out, e)
		}
	}
	return out
}

// suggestionLimit scales the accepted edit distance with the query length.
func suggestionLimit(n int) int {
	switch {
	case n <= 4: //nolint:mnd // short names tolerate one typo
		return 1
	case n <= 8: //nolint:mnd // medium names tolerate two
		return 2
	default:
		return 3
	}
}

// RankSuggestions returns up to limit canonical names within a small edit
// distance of query, closest first and then alphabetically. Numeric and
// blank queries have no suggestions.
func RankSuggestions(entries []EntryRef, query string, limit int, p Policy) []string {
	q := ParseQuery(query)
	if q.Empty() || q.Numeric || limit <= 0 {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}

	maxDist := suggestionLimit(len(q.Text))
	var cands []candidate
	for _, e := range entries {
		if !p.IsCanonical(e.ID()) {
			continue
		}
		name := strings.ToLower(e.Name)
		d := levenshtein.ComputeDistance(q.Text, name)
		if d <= maxDist {
			cands = append(cands, candidate{name: name, dist: d})
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})

	if len(cands) > limit {
		cands = cands[:limit]
	}
	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, c.name)
	}
	return names
}
