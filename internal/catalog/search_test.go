package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func refs(names map[int]string) []EntryRef {
	out := make([]EntryRef, 0, len(names))
	for _, id := range []int{1, 25, 26, 122, 150, 151, 172, 1009, 10100} {
		if n, ok := names[id]; ok {
			out = append(out, EntryRef{Name: n, URL: fmt.Sprintf("https://x/pokemon/%d/", id)})
		}
	}
	return out
}

var fixture = refs(map[int]string{ //nolint:gochecknoglobals // Test fixture.
	1:     "bulbasaur",
	25:    "pikachu",
	26:    "raichu",
	122:   "mr-mime",
	150:   "mewtwo",
	151:   "mew",
	172:   "pichu",
	1009:  "walking-wake",
	10100: "raichu-alola",
})

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw     string
		text    string
		numeric bool
		id      int
	}{
		{raw: "25", text: "25", numeric: true, id: 25},
		{raw: "  7 ", text: "7", numeric: true, id: 7},
		{raw: "007", text: "007"},
		{raw: "+7", text: "+7"},
		{raw: "-3", text: "-3", numeric: true, id: -3},
		{raw: "Pika", text: "pika"},
		{raw: "", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q := ParseQuery(tt.raw)
			assert.Equal(t, tt.text, q.Text)
			assert.Equal(t, tt.numeric, q.Numeric)
			assert.Equal(t, tt.id, q.ID)
		})
	}
}

func names(refs []EntryRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func TestFilterEntries(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, []string{"pikachu"}, names(FilterEntries(fixture, "25", p)))
	assert.Equal(t, []string{"raichu"}, names(FilterEntries(fixture, "rai", p)))
	assert.Equal(t, []string{"mr-mime"}, names(FilterEntries(fixture, "mime", p)))
	assert.Empty(t, FilterEntries(fixture, "1009", p))
	assert.Empty(t, FilterEntries(fixture, "-3", p))
	assert.NotNil(t, FilterEntries(fixture, "", p))
	assert.NotNil(t, FilterEntries(nil, "pika", p))

	strict := Policy{Ceiling: DefaultCeiling, ExcludeAlternateForms: true}
	assert.Empty(t, FilterEntries(fixture, "mime", strict))
	assert.Equal(t, []string{"mr-mime"}, names(FilterEntries(fixture, "122", strict)))
}

func TestRankSuggestions(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, []string{"pikachu"}, RankSuggestions(fixture, "pikachuu", 5, p))
	assert.Equal(t, []string{"mewtwo", "mew"}, RankSuggestions(fixture, "mewtw", 5, p))
	assert.Equal(t, []string{"mewtwo"}, RankSuggestions(fixture, "mewtw", 1, p))
	assert.Empty(t, RankSuggestions(fixture, "raichu-alol", 5, p))
	assert.Nil(t, RankSuggestions(fixture, "25", 5, p))
	assert.Nil(t, RankSuggestions(fixture, " ", 5, p))
	assert.Nil(t, RankSuggestions(fixture, "mew", 0, p))
}

func TestSuggestionLimit(t *testing.T) {
	assert.Equal(t, 1, suggestionLimit(3))
	assert.Equal(t, 2, suggestionLimit(7))
	assert.Equal(t, 3, suggestionLimit(12))
}
