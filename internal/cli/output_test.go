package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedex/internal/catalog"
	"github.com/rshade/pokedex/internal/cli/pagination"
	"github.com/rshade/pokedex/internal/tui"
)

func sampleList() listResult {
	return listResult{
		Total: 1008,
		Next:  "https://pokeapi.co/api/v2/pokemon?offset=20&limit=20",
		Entries: []entryRow{
			{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}, URL: "https://pokeapi.co/api/v2/pokemon/1/"},
			{ID: 4, Name: "charmander", URL: "https://pokeapi.co/api/v2/pokemon/4/"},
		},
	}
}

func TestRenderList_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: formatTable, want: []string{"ID", "NAME", "TYPES", "bulbasaur", "grass,poison", "Showing 2 of 1008"}},
		{format: formatJSON, want: []string{`"total": 1008`, `"name": "bulbasaur"`, `"next":`}},
		{format: formatNDJSON, want: []string{`{"id":1,"name":"bulbasaur","types":["grass","poison"]`, `{"id":4,"name":"charmander","url"`}},
		{format: formatYAML, want: []string{"total: 1008", "- id: 1", "name: charmander"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderList(&buf, tt.format, tui.OutputModePlain, sampleList()))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestRenderList_Styled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderList(&buf, formatTable, tui.OutputModeStyled, sampleList()))
	assert.Contains(t, buf.String(), "Bulbasaur")
	assert.Contains(t, buf.String(), "GRASS")
}

func TestWriteListFooter(t *testing.T) {
	var buf bytes.Buffer
	writeListFooter(&buf, listResult{Query: "zz", Suggestions: []string{"zubat"}})
	assert.Equal(t, "No entries found for \"zz\"\nDid you mean: zubat?\n", buf.String())

	buf.Reset()
	meta := pagination.NewMeta(pagination.Params{Page: 1, PageSize: 2}, 5)
	writeListFooter(&buf, listResult{Entries: []entryRow{{ID: 1}}, Pagination: &meta})
	assert.Contains(t, buf.String(), "Page 1 of 3 (5 results)")

	buf.Reset()
	writeListFooter(&buf, listResult{Entries: []entryRow{{ID: 1}}})
	assert.Empty(t, buf.String())
}

func TestNewProfileResult(t *testing.T) {
	p := &catalog.Profile{
		Detail: &catalog.EntryDetail{
			ID:        25,
			Name:      "pikachu",
			Height:    4,
			Weight:    60,
			Types:     []string{"electric"},
			Abilities: []catalog.Ability{{Name: "static"}, {Name: "lightning-rod", Hidden: true}},
			Stats:     []catalog.Stat{{Name: "hp", Base: 35}, {Name: "speed", Base: 90}},
		},
	}

	res := newProfileResult(p, "en", "https://pokeapi.co/api/v2/pokemon/25/")
	assert.Equal(t, "No description available.", res.Description)
	assert.Empty(t, res.Genus)
	assert.InDelta(t, 0.4, res.HeightM, 1e-9)
	assert.InDelta(t, 6.0, res.WeightKg, 1e-9)
	assert.Equal(t, []abilityRow{{Name: "static"}, {Name: "lightning-rod", Hidden: true}}, res.Abilities)

	var buf bytes.Buffer
	require.NoError(t, writeProfileTable(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "Lightning Rod (hidden)")
	assert.Contains(t, out, "Speed")
	assert.Contains(t, out, "125")
}

func TestIntersectByName(t *testing.T) {
	a := []catalog.EntryRef{{Name: "pikachu"}, {Name: "bulbasaur"}, {Name: "pichu"}}
	b := []catalog.EntryRef{{Name: "pichu"}, {Name: "pikachu"}}

	got := intersectByName(a, b)
	require.Len(t, got, 2)
	assert.Equal(t, "pikachu", got[0].Name)
	assert.Equal(t, "pichu", got[1].Name)
	assert.Empty(t, intersectByName(nil, b))
}
