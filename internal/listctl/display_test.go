package listctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedex/internal/catalog"
)

func TestSelectDisplay(t *testing.T) {
	acc := []catalog.EntryRef{fakeRef(1), fakeRef(2)}
	found := []catalog.EntryRef{fakeRef(25)}

	tests := []struct {
		name     string
		query    string
		filtered []catalog.EntryRef
		want     Display
	}{
		{
			name:  "empty query shows accumulated",
			query: "",
			want:  Paginated{Entries: acc, Cursor: "page/1"},
		},
		{
			name:  "whitespace query shows accumulated",
			query: " \t ",
			want:  Paginated{Entries: acc, Cursor: "page/1"},
		},
		{
			name:     "query shows filtered",
			query:    " pika ",
			filtered: found,
			want:     Filtered{Entries: found, Query: "pika"},
		},
		{
			name:  "query without results shows empty filtered",
			query: "zzz",
			want:  Filtered{Entries: []catalog.EntryRef{}, Query: "zzz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectDisplay(tt.query, acc, "page/1", tt.filtered))
		})
	}
}

func TestDisplayList(t *testing.T) {
	p := SelectDisplay("", nil, "", nil)
	require.IsType(t, Paginated{}, p)
	assert.NotNil(t, p.List())
	assert.False(t, p.(Paginated).HasMore())

	f := Filtered{Query: "x"}
	assert.NotNil(t, f.List())
}
