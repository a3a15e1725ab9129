package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedex/internal/catalog"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		errMsg string
	}{
		{name: "valid default", params: *NewParams()},
		{name: "valid offset mode", params: Params{Limit: 10, Offset: 20}},
		{name: "valid page mode", params: Params{Page: 2, PageSize: 10}},
		{name: "negative limit", params: Params{Limit: -1}, errMsg: "limit cannot be negative"},
		{name: "negative offset", params: Params{Offset: -1}, errMsg: "offset cannot be negative"},
		{name: "negative page", params: Params{Page: -1}, errMsg: "page cannot be negative"},
		{name: "negative page-size", params: Params{PageSize: -1}, errMsg: "page-size cannot be negative"},
		{
			name:   "mixed modes",
			params: Params{Page: 1, PageSize: 5, Offset: 10},
			errMsg: "page and offset parameters are mutually exclusive",
		},
		{name: "page-size without page", params: Params{PageSize: 5}, errMsg: "page must be specified"},
		{name: "page without page-size", params: Params{Page: 2}, errMsg: "page-size must be specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		input     string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{input: "", wantField: "", wantOrder: "asc"},
		{input: "name", wantField: "name", wantOrder: "asc"},
		{input: "id:DESC", wantField: "id", wantOrder: "desc"},
		{input: " name : asc ", wantField: "name", wantOrder: "asc"},
		{input: "a:b:c", wantErr: ErrInvalidSortFormat},
		{input: ":desc", wantErr: ErrEmptySortField},
		{input: "id:up", wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, order, err := ParseSort(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name   string
		params Params
		want   []int
	}{
		{name: "disabled", params: Params{}, want: items},
		{name: "limit", params: Params{Limit: 3}, want: []int{1, 2, 3}},
		{name: "offset and limit", params: Params{Offset: 2, Limit: 2}, want: []int{3, 4}},
		{name: "offset past end", params: Params{Offset: 10}, want: []int{}},
		{name: "second page", params: Params{Page: 2, PageSize: 3}, want: []int{4, 5, 6}},
		{name: "partial last page", params: Params{Page: 3, PageSize: 3}, want: []int{7}},
		{name: "page past end is capped", params: Params{Page: 9, PageSize: 3}, want: []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.params, items))
		})
	}

	assert.Empty(t, Apply(Params{Limit: 1}, []int{}))
}

func TestParams_TotalPages(t *testing.T) {
	assert.Equal(t, 0, Params{Limit: 5}.TotalPages(20))
	assert.Equal(t, 0, Params{Page: 1, PageSize: 5}.TotalPages(0))
	assert.Equal(t, 4, Params{Page: 1, PageSize: 5}.TotalPages(20))
	assert.Equal(t, 5, Params{Page: 1, PageSize: 5}.TotalPages(21))
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, PageSize: 10}, 25)
	assert.Equal(t, Meta{
		CurrentPage: 2,
		PageSize:    10,
		TotalPages:  3,
		TotalItems:  25,
		HasPrevious: true,
		HasNext:     true,
	}, meta)

	meta = NewMeta(Params{Offset: 20, Limit: 10}, 25)
	assert.Equal(t, 3, meta.CurrentPage)
	assert.False(t, meta.HasNext)

	meta = NewMeta(Params{}, 7)
	assert.Equal(t, 1, meta.TotalPages)
	assert.Equal(t, 7, meta.PageSize)
}

func entries(names ...string) []catalog.EntryRef {
	refs := make([]catalog.EntryRef, 0, len(names))
	for i, n := range names {
		refs = append(refs, catalog.EntryRef{
			Name: n,
			URL:  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", (len(names)-i)*10),
		})
	}
	return refs
}

func TestEntrySorter(t *testing.T) {
	s := NewEntrySorter()
	refs := entries("raichu", "pikachu", "pichu")

	byName := s.Sort(refs, SortByName, SortOrderAsc)
	assert.Equal(t, []string{"pichu", "pikachu", "raichu"}, []string{byName[0].Name, byName[1].Name, byName[2].Name})

	byIDDesc := s.Sort(refs, SortByID, SortOrderDesc)
	assert.Equal(t, 30, byIDDesc[0].ID())
	assert.Equal(t, 10, byIDDesc[2].ID())

	// Original untouched; unknown field is a no-op.
	assert.Equal(t, "raichu", refs[0].Name)
	assert.Equal(t, refs, s.Sort(refs, "weight", SortOrderAsc))

	assert.Equal(t, []string{"id", "name"}, s.ValidFields())
	require.NoError(t, s.Check(""))
	require.NoError(t, s.Check("name"))
	assert.ErrorIs(t, s.Check("weight"), ErrInvalidSortField)
}
