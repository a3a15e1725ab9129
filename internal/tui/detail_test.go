package tui

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedex/internal/catalog"
)

type stubProfiles struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *stubProfiles) Profile(_ context.Context, key string) (*catalog.Profile, error) {
	s.mu.Lock()
	s.calls = append(s.calls, key)
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	id, _ := strconv.Atoi(key)
	return &catalog.Profile{
		Detail: &catalog.EntryDetail{
			ID:     id,
			Name:   "pikachu",
			Height: 4,
			Weight: 60,
			Types:  []string{"electric"},
			Abilities: []catalog.Ability{
				{Name: "static"},
				{Name: "lightning-rod", Hidden: true},
			},
			Stats: []catalog.Stat{
				{Name: "hp", Base: 35},
				{Name: "special-attack", Base: 50},
			},
		},
		Narrative: &catalog.SpeciesNarrative{
			Genus: "Mouse Pokémon",
			FlavorTexts: []catalog.FlavorText{
				{Text: "It keeps its tail\fraised.", Language: "en"},
			},
		},
	}, nil
}

func newTestDetail(t *testing.T, id int, opts DetailOptions) (*DetailModel, *stubProfiles) {
	t.Helper()
	loader := &stubProfiles{}
	m := NewDetailModel(context.Background(), loader, id, opts)
	start(m)
	return m, loader
}

func TestDetailModel_Loads(t *testing.T) {
	var observed *catalog.EntryDetail
	m, _ := newTestDetail(t, 25, DetailOptions{
		OnLoaded: func(d *catalog.EntryDetail) { observed = d },
	})

	require.Equal(t, ViewStateDetail, m.State())
	require.NotNil(t, observed)
	assert.Equal(t, 25, observed.ID)

	view := m.View()
	assert.Contains(t, view, "#025 Pikachu")
	assert.Contains(t, view, "ELECTRIC")
	assert.Contains(t, view, "Mouse Pokémon")
	assert.Contains(t, view, "It keeps its tail raised.")
	assert.Contains(t, view, "0.4 m")
	assert.Contains(t, view, "6.0 kg")
	assert.Contains(t, view, "Lightning Rod (hidden)")
}

func TestTitleStyle(t *testing.T) {
	d := &catalog.EntryDetail{Types: []string{"electric", "flying"}}
	assert.Equal(t, TypeColor("electric"), TitleStyle(d).GetBackground())
	assert.Equal(t, HeaderStyle.GetBackground(), TitleStyle(&catalog.EntryDetail{}).GetBackground())
}

func TestDetailModel_StatsTab(t *testing.T) {
	m, _ := newTestDetail(t, 25, DetailOptions{})

	pump(m, tea.KeyMsg{Type: tea.KeyTab})
	view := m.View()
	assert.Contains(t, view, "Sp. Atk")
	assert.Contains(t, view, "Total")
	assert.Contains(t, view, "85")

	pump(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), "Abilities")
}

func TestDetailModel_NavigationIsBounded(t *testing.T) {
	policy := catalog.Policy{Ceiling: 3}

	m, loader := newTestDetail(t, 1, DetailOptions{Policy: policy})
	_, cmd := m.Update(keyRunes("p"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.ID())

	pump(m, keyRunes("n"))
	assert.Equal(t, 2, m.ID())
	pump(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, m.ID())
	_, cmd = m.Update(keyRunes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, 3, m.ID())
	assert.Equal(t, []string{"1", "2", "3"}, loader.calls)

	clamped := NewDetailModel(context.Background(), loader, 99, DetailOptions{Policy: policy})
	assert.Equal(t, 3, clamped.ID())
}

func TestDetailModel_DropsStaleProfiles(t *testing.T) {
	m := NewDetailModel(context.Background(), &stubProfiles{}, 2, DetailOptions{})

	_, _ = m.Update(profileLoadedMsg{id: 1, profile: &catalog.Profile{}})
	assert.Equal(t, ViewStateLoading, m.State())
}

func TestDetailModel_ErrorAndRetry(t *testing.T) {
	loader := &stubProfiles{err: &catalog.TransportError{Op: "fetch detail", StatusCode: 404, Err: catalog.ErrNotFound}}
	m := NewDetailModel(context.Background(), loader, 7, DetailOptions{})
	start(m)

	require.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), "Entry #007 was not found.")

	loader.mu.Lock()
	loader.err = errors.New("connection reset")
	loader.mu.Unlock()
	pump(m, keyRunes("r"))
	assert.Contains(t, m.View(), "connection reset")

	loader.mu.Lock()
	loader.err = nil
	loader.mu.Unlock()
	pump(m, keyRunes("r"))
	assert.Equal(t, ViewStateDetail, m.State())
}

func TestDetailModel_CopyURL(t *testing.T) {
	var copied string
	m, _ := newTestDetail(t, 25, DetailOptions{
		EntryURL: func(id int) string { return "https://pokeapi.co/api/v2/pokemon/" + strconv.Itoa(id) + "/" },
		Copy: func(s string) error {
			copied = s
			return nil
		},
	})

	pump(m, keyRunes("y"))
	assert.Equal(t, "https://pokeapi.co/api/v2/pokemon/25/", copied)
	assert.Contains(t, m.View(), "Copied https://pokeapi.co/api/v2/pokemon/25/")

	failing, _ := newTestDetail(t, 25, DetailOptions{
		EntryURL: func(int) string { return "x" },
		Copy:     func(string) error { return errors.New("no clipboard") },
	})
	pump(failing, keyRunes("y"))
	assert.Contains(t, failing.View(), "Copy failed: no clipboard")
}

func TestDetailModel_Close(t *testing.T) {
	m, _ := newTestDetail(t, 25, DetailOptions{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, detailClosedMsg{}, msgs[0])

	_, cmd = m.Update(keyRunes("q"))
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.NotNil(t, cmd)
}
