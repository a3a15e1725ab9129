package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pokedex/internal/catalog"
)

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
	minHeight     = 5
	headerHeight  = 4
	footerHeight  = 2
	borderPadding = 2
)

// Shared styles.
//
//nolint:gochecknoglobals // Styles are immutable after initialization.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	CriticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("245"))

	ActiveTabStyle = TabStyle.
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Underline(true)
)

// fallbackTypeColor is used for unknown types.
const fallbackTypeColor = "#777777"

//nolint:gochecknoglobals // Palette lookup.
var typeColors = map[string]string{
	"normal":   "#A8A77A",
	"fire":     "#EE8130",
	"water":    "#6390F0",
	"electric": "#F7D02C",
	"grass":    "#7AC74C",
	"ice":      "#96D9D6",
	"fighting": "#C22E28",
	"poison":   "#A33EA1",
	"ground":   "#E2BF65",
	"flying":   "#A98FF3",
	"psychic":  "#F95587",
	"bug":      "#A6B91A",
	"rock":     "#B6A136",
	"ghost":    "#735797",
	"dragon":   "#6F35FC",
	"dark":     "#705746",
	"steel":    "#B7B7CE",
	"fairy":    "#D685AD",
}

// TypeColor returns the palette colour of an elemental type.
func TypeColor(name string) lipgloss.Color {
	if c, ok := typeColors[strings.ToLower(name)]; ok {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(fallbackTypeColor)
}

// TitleStyle is HeaderStyle on the colour of the entry's primary type.
func TitleStyle(d *catalog.EntryDetail) lipgloss.Style {
	if t := d.PrimaryType(); t != "" {
		return HeaderStyle.Background(TypeColor(t))
	}
	return HeaderStyle
}

// TypeBadge renders a type name on its palette colour.
func TypeBadge(name string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(TypeColor(name)).
		Padding(0, 1).
		Render(strings.ToUpper(name))
}

// TypeBadges renders several badges separated by a space.
func TypeBadges(types []string) string {
	badges := make([]string, 0, len(types))
	for _, t := range types {
		badges = append(badges, TypeBadge(t))
	}
	return strings.Join(badges, " ")
}
