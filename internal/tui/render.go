package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pokedex/internal/catalog"
)

// EntryRow is one line of a styled listing.
type EntryRow struct {
	ID    int
	Name  string
	Types []string
}

// RenderEntries renders rows as styled text for non-interactive output.
func RenderEntries(rows []EntryRow, total int, width int) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Pokédex"))
	b.WriteString(" ")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s of %s entries", formatCount(len(rows)), formatCount(total))))
	b.WriteString("\n")

	nameWidth := min(nameColumnWidth, max(width-borderPadding-len("#0000 "), minHeight))
	for _, r := range rows {
		name := truncate(catalog.DisplayName(r.Name), nameWidth)
		line := fmt.Sprintf("%s %-*s", LabelStyle.Render(fmt.Sprintf("%-6s", catalog.FormatNumber(r.ID))), nameWidth, name)
		if len(r.Types) > 0 {
			line += " " + TypeBadges(r.Types)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderProfile renders both detail panes of p as styled text.
func RenderProfile(p *catalog.Profile, language string, width int) string {
	if p == nil || p.Detail == nil {
		return ""
	}
	m := NewDetailModel(context.Background(), nil, p.Detail.ID, DetailOptions{
		Policy:   catalog.Policy{Ceiling: max(p.Detail.ID, 1)},
		Language: language,
		Copy:     func(string) error { return nil },
	})
	m.profile = p
	m.state = ViewStateDetail
	m.width = width

	d := p.Detail
	boxWidth := max(width-borderPadding, statBarWidth)
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(fmt.Sprintf("%s %s", catalog.FormatNumber(d.ID), catalog.DisplayName(d.Name))),
		TypeBadges(d.Types),
		BoxStyle.Width(boxWidth).Render(m.renderAbout(d)),
		BoxStyle.Width(boxWidth).Render(m.renderStats(d)),
	) + "\n"
}
