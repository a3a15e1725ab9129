package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/pokedex/internal/catalog"
	"github.com/rshade/pokedex/internal/cli/pagination"
	"github.com/rshade/pokedex/internal/config"
	"github.com/rshade/pokedex/internal/tui"
)

// Output formats.
const (
	formatTable  = "table"
	formatJSON   = "json"
	formatNDJSON = "ndjson"
	formatYAML   = "yaml"
)

const tabPadding = 2

// entryRow is one catalog entry in command output.
type entryRow struct {
	ID    int      `json:"id"              yaml:"id"`
	Name  string   `json:"name"            yaml:"name"`
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`
	URL   string   `json:"url"             yaml:"url"`
}

// listResult is the output of list and search.
type listResult struct {
	Total       int              `json:"total"                 yaml:"total"`
	Next        string           `json:"next,omitempty"        yaml:"next,omitempty"`
	Query       string           `json:"query,omitempty"       yaml:"query,omitempty"`
	Type        string           `json:"type,omitempty"        yaml:"type,omitempty"`
	Entries     []entryRow       `json:"entries"               yaml:"entries"`
	Pagination  *pagination.Meta `json:"pagination,omitempty"  yaml:"pagination,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

type abilityRow struct {
	Name   string `json:"name"   yaml:"name"`
	Hidden bool   `json:"hidden" yaml:"hidden"`
}

type statRow struct {
	Name string `json:"name" yaml:"name"`
	Base int    `json:"base" yaml:"base"`
}

// profileResult is the output of show.
type profileResult struct {
	ID          int          `json:"id"                yaml:"id"`
	Name        string       `json:"name"              yaml:"name"`
	Genus       string       `json:"genus,omitempty"   yaml:"genus,omitempty"`
	Description string       `json:"description"       yaml:"description"`
	HeightM     float64      `json:"height_m"          yaml:"height_m"`
	WeightKg    float64      `json:"weight_kg"         yaml:"weight_kg"`
	Types       []string     `json:"types"             yaml:"types"`
	Abilities   []abilityRow `json:"abilities"         yaml:"abilities"`
	Stats       []statRow    `json:"stats"             yaml:"stats"`
	Artwork     string       `json:"artwork,omitempty" yaml:"artwork,omitempty"`
	URL         string       `json:"url"               yaml:"url"`
}

// resolveFormat returns the validated output format from the --output flag
// or the configured default.
func resolveFormat(cmd *cobra.Command) (string, error) {
	flagValue, _ := cmd.Flags().GetString("output")
	format := strings.ToLower(config.GetOutputFormat(flagValue))
	if !config.IsValidOutputFormat(format) {
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
	return format, nil
}

// outputMode reports how table output is rendered. Non-interactive commands
// never go beyond styled.
func outputMode(cmd *cobra.Command) tui.OutputMode {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return tui.DetectOutputMode(noColor, false, true)
}

func newEntryRows(refs []catalog.EntryRef, attrs func(string) (catalog.Attributes, bool)) []entryRow {
	rows := make([]entryRow, 0, len(refs))
	for _, ref := range refs {
		row := entryRow{ID: ref.ID(), Name: ref.Name, URL: ref.URL}
		if attrs != nil {
			if a, ok := attrs(ref.Name); ok {
				row.Types = a.Types
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func newProfileResult(p *catalog.Profile, language, url string) profileResult {
	d := p.Detail
	out := profileResult{
		ID:          d.ID,
		Name:        d.Name,
		Description: p.Narrative.Description(language),
		HeightM:     d.HeightMeters(),
		WeightKg:    d.WeightKilograms(),
		Types:       d.Types,
		Abilities:   make([]abilityRow, 0, len(d.Abilities)),
		Stats:       make([]statRow, 0, len(d.Stats)),
		Artwork:     d.ArtworkURL(),
		URL:         url,
	}
	if p.Narrative != nil {
		out.Genus = p.Narrative.Genus
	}
	for _, a := range d.Abilities {
		out.Abilities = append(out.Abilities, abilityRow(a))
	}
	for _, s := range d.Stats {
		out.Stats = append(out.Stats, statRow(s))
	}
	return out
}

// renderList writes res in format.
func renderList(w io.Writer, format string, mode tui.OutputMode, res listResult) error {
	switch format {
	case formatJSON:
		return writeJSON(w, res)
	case formatNDJSON:
		enc := json.NewEncoder(w)
		for _, row := range res.Entries {
			if err := enc.Encode(row); err != nil {
				return fmt.Errorf("encoding entry: %w", err)
			}
		}
		return nil
	case formatYAML:
		return writeYAML(w, res)
	}

	if mode == tui.OutputModeStyled {
		rows := make([]tui.EntryRow, 0, len(res.Entries))
		for _, e := range res.Entries {
			rows = append(rows, tui.EntryRow{ID: e.ID, Name: e.Name, Types: e.Types})
		}
		fmt.Fprint(w, tui.RenderEntries(rows, res.Total, tui.TerminalWidth()))
	} else {
		if err := writeEntryTable(w, res); err != nil {
			return err
		}
	}
	writeListFooter(w, res)
	return nil
}

func writeEntryTable(w io.Writer, res listResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPES")
	for _, e := range res.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.ID, e.Name, strings.Join(e.Types, ","))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

func writeListFooter(w io.Writer, res listResult) {
	switch {
	case len(res.Entries) == 0 && res.Query != "":
		fmt.Fprintf(w, "No entries found for %q\n", res.Query)
	case res.Pagination != nil && res.Pagination.TotalPages > 1:
		fmt.Fprintf(w, "\nPage %d of %d (%d results)\n",
			res.Pagination.CurrentPage, res.Pagination.TotalPages, res.Pagination.TotalItems)
	case res.Next != "":
		fmt.Fprintf(w, "\nShowing %d of %d entries. Next page: --cursor %q\n", len(res.Entries), res.Total, res.Next)
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(res.Suggestions, ", "))
	}
}

// renderProfile writes one entry profile in format.
func renderProfile(w io.Writer, format string, mode tui.OutputMode, p *catalog.Profile, language, url string) error {
	res := newProfileResult(p, language, url)
	switch format {
	case formatJSON:
		return writeJSON(w, res)
	case formatNDJSON:
		if err := json.NewEncoder(w).Encode(res); err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
		return nil
	case formatYAML:
		return writeYAML(w, res)
	}

	if mode == tui.OutputModeStyled {
		fmt.Fprint(w, tui.RenderProfile(p, language, tui.TerminalWidth()))
		return nil
	}
	return writeProfileTable(w, res)
}

func writeProfileTable(w io.Writer, res profileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Number:\t%s\n", catalog.FormatNumber(res.ID))
	fmt.Fprintf(tw, "Name:\t%s\n", catalog.DisplayName(res.Name))
	if res.Genus != "" {
		fmt.Fprintf(tw, "Genus:\t%s\n", res.Genus)
	}
	fmt.Fprintf(tw, "Types:\t%s\n", strings.Join(res.Types, ", "))
	fmt.Fprintf(tw, "Height:\t%.1f m\n", res.HeightM)
	fmt.Fprintf(tw, "Weight:\t%.1f kg\n", res.WeightKg)

	abilities := make([]string, 0, len(res.Abilities))
	for _, a := range res.Abilities {
		name := catalog.DisplayName(a.Name)
		if a.Hidden {
			name += " (hidden)"
		}
		abilities = append(abilities, name)
	}
	fmt.Fprintf(tw, "Abilities:\t%s\n", strings.Join(abilities, ", "))
	fmt.Fprintf(tw, "Description:\t%s\n", res.Description)
	fmt.Fprintln(tw)

	total := 0
	for _, s := range res.Stats {
		total += s.Base
		fmt.Fprintf(tw, "%s\t%d\n", catalog.StatLabel(s.Name), s.Base)
	}
	fmt.Fprintf(tw, "Total\t%d\n", total)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd // conventional YAML indent
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
