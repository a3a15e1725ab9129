package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedex/internal/catalog"
	"github.com/rshade/pokedex/internal/cli/pagination"
)

// defaultSuggestions is the number of "did you mean" names offered.
const defaultSuggestions = 3

// SearchFlags holds the flags of the search command.
type SearchFlags struct {
	Type        string
	Sort        string
	Suggestions int
	Types       bool
	Pagination  pagination.Params
}

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var flags SearchFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search entries by name or number",
		Long: `Searches the whole catalog. A numeric query matches the entry with that
number; any other query matches names containing it, case-insensitively.

--type restricts results to one elemental type; with no query it lists every
entry of that type. When nothing matches, close names are suggested.`,
		Example: `  # Names containing "chu"
  pokedex search chu

  # Entry number 25
  pokedex search 25

  # All fire entries, second page of 10, sorted by name
  pokedex search --type fire --page 2 --page-size 10 --sort name`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runSearch(cmd, query, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Type, "type", "", "only entries of this elemental type")
	cmd.Flags().StringVar(&flags.Sort, "sort", "", "sort by field: id or name, optionally :asc or :desc")
	cmd.Flags().IntVar(&flags.Suggestions, "suggestions", defaultSuggestions, "names to suggest when nothing matches")
	cmd.Flags().BoolVar(&flags.Types, "types", false, "resolve elemental types for each result")
	cmd.Flags().IntVar(&flags.Pagination.Limit, "limit", 0, "maximum results (0 = all)")
	cmd.Flags().IntVar(&flags.Pagination.Offset, "offset", 0, "results to skip")
	cmd.Flags().IntVar(&flags.Pagination.Page, "page", 0, "page number (requires --page-size)")
	cmd.Flags().IntVar(&flags.Pagination.PageSize, "page-size", 0, "results per page")

	return cmd
}

//nolint:gocognit // Filtering, sorting and pagination are applied in sequence.
func runSearch(cmd *cobra.Command, query string, flags SearchFlags) error {
	query = strings.TrimSpace(query)
	typeName := strings.ToLower(strings.TrimSpace(flags.Type))
	if query == "" && typeName == "" {
		return errors.New("a query or --type is required")
	}
	if typeName != "" && !catalog.IsKnownType(typeName) {
		return fmt.Errorf("unknown type %q (valid: %s)", typeName, strings.Join(catalog.AllTypes, ", "))
	}
	if err := flags.Pagination.Validate(); err != nil {
		return err
	}
	sorter := pagination.NewEntrySorter()
	field, order, err := pagination.ParseSort(flags.Sort)
	if err != nil {
		return err
	}
	if checkErr := sorter.Check(field); checkErr != nil {
		return checkErr
	}
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := loadServices()
	if err != nil {
		return err
	}
	ctl := svc.newController()

	var results []catalog.EntryRef
	if query != "" {
		ctl.Search(ctx, query)
		results = ctl.State().Filtered
	}
	if typeName != "" {
		members, typeErr := svc.client.FetchTypeMembers(ctx, typeName)
		if typeErr != nil {
			return fmt.Errorf("fetching %s entries: %w", typeName, typeErr)
		}
		if query == "" {
			results = members
		} else {
			results = intersectByName(results, members)
		}
	}

	results = sorter.Sort(results, field, order)
	total := len(results)
	page := pagination.Apply(flags.Pagination, results)

	if flags.Types {
		if typeErr := resolveTypes(ctx, svc, ctl, page); typeErr != nil {
			return typeErr
		}
	}

	res := listResult{
		Total:   total,
		Query:   query,
		Type:    typeName,
		Entries: newEntryRows(page, ctl.Attributes),
	}
	if flags.Pagination.IsEnabled() {
		meta := pagination.NewMeta(flags.Pagination, total)
		res.Pagination = &meta
	}
	if total == 0 && query != "" && flags.Suggestions > 0 {
		res.Suggestions = svc.client.Suggest(ctx, query, flags.Suggestions)
	}

	logger.Debug().Ctx(ctx).Str("query", query).Str("type", typeName).Int("matches", total).Msg("search finished")
	return renderList(cmd.OutOrStdout(), format, outputMode(cmd), res)
}

// intersectByName keeps the entries of a that also appear in b, in a's order.
func intersectByName(a, b []catalog.EntryRef) []catalog.EntryRef {
	names := make(map[string]struct{}, len(b))
	for _, e := range b {
		names[e.Name] = struct{}{}
	}
	out := make([]catalog.EntryRef, 0, len(a))
	for _, e := range a {
		if _, ok := names[e.Name]; ok {
			out = append(out, e)
		}
	}
	return out
}
