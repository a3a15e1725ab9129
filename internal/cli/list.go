package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedex/internal/catalog"
	"github.com/rshade/pokedex/internal/listctl"
	"github.com/rshade/pokedex/internal/prefetch"
)

// ListFlags holds the flags of the list command.
type ListFlags struct {
	Pages  int
	Cursor string
	Types  bool
}

// NewListCmd creates the list command, which pages through the catalog.
func NewListCmd() *cobra.Command {
	var flags ListFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries page by page",
		Long: `Lists catalog entries in identifier order, one service page at a time.

Only canonical entries are listed; the total is capped at the configured
ceiling. Use --cursor with the "next" URL of a previous run to continue.`,
		Example: `  # First page
  pokedex list

  # First three pages with elemental types
  pokedex list --pages 3 --types

  # Continue from a cursor, as NDJSON
  pokedex list --cursor "https://pokeapi.co/api/v2/pokemon?offset=20&limit=20" -o ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.Pages, "pages", 1, "number of pages to load")
	cmd.Flags().StringVar(&flags.Cursor, "cursor", "", "page URL to start from")
	cmd.Flags().BoolVar(&flags.Types, "types", false, "resolve elemental types for each entry")

	return cmd
}

func runList(cmd *cobra.Command, flags ListFlags) error {
	if flags.Pages < 1 {
		return fmt.Errorf("pages must be >= 1, got %d", flags.Pages)
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

	var res listResult
	if flags.Cursor != "" {
		res, err = listFromCursor(ctx, svc, flags)
	} else {
		res, err = listFromStart(ctx, ctl, flags.Pages)
	}
	if err != nil {
		return err
	}

	if flags.Types {
		refs := make([]catalog.EntryRef, 0, len(res.Entries))
		for _, e := range res.Entries {
			refs = append(refs, catalog.EntryRef{Name: e.Name, URL: e.URL})
		}
		if typeErr := resolveTypes(ctx, svc, ctl, refs); typeErr != nil {
			return typeErr
		}
		res.Entries = newEntryRows(refs, ctl.Attributes)

		stats := svc.loader.Stats()
		svc.log.Debug().
			Ctx(ctx).
			Int64("cache_hits", stats.Hits).
			Int64("fetches", stats.Fetches).
			Int64("shared", stats.Shared).
			Int("cached", stats.Cached).
			Msg("type resolution finished")
	}

	return renderList(cmd.OutOrStdout(), format, outputMode(cmd), res)
}

// listFromStart loads the first page and pages more through the controller.
func listFromStart(ctx context.Context, ctl *listctl.Controller, pages int) (listResult, error) {
	if err := ctl.LoadInitial(ctx); err != nil {
		if st := ctl.State(); st.Error != "" {
			return listResult{}, fmt.Errorf("%s: %w", st.Error, err)
		}
		return listResult{}, err
	}

	for i := 1; i < pages; i++ {
		if ctl.State().Cursor == "" {
			break
		}
		if !ctl.LoadMore(ctx) {
			logger.Warn().Ctx(ctx).Int("page", i+1).Msg("stopped paging early")
			break
		}
	}

	st := ctl.State()
	return listResult{
		Total:   st.Total,
		Next:    st.Cursor,
		Entries: newEntryRows(st.Accumulated, nil),
	}, nil
}

// listFromCursor follows explicit cursors without controller state.
func listFromCursor(ctx context.Context, svc *services, flags ListFlags) (listResult, error) {
	res := listResult{Entries: []entryRow{}}
	cursor := flags.Cursor
	for i := 0; i < flags.Pages && cursor != ""; i++ {
		page, err := svc.client.FetchPage(ctx, cursor)
		if err != nil {
			return listResult{}, fmt.Errorf("%s: %w", listctl.LoadFailedMessage, err)
		}
		res.Total = page.Count
		res.Entries = append(res.Entries, newEntryRows(page.Results, nil)...)
		cursor = page.Next
	}
	res.Next = cursor
	return res, nil
}

// resolveTypes prefetches details of refs into ctl.
func resolveTypes(ctx context.Context, svc *services, ctl *listctl.Controller, refs []catalog.EntryRef) error {
	pf, err := svc.newPrefetcher(ctl, prefetch.WithProgress(func(s prefetch.Snapshot) {
		logger.Debug().Ctx(ctx).
			Int("done", s.Done()).
			Int("total", s.Total).
			Float64("percent", s.PercentComplete).
			Msg("resolving types")
	}))
	if err != nil {
		return err
	}

	snap, err := pf.Run(ctx, refs)
	if err != nil {
		return fmt.Errorf("resolving types: %w", err)
	}
	if snap.Failed > 0 {
		logger.Warn().Ctx(ctx).Int("failed", snap.Failed).Msg("some types could not be resolved")
	}
	return nil
}
