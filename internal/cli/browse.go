package cli

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedex/internal/tui"
)

// NewBrowseCmd creates the browse command, which runs the interactive list.
func NewBrowseCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Opens a scrolling list of entries with a search box. Scrolling to the end
loads the next page; enter opens an entry's details.

Keys: / search, enter details, r refresh, esc clear or back, q quit.
In details: tab switch pane, n/p adjacent entry, y copy URL.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("browse requires an interactive terminal; use list or search instead")
			}

			svc, err := loadServices()
			if err != nil {
				return err
			}
			ctl := svc.newController()
			pf, err := svc.newPrefetcher(ctl)
			if err != nil {
				return err
			}

			return tui.RunBrowser(cmd.Context(), tui.BrowserDeps{
				Controller: ctl,
				Loader:     svc.loader,
				Prefetcher: pf,
				Detail: tui.DetailOptions{
					Policy:   svc.client.Policy(),
					Language: svc.cfg.Catalog.Language,
					EntryURL: svc.client.EntryURL,
				},
				SearchDebounce: debounce,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "delay before searching while typing (default 250ms)")
	return cmd
}
