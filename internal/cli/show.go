package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedex/internal/catalog"
)

// NewShowCmd creates the show command, which prints one entry.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show one entry's details, description and stats",
		Example: `  pokedex show 25
  pokedex show pikachu -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, key string) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}

	svc, err := loadServices()
	if err != nil {
		return err
	}
	policy := svc.client.Policy()

	if id, convErr := strconv.Atoi(key); convErr == nil && !policy.IsCanonical(id) {
		return fmt.Errorf("entry %d is outside 1..%d", id, policy.Ceiling)
	}

	ctx := cmd.Context()
	profile, err := svc.loader.Profile(ctx, key)
	if err != nil {
		if catalog.IsNotFound(err) {
			msg := fmt.Sprintf("entry %q not found", key)
			if suggestions := svc.client.Suggest(ctx, key, defaultSuggestions); len(suggestions) > 0 {
				msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(suggestions, ", "))
			}
			return fmt.Errorf("%s: %w", msg, catalog.ErrNotFound)
		}
		if catalog.IsTransport(err) {
			return fmt.Errorf("catalog unavailable while loading entry %q: %w", key, err)
		}
		return fmt.Errorf("loading entry %q: %w", key, err)
	}
	if !policy.IsCanonical(profile.Detail.ID) {
		return fmt.Errorf("entry %q (%s) is outside 1..%d", key,
			catalog.FormatNumber(profile.Detail.ID), policy.Ceiling)
	}

	return renderProfile(cmd.OutOrStdout(), format, outputMode(cmd), profile,
		svc.cfg.Catalog.Language, svc.client.EntryURL(profile.Detail.ID))
}
