package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pokedex/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Print the effective configuration",
		Example: `  pokedex config show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flagValue, _ := cmd.Flags().GetString("output")
			if flagValue == formatJSON {
				return writeJSON(cmd.OutOrStdout(), config.GetGlobalConfig())
			}
			return writeYAML(cmd.OutOrStdout(), config.GetGlobalConfig())
		},
	}
}
