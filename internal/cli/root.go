package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/pokedex/internal/config"
	"github.com/rshade/pokedex/internal/logging"
)

// Command annotations read by the root pre-run hook.
const (
	// annotationDefaultConfig skips loading the config file, so that a broken
	// file can be replaced.
	annotationDefaultConfig = "pokedex.default-config"
	// annotationInteractive marks commands that own the terminal; their logs
	// never go to stderr.
	annotationInteractive = "pokedex.interactive"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the pokedex CLI. It loads
// configuration, wires logging and tracing, and registers subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:           "pokedex",
		Short:         "Browse the Pokémon catalog",
		Long:          "pokedex: list, search and inspect catalog entries from the terminal",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $POKEDEX_HOME/config.yaml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, ndjson, yaml")
	cmd.PersistentFlags().Bool("no-color", false, "disable styled output")
	cmd.AddCommand(
		NewListCmd(), NewSearchCmd(), NewShowCmd(), NewBrowseCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # List the first two pages of the catalog with types
  pokedex list --pages 2 --types

  # Search by name or number
  pokedex search pika
  pokedex search 25

  # Electric entries whose names contain "chu", as JSON
  pokedex search chu --type electric -o json

  # Show one entry
  pokedex show pikachu

  # Browse interactively
  pokedex browse

  # Initialize configuration
  pokedex config init`

// loadConfig reads .env, the config file and POKEDEX_* variables into the
// global configuration.
func loadConfig(cmd *cobra.Command) error {
	config.LoadDotEnv()

	if cmd.Annotations[annotationDefaultConfig] != "" {
		cfg := config.New()
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		config.SetGlobalConfig(cfg)
		return nil
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
