package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedex/internal/config"
)

// NewConfigInitCmd creates the config init command, which writes defaults.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates $POKEDEX_HOME/config.yaml (default ~/.pokedex/config.yaml) with
default values. An explicit --config path is written instead when given.`,
		Example: `  # Create configuration
  pokedex config init

  # Overwrite an existing configuration
  pokedex config init --force`,
		Annotations: map[string]string{annotationDefaultConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configPath(cmd)
			if err != nil {
				return err
			}

			if !force {
				if _, statErr := os.Stat(path); statErr == nil {
					answer := ConfirmOverwrite(cmd.OutOrStdout(), cmd.InOrStdin(), path, isTerminal(os.Stdin))
					if !answer.Accepted {
						return errors.New("configuration file already exists, use --force to overwrite")
					}
				} else if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", path, statErr)
				}
			}

			if saveErr := config.New().Save(path); saveErr != nil {
				return fmt.Errorf("failed to save configuration: %w", saveErr)
			}

			cmd.Printf("Configuration initialized successfully\n")
			cmd.Printf("Configuration file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

// configPath returns the --config path or the default location.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}
