package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedex/internal/config"
	"github.com/rshade/pokedex/internal/logging"
	"github.com/rshade/pokedex/pkg/version"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command) logging.Result {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
	}

	logCfg := loggingCfg.ToLoggingConfig()
	if cmd.Annotations[annotationInteractive] != "" && logCfg.Output == logging.OutputStderr {
		// The TUI owns the terminal. Debug logs go to the default file.
		logCfg.Output = logging.OutputDiscard
		if debug {
			if path, err := config.DefaultLogPath(); err == nil {
				logCfg.Output = logging.OutputFile
				logCfg.File = path
				logCfg.Format = logging.FormatJSON
			}
		}
	} else if debug {
		logCfg.Output = logging.OutputStderr
		logCfg.File = ""
	}

	result := logging.NewLogger(logCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	traceID := logging.GetOrGenerateTraceID(cmd.Context())
	ctx := logging.ContextWithTraceID(cmd.Context(), traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().
		Ctx(ctx).
		Str("command", cmd.Name()).
		Str("trace_id", traceID).
		Str("version", version.GetVersion()).
		Bool("prerelease", version.IsPrerelease()).
		Msg("command started")

	return result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(_ *cobra.Command, logResult *logging.Result) error {
	if logResult == nil {
		return nil
	}
	if err := logResult.Close(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: closing log file: %v\n", err)
	}
	return nil
}
