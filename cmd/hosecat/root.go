package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootFlags carries the flags shared by every subcommand.
type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "hosecat",
		Short:         "Tail and manage a hose streaming endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "hosecat.yaml", "path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newStreamCommand(flags),
		newRulesCommand(flags),
		newSearchCommand(flags),
		newUsageCommand(flags),
	)

	return cmd
}

// newLogger builds the CLI logger writing to stderr, keeping stdout
// free for stream output.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
