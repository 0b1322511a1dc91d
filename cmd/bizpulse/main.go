package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "v1.0.0"

var configPath string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "bizpulse",
		Short:   "Business financial health insights from your terminal",
		Version: version,
		Long: `BizPulse aggregates backend financial-health snapshots into a single
0-100 business health score, manages the lifecycle of generated insights
and orchestrates asynchronous insight generation.

Run 'bizpulse' in a terminal for the interactive menu; subcommands are
automation shims for non-interactive use.`,
		RunE: runDefaultEntry,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newDashboardCmd(),
		newInsightsCmd(),
		newGenerateCmd(),
		newHealthScoreCmd(),
		newServeCmd(),
		newProviderCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// runDefaultEntry routes to the interactive menu on a TTY and to help
// otherwise, so piped invocations never block on input.
func runDefaultEntry(cmd *cobra.Command, args []string) error {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		app, err := newApp()
		if err != nil {
			return err
		}
		return runMenu(cmd.Context(), app)
	}
	return cmd.Help()
}

// applyLogLevel maps the configured level onto the global zerolog filter.
func applyLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
