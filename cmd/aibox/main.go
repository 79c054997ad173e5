package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "aibox"
	version = "v2.0.0"
)

var (
	flagConfig  string
	flagVerbose bool
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Multi-factor stock and crypto scoring engine",
		Version: version,
		Long: `aibox scores tickers 0-100 from technical indicators with
fundamental penalties, guard caps for crash regimes, and a signed
session layer for the HTTP API.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <ticker>",
		Short: "Score a single ticker",
		Long:  "Run the full indicator, guard, and fundamentals pipeline for one ticker and print the result as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().String("period", "6mo", "History period (1mo|3mo|6mo|1y|2y|max)")
	analyzeCmd.Flags().String("strategy", "mean_reversion", "Scoring strategy (mean_reversion|trend)")
	analyzeCmd.Flags().Bool("fundamentals", false, "Apply fundamental penalties")

	scanCmd := &cobra.Command{
		Use:   "scan <ticker>...",
		Short: "Score many tickers concurrently",
		Long:  "Run the analysis pipeline over a ticker list with a bounded worker pool, printing results best-first.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScan,
	}
	scanCmd.Flags().String("period", "6mo", "History period (1mo|3mo|6mo|1y|2y|max)")
	scanCmd.Flags().String("strategy", "mean_reversion", "Scoring strategy (mean_reversion|trend)")
	scanCmd.Flags().Bool("fundamentals", false, "Apply fundamental penalties")
	scanCmd.Flags().Int("workers", 0, "Worker pool size (0 uses config)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serve the analyze and session endpoints until interrupted, then drain in-flight requests.",
		RunE:  runServe,
	}

	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Session store maintenance",
	}
	sessionCmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove expired sessions from the store",
		RunE:  runSessionPurge,
	})

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User registry maintenance",
	}
	userCmd.AddCommand(&cobra.Command{
		Use:   "add <user_id>",
		Short: "Register a user, prompting for a password",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserAdd,
	})

	rootCmd.AddCommand(analyzeCmd, scanCmd, serveCmd, sessionCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
