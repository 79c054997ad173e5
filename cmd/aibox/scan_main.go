package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/aiboxlab/aibox/internal/scan"
)

func runScan(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	opts, err := analyzeOptions(cmd)
	if err != nil {
		return err
	}
	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = a.cfg.Scan.Workers
	}

	tickers := make([]string, 0, len(args))
	for _, t := range args {
		tickers = append(tickers, strings.ToUpper(t))
	}

	limiter := rate.NewLimiter(rate.Limit(a.cfg.Scan.RatePerSecond), 1)
	scanner := scan.New(a.analyzer, workers, limiter, a.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := scanner.Scan(ctx, tickers, opts)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
