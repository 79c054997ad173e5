package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aiboxlab/aibox/internal/analyzer"
	"github.com/aiboxlab/aibox/internal/domain/scoring"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	opts, err := analyzeOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := a.analyzer.Analyze(ctx, strings.ToUpper(args[0]), opts)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func analyzeOptions(cmd *cobra.Command) (analyzer.Options, error) {
	period, err := cmd.Flags().GetString("period")
	if err != nil {
		return analyzer.Options{}, err
	}
	strategy, err := cmd.Flags().GetString("strategy")
	if err != nil {
		return analyzer.Options{}, err
	}
	funds, err := cmd.Flags().GetBool("fundamentals")
	if err != nil {
		return analyzer.Options{}, err
	}
	return analyzer.Options{
		Period:            period,
		Strategy:          scoring.Strategy(strategy),
		ApplyFundamentals: funds,
	}, nil
}
