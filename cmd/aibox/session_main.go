package main

import (
	"github.com/spf13/cobra"

	"github.com/aiboxlab/aibox/internal/metrics"
)

func runSessionPurge(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	removed, err := a.sessions.PurgeExpired()
	if err != nil {
		return err
	}
	metrics.SessionsPurged.Add(float64(removed))
	a.log.Info().Int("removed", removed).Msg("expired sessions purged")
	return nil
}
