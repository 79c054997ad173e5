package main

import (
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aiboxlab/aibox/internal/analyzer"
	"github.com/aiboxlab/aibox/internal/auth"
	"github.com/aiboxlab/aibox/internal/config"
	"github.com/aiboxlab/aibox/internal/data"
	"github.com/aiboxlab/aibox/internal/domain/fundamentals"
	"github.com/aiboxlab/aibox/internal/domain/indicators"
	"github.com/aiboxlab/aibox/internal/session"
)

// app holds the wired object graph shared by every subcommand.
type app struct {
	cfg      config.Config
	analyzer *analyzer.Analyzer
	sessions *session.Manager
	users    *auth.FileVerifier
	log      zerolog.Logger
}

// buildApp loads the config and assembles the pipeline: CSV source,
// optional Redis history cache, circuit breaker, fetcher, indicator
// engine, analyzer, and the session manager.
func buildApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	logger := log.Logger

	var source data.Source = data.NewCSVSource(cfg.Data.CandleDir)
	if cfg.Data.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Data.RedisAddr})
		source = data.NewCachedSource(source, rdb, cfg.Data.CacheTTL.Std(), logger)
	}
	breakerCfg := data.DefaultBreakerConfig("market-data")
	if cfg.Data.BreakerTrips > 0 {
		breakerCfg.ConsecutiveFailures = cfg.Data.BreakerTrips
	}
	source = data.NewBreakerSource(source, breakerCfg, logger)

	fetcher := data.NewFetcher(source, cfg.Data.MinRows, logger)
	engine := indicators.NewEngine(indicators.TalibProvider{}, logger)
	funds := fundamentals.NewFileProvider(cfg.Data.FundamentalsDir)

	users := auth.NewFileVerifier(cfg.Session.UserFile)
	store := session.NewFileStore(cfg.Session.File, logger)
	sessions := session.NewManager(store, users, cfg.ResolveSecret(), cfg.Session.TTL(), logger)

	return &app{
		cfg:      cfg,
		analyzer: analyzer.New(fetcher, engine, funds, logger),
		sessions: sessions,
		users:    users,
		log:      logger,
	}, nil
}
