package data

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// BreakerSource wraps a Source with a circuit breaker so a flapping
// upstream provider fails fast instead of stalling every analysis.
// Quote calls share the history breaker: both hit the same provider.
type BreakerSource struct {
	next    Source
	breaker *gobreaker.CircuitBreaker
}

// BreakerConfig tunes the provider circuit breaker.
type BreakerConfig struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

func NewBreakerSource(next Source, cfg BreakerConfig, log zerolog.Logger) *BreakerSource {
	blog := log.With().Str("component", "breaker").Str("provider", cfg.Name).Logger()
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			blog.Warn().Str("from", from.String()).Str("to", to.String()).Msg("breaker state change")
		},
	}
	return &BreakerSource{next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerSource) History(ctx context.Context, ticker, period string, autoAdjust bool) (Series, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.History(ctx, ticker, period, autoAdjust)
	})
	if err != nil {
		return nil, err
	}
	return out.(Series), nil
}

func (b *BreakerSource) Quote(ctx context.Context, ticker string) (float64, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Quote(ctx, ticker)
	})
	if err != nil {
		return 0, err
	}
	return out.(float64), nil
}
