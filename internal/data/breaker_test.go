package data

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerPassesThroughHealthySource(t *testing.T) {
	next := &countingSource{series: bars(12)}
	b := NewBreakerSource(next, DefaultBreakerConfig("test"), zerolog.Nop())

	series, err := b.History(context.Background(), "AAPL", "6mo", false)
	require.NoError(t, err)
	assert.Len(t, series, 12)

	q, err := b.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 42.0, q)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingSource{err: errors.New("provider down")}
	cfg := DefaultBreakerConfig("test")
	cfg.ConsecutiveFailures = 3
	b := NewBreakerSource(next, cfg, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := b.History(context.Background(), "AAPL", "6mo", false)
		require.Error(t, err)
	}
	callsBeforeOpen := next.calls

	// Open breaker short-circuits without touching the source.
	_, err := b.History(context.Background(), "AAPL", "6mo", false)
	assert.Error(t, err)
	assert.Equal(t, callsBeforeOpen, next.calls)
}
