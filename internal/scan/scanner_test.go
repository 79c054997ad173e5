package scan

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/aiboxlab/aibox/internal/analyzer"
)

type stubAnalyzer struct {
	scores map[string]float64 // missing ticker means failure
	calls  int64
	delay  time.Duration
}

func (s *stubAnalyzer) Analyze(ctx context.Context, ticker string, opts analyzer.Options) analyzer.Result {
	atomic.AddInt64(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	score, ok := s.scores[ticker]
	if !ok {
		return analyzer.Result{
			Ticker:    ticker,
			ErrorMsg:  "no data for " + ticker,
			ErrorType: analyzer.ErrorTypeDataFetch,
		}
	}
	return analyzer.Result{Ticker: ticker, Success: true, Score: score}
}

func TestScanOrdersByScoreWithFailuresLast(t *testing.T) {
	stub := &stubAnalyzer{scores: map[string]float64{
		"AAA": 42.5,
		"BBB": 88.0,
		"CCC": 61.2,
	}}
	s := New(stub, 3, nil, zerolog.Nop())

	results := s.Scan(context.Background(), []string{"AAA", "BAD1", "BBB", "CCC", "BAD2"}, analyzer.Options{})
	require.Len(t, results, 5)

	assert.Equal(t, "BBB", results[0].Ticker)
	assert.Equal(t, "CCC", results[1].Ticker)
	assert.Equal(t, "AAA", results[2].Ticker)
	assert.False(t, results[3].Success)
	assert.False(t, results[4].Success)
}

func TestScanVisitsEveryTicker(t *testing.T) {
	stub := &stubAnalyzer{scores: map[string]float64{"AAA": 1}}
	s := New(stub, 2, nil, zerolog.Nop())

	tickers := []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"}
	results := s.Scan(context.Background(), tickers, analyzer.Options{})
	assert.Len(t, results, len(tickers))
	assert.Equal(t, int64(len(tickers)), atomic.LoadInt64(&stub.calls))
}

func TestScanDefaultWorkerCount(t *testing.T) {
	s := New(&stubAnalyzer{}, 0, nil, zerolog.Nop())
	assert.Equal(t, DefaultWorkers, s.workers)
}

func TestScanCancellationStopsScheduling(t *testing.T) {
	stub := &stubAnalyzer{scores: map[string]float64{}, delay: 20 * time.Millisecond}
	s := New(stub, 1, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	tickers := make([]string, 100)
	for i := range tickers {
		tickers[i] = "T"
	}
	results := s.Scan(ctx, tickers, analyzer.Options{})
	assert.Less(t, len(results), len(tickers), "cancellation short-circuits the batch")
}

func TestScanRespectsRateLimiter(t *testing.T) {
	stub := &stubAnalyzer{scores: map[string]float64{"AAA": 1}}
	// 50/s over 5 tickers needs at least ~80ms after the initial burst.
	limiter := rate.NewLimiter(rate.Limit(50), 1)
	s := New(stub, 4, limiter, zerolog.Nop())

	start := time.Now()
	s.Scan(context.Background(), []string{"AAA", "AAA", "AAA", "AAA", "AAA"}, analyzer.Options{})
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}
