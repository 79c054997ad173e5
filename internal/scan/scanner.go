package scan

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aiboxlab/aibox/internal/analyzer"
)

// Analyzer is the single-ticker facade the scanner fans out over.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, opts analyzer.Options) analyzer.Result
}

// Scanner runs a ticker universe through the analyzer with a bounded
// worker pool and a shared rate limiter, so a full-market sweep never
// hammers the upstream provider. One bad ticker never aborts the
// batch: its failure is recorded as an error Result like any other.
type Scanner struct {
	analyzer Analyzer
	workers  int
	limiter  *rate.Limiter
	log      zerolog.Logger
}

// DefaultWorkers keeps the pool small enough to stay under typical
// provider throttling even without a limiter.
const DefaultWorkers = 4

func New(a Analyzer, workers int, limiter *rate.Limiter, log zerolog.Logger) *Scanner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Scanner{
		analyzer: a,
		workers:  workers,
		limiter:  limiter,
		log:      log.With().Str("component", "scanner").Logger(),
	}
}

// Scan analyzes every ticker and returns the results ordered by score
// descending, failures last. Cancelling ctx stops scheduling new
// tickers; already-running analyses finish.
func (s *Scanner) Scan(ctx context.Context, tickers []string, opts analyzer.Options) []analyzer.Result {
	jobs := make(chan string)
	results := make([]analyzer.Result, 0, len(tickers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				if err := s.limiter.Wait(ctx); err != nil {
					return
				}
				res := s.analyzer.Analyze(ctx, ticker, opts)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	for _, ticker := range tickers {
		select {
		case <-ctx.Done():
			s.log.Warn().Msg("scan cancelled, draining workers")
			close(jobs)
			wg.Wait()
			return order(results)
		case jobs <- ticker:
		}
	}
	close(jobs)
	wg.Wait()

	ok, failed := split(results)
	s.log.Info().Int("total", len(tickers)).Int("succeeded", len(ok)).Int("failed", len(failed)).Msg("scan complete")
	return order(results)
}

func split(results []analyzer.Result) (ok, failed []analyzer.Result) {
	for _, r := range results {
		if r.Success {
			ok = append(ok, r)
		} else {
			failed = append(failed, r)
		}
	}
	return ok, failed
}

// order sorts successes by score descending and places failures after
// them, keeping their relative order stable for readable reports.
func order(results []analyzer.Result) []analyzer.Result {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Success != b.Success {
			return a.Success
		}
		return a.Score > b.Score
	})
	return results
}
