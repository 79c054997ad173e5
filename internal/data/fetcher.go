package data

import (
	"context"

	"github.com/rs/zerolog"
)

// Source delivers raw OHLCV history and live quotes for one ticker.
// Implementations wrap whatever upstream provider is configured; the
// fetcher owns cleaning and the attempt ladder, not the source.
type Source interface {
	History(ctx context.Context, ticker, period string, autoAdjust bool) (Series, error)
	Quote(ctx context.Context, ticker string) (float64, error)
}

// DefaultMinRows is the floor below which a history is unusable.
const DefaultMinRows = 10

// fallbackPeriods are tried, in order, after the requested period.
var fallbackPeriods = []string{"1y", "2y", "max", "1mo"}

// Fetcher runs an explicit ordered ladder of (period, auto-adjust)
// attempts against a Source and cleans whichever result first clears
// the minimum-row bar. No attempt failure escapes as a panic or an
// untyped error: the outcome is either a clean Series, a
// *DataFetchError, or an *InsufficientDataError.
type Fetcher struct {
	src     Source
	minRows int
	log     zerolog.Logger
}

func NewFetcher(src Source, minRows int, log zerolog.Logger) *Fetcher {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	return &Fetcher{src: src, minRows: minRows, log: log.With().Str("component", "fetcher").Logger()}
}

// Fetch returns cleaned history for ticker, preferring the requested
// period and walking the fallback ladder when it comes up short.
func (f *Fetcher) Fetch(ctx context.Context, ticker, period string) (Series, error) {
	attempts := f.ladder(period)

	var lastErr error
	succeeded := false
	for _, p := range attempts {
		for _, adj := range []bool{false, true} {
			if err := ctx.Err(); err != nil {
				return nil, &DataFetchError{Ticker: ticker, Err: err}
			}
			raw, err := f.src.History(ctx, ticker, p, adj)
			if err != nil {
				lastErr = err
				f.log.Debug().Str("ticker", ticker).Str("period", p).Bool("auto_adjust", adj).
					Err(err).Msg("history attempt failed")
				continue
			}
			succeeded = true
			if len(raw) < f.minRows {
				continue
			}
			return f.clean(ticker, raw)
		}
	}

	if !succeeded && lastErr != nil {
		return nil, &DataFetchError{Ticker: ticker, Err: lastErr}
	}
	return nil, &InsufficientDataError{Ticker: ticker, Min: f.minRows, Reason: "all fetch attempts below minimum rows"}
}

// Quote returns the live price when the source has one. A zero return
// with a non-nil error means the caller should fall back to last close.
func (f *Fetcher) Quote(ctx context.Context, ticker string) (float64, error) {
	return f.src.Quote(ctx, ticker)
}

func (f *Fetcher) ladder(period string) []string {
	out := make([]string, 0, len(fallbackPeriods)+1)
	if period != "" {
		out = append(out, period)
	}
	for _, p := range fallbackPeriods {
		if p != period {
			out = append(out, p)
		}
	}
	return out
}

// clean forward-fills broken price fields, replaces zero volume with 1
// so volume-weighted indicators never divide by zero, and drops leading
// rows that have no usable price at all.
func (f *Fetcher) clean(ticker string, raw Series) (Series, error) {
	out := make(Series, 0, len(raw))
	var prev *Candle
	for i := range raw {
		c := raw[i]
		if c.Close <= 0 {
			if prev == nil {
				continue // nothing to fill from yet
			}
			c.Close = prev.Close
		}
		if c.Open <= 0 {
			c.Open = c.Close
		}
		if c.High <= 0 || c.High < c.Close {
			c.High = c.Close
		}
		if c.Low <= 0 || c.Low > c.Close {
			c.Low = c.Close
		}
		if c.Volume <= 0 {
			c.Volume = 1
		}
		out = append(out, c)
		prev = &out[len(out)-1]
	}
	if len(out) < f.minRows {
		return nil, &InsufficientDataError{Ticker: ticker, Rows: len(out), Min: f.minRows, Reason: "too few usable rows after cleaning"}
	}
	return out, nil
}
