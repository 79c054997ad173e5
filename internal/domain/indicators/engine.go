package indicators

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aiboxlab/aibox/internal/data"
)

// Engine turns an OHLCV series into a latest-value Snapshot plus the
// full SeriesSet. It degrades instead of failing: any series the
// provider could not produce yields the neutral constant for that
// signal (RSI 50, MACD diff 0, bands at price).
type Engine struct {
	provider Provider
	log      zerolog.Logger
}

func NewEngine(provider Provider, log zerolog.Logger) *Engine {
	if provider == nil {
		provider = TalibProvider{}
	}
	return &Engine{provider: provider, log: log.With().Str("component", "indicators").Logger()}
}

// Compute returns the snapshot for the final bar of series.
// currentPrice may differ from the last close when a live quote exists.
func (e *Engine) Compute(series data.Series, currentPrice float64) (Snapshot, SeriesSet, error) {
	if len(series) == 0 {
		return Snapshot{}, SeriesSet{}, fmt.Errorf("cannot compute indicators on empty series")
	}

	set, err := e.provider.Compute(series)
	if err != nil {
		return Snapshot{}, SeriesSet{}, fmt.Errorf("%s provider: %w", e.provider.Name(), err)
	}

	lastClose := series.LastClose()
	macdDiff := last(set.MACDDiff, 0)
	macdDiffPct := 0.0
	if currentPrice > 0 {
		macdDiffPct = abs(macdDiff) / currentPrice * 100.0
	}

	snap := Snapshot{
		RSI:          last(set.RSI, neutralRSI),
		MFI:          last(set.MFI, neutralMFI),
		MACDDiff:     macdDiff,
		MACDDiffPct:  macdDiffPct,
		BBLower:      last(set.BBLower, lastClose),
		BBUpper:      last(set.BBUpper, lastClose),
		IchiA:        last(set.IchiA, 0),
		IchiB:        last(set.IchiB, 0),
		VWAP:         last(set.VWAP, 0),
		ATR:          last(set.ATR, 0),
		OBV:          last(set.OBV, 0),
		CurrentPrice: currentPrice,
	}
	return snap, set, nil
}

func last(vals []float64, fallback float64) float64 {
	if len(vals) == 0 {
		return fallback
	}
	return vals[len(vals)-1]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
