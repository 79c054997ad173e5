package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aiboxlab/aibox/internal/data"
	"github.com/aiboxlab/aibox/internal/domain/fundamentals"
	"github.com/aiboxlab/aibox/internal/domain/guards"
	"github.com/aiboxlab/aibox/internal/domain/indicators"
	"github.com/aiboxlab/aibox/internal/domain/scoring"
)

// MarketData is the fetch collaborator contract: cleaned ascending
// OHLCV history plus a best-effort live quote. *data.Fetcher satisfies it.
type MarketData interface {
	Fetch(ctx context.Context, ticker, period string) (data.Series, error)
	Quote(ctx context.Context, ticker string) (float64, error)
}

// Options controls one analysis run.
type Options struct {
	Period            string
	ApplyFundamentals bool
	Strategy          scoring.Strategy
}

func (o Options) withDefaults() Options {
	if o.Period == "" {
		o.Period = "6mo"
	}
	if o.Strategy == "" {
		o.Strategy = scoring.StrategyMeanReversion
	}
	return o
}

// Analyzer orchestrates fetch -> indicators -> filters -> score ->
// fundamentals -> verdict for one ticker. It is boundary-safe: every
// code path, including panics in the math, returns a valid Result.
type Analyzer struct {
	market       MarketData
	engine       *indicators.Engine
	fundamentals fundamentals.Provider
	checker      *fundamentals.Checker
	log          zerolog.Logger
}

func New(market MarketData, engine *indicators.Engine, fundProvider fundamentals.Provider, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		market:       market,
		engine:       engine,
		fundamentals: fundProvider,
		checker:      fundamentals.NewChecker(),
		log:          log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze runs the full pipeline. It never returns an error and never
// panics to the caller; failures come back as Results with a classified
// ErrorType and a human-readable ErrorMsg.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, opts Options) (res Result) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return errorResult("", ErrorTypeAnalysis, "empty ticker symbol")
	}
	opts = opts.withDefaults()

	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Str("ticker", ticker).Interface("panic", r).Msg("analysis panicked")
			res = errorResult(ticker, ErrorTypeAnalysis, fmt.Sprintf("internal analysis fault: %v", r))
		}
	}()

	series, err := a.market.Fetch(ctx, ticker, opts.Period)
	if err != nil {
		errType := classifyError(err)
		a.log.Warn().Str("ticker", ticker).Str("error_type", errType).Err(err).Msg("fetch failed")
		return errorResult(ticker, errType, err.Error())
	}

	price := a.livePrice(ctx, ticker, series)

	snap, set, err := a.engine.Compute(series, price)
	if err != nil {
		a.log.Error().Str("ticker", ticker).Err(err).Msg("indicator computation failed")
		return errorResult(ticker, ErrorTypeAnalysis, err.Error())
	}

	waterfall := guards.DetectWaterfall(series.Closes())
	hook := guards.HookResult{}
	if opts.Strategy == scoring.StrategyMeanReversion {
		hook = guards.DetectRSIHook(set.RSI)
	}

	techScore := a.score(snap, price, opts.Strategy, waterfall.Flagged, hook.Failed)

	fundResult := fundamentals.Result{}
	if opts.ApplyFundamentals {
		fundResult = a.checkFundamentals(ctx, ticker)
	}

	finalScore := scoring.ApplyPenalty(techScore, fundResult.Penalty)
	verdict := scoring.ClassifyVerdict(finalScore, opts.Strategy)
	stop := StopLoss(price, snap.ATR)

	a.log.Info().Str("ticker", ticker).Float64("score", finalScore).
		Str("strategy", string(opts.Strategy)).Bool("waterfall", waterfall.Flagged).
		Bool("hook_failed", hook.Failed).Msg("analysis complete")

	return Result{
		Ticker:       ticker,
		Success:      true,
		Score:        finalScore,
		Verdict:      verdict,
		CurrentPrice: price,
		StopLoss:     stop,
		Indicators:   &snap,
		Details: buildDetails(detailInput{
			Snapshot:   snap,
			Price:      price,
			Strategy:   opts.Strategy,
			Waterfall:  waterfall,
			Hook:       hook,
			Fund:       fundResult,
			FinalScore: finalScore,
			Verdict:    verdict,
			StopLoss:   stop,
		}),
	}
}

func (a *Analyzer) score(snap indicators.Snapshot, price float64, strategy scoring.Strategy, waterfall, hookFailed bool) float64 {
	if strategy == scoring.StrategyTrend {
		return scoring.CalculateTrendScore(scoring.TrendInput{
			RSI:       snap.RSI,
			MFI:       snap.MFI,
			BBUpper:   snap.BBUpper,
			Price:     price,
			MACDDiff:  snap.MACDDiff,
			IchiA:     snap.IchiA,
			IchiB:     snap.IchiB,
			VWAP:      snap.VWAP,
			Waterfall: waterfall,
		})
	}
	return scoring.CalculateSharpScore(scoring.SharpInput{
		RSI:           snap.RSI,
		MFI:           snap.MFI,
		BBLower:       snap.BBLower,
		Price:         price,
		MACDDiff:      snap.MACDDiff,
		MACDDiffPct:   snap.MACDDiffPct,
		IchiA:         snap.IchiA,
		IchiB:         snap.IchiB,
		VWAP:          snap.VWAP,
		Waterfall:     waterfall,
		RSIHookFailed: hookFailed,
	})
}

// livePrice prefers a real-time quote and falls back to last close.
// It never fails: a dead quote endpoint just means a slightly stale price.
func (a *Analyzer) livePrice(ctx context.Context, ticker string, series data.Series) float64 {
	base := series.LastClose()
	live, err := a.market.Quote(ctx, ticker)
	if err != nil || live <= 0 {
		return base
	}
	return live
}

// checkFundamentals degrades a provider failure to the zero-penalty
// informational result; fundamentals problems never fail an analysis.
func (a *Analyzer) checkFundamentals(ctx context.Context, ticker string) fundamentals.Result {
	if a.fundamentals == nil {
		return fundamentals.Unavailable()
	}
	info, err := a.fundamentals.Info(ctx, ticker)
	if err != nil {
		a.log.Warn().Str("ticker", ticker).Err(err).Msg("fundamentals fetch failed")
		return fundamentals.Unavailable()
	}
	return a.checker.Check(ticker, info)
}

// StopLoss sizes a dynamic stop: two ATRs below price with a hard
// floor at -15%. Without a usable ATR the stop is a flat -10%.
func StopLoss(price, atr float64) float64 {
	if atr > 0 {
		stop := price - 2.0*atr
		return round2(math.Max(stop, price*0.85))
	}
	return round2(price * 0.90)
}

func errorResult(ticker, errType, msg string) Result {
	if msg == "" {
		msg = "analysis failed"
	}
	return Result{
		Ticker:    ticker,
		Success:   false,
		ErrorType: errType,
		ErrorMsg:  msg,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
