package scoring

import "math"

// Six-factor mean-reversion scorer, 100 points total. Every sub-score
// is independently capped so no single oscillator can swamp the result:
//
//	RSI (oversold)        20
//	MFI (money flow)      20
//	Bollinger (lower band) 15
//	MACD (trend size)     15
//	Ichimoku (cloud)      15
//	VWAP (divergence)     15
//
// All functions are pure; missing band/overlay inputs are encoded as
// non-positive values and score neutral, never panic.

// SharpCap is the hard ceiling applied when a waterfall downtrend or a
// failed RSI hook is detected: don't catch a falling knife.
const SharpCap = 29.0

// TrendCap is the trend-mode ceiling under a waterfall (breakouts
// against a falling long MA are usually fakeouts).
const TrendCap = 40.0

// ScoreRSI maps oversold RSI linearly into 0..20. RSI 60 and above
// scores 0; RSI 20 and below scores the full 20.
func ScoreRSI(rsi float64) float64 {
	return round1(clamp((60.0-rsi)*0.5, 0, 20))
}

// ScoreMFI mirrors ScoreRSI on the Money Flow Index, an independent
// 0..20 weight slot.
func ScoreMFI(mfi float64) float64 {
	return round1(clamp((60.0-mfi)*0.5, 0, 20))
}

// ScoreBB rewards price sitting at or below the lower Bollinger band,
// 0..15. A missing band (<=0) scores 0 rather than dividing by zero.
func ScoreBB(price, bbLower float64) float64 {
	if bbLower <= 0 {
		return 0
	}
	ratio := price / bbLower
	if ratio > 1.05 {
		return 0
	}
	return round1(clamp((1.05-ratio)*300.0, 0, 15))
}

// ScoreMACD scores a positive MACD histogram: base 7 plus a size bonus
// up to 8, capped at 15. The percentage form is preferred when present
// for cross-instrument comparability.
func ScoreMACD(macdDiff, macdDiffPct float64) float64 {
	if macdDiff <= 0 {
		return 0
	}
	var bonus float64
	if macdDiffPct > 0 {
		bonus = math.Min(8.0, macdDiffPct*200.0)
	} else {
		bonus = math.Min(8.0, math.Abs(macdDiff)*5.0)
	}
	return round1(math.Min(15.0, 7.0+bonus))
}

// ScoreIchimoku scores position relative to the cloud, 0..15, with a
// +3 bonus for a bullish span order. Missing spans score neutral 7.5.
func ScoreIchimoku(price, ichiA, ichiB float64) float64 {
	if ichiA <= 0 || ichiB <= 0 {
		return 7.5
	}
	cloudTop := math.Max(ichiA, ichiB)
	cloudBot := math.Min(ichiA, ichiB)
	var base float64
	switch {
	case price < cloudBot:
		base = 12.0
	case price < cloudTop:
		base = 6.0
	default:
		base = 0.0
	}
	var bonus float64
	if ichiA > ichiB {
		bonus = 3.0
	}
	return round1(math.Min(15.0, base+bonus))
}

// ScoreVWAP scores positive divergence below VWAP, 0..15. A missing
// VWAP scores neutral 7.5; price above VWAP scores 0.
func ScoreVWAP(price, vwap float64) float64 {
	if vwap <= 0 {
		return 7.5
	}
	divergence := (vwap - price) / vwap
	if divergence <= 0 {
		return 0
	}
	return round1(clamp(divergence*300.0, 0, 15))
}

// SharpInput bundles the factor inputs and filter flags for the
// mean-reversion combiner.
type SharpInput struct {
	RSI           float64
	MFI           float64
	BBLower       float64
	Price         float64
	MACDDiff      float64
	MACDDiffPct   float64
	IchiA         float64
	IchiB         float64
	VWAP          float64
	Waterfall     bool
	RSIHookFailed bool
}

// CalculateSharpScore sums the six factors, clamps to [0,100] at one
// decimal, then applies the hard filter caps. Waterfall and hook-failed
// are override conditions, not weights.
func CalculateSharpScore(in SharpInput) float64 {
	total := ScoreRSI(in.RSI) +
		ScoreMFI(in.MFI) +
		ScoreBB(in.Price, in.BBLower) +
		ScoreMACD(in.MACDDiff, in.MACDDiffPct) +
		ScoreIchimoku(in.Price, in.IchiA, in.IchiB) +
		ScoreVWAP(in.Price, in.VWAP)

	score := round1(clamp(total, 0, 100))
	if in.Waterfall {
		score = math.Min(score, SharpCap)
	}
	if in.RSIHookFailed {
		score = math.Min(score, SharpCap)
	}
	return score
}

// TrendInput bundles the factor inputs for the trend-following scorer.
type TrendInput struct {
	RSI       float64
	MFI       float64
	BBUpper   float64
	Price     float64
	MACDDiff  float64
	IchiA     float64
	IchiB     float64
	VWAP      float64
	Waterfall bool
}

// CalculateTrendScore is the breakout-mode scorer: it rewards the
// momentum conditions the mean-reversion scorer punishes.
func CalculateTrendScore(in TrendInput) float64 {
	var score float64

	// Momentum band: RSI 50..75 scales to 0..20, above 75 stays maxed.
	switch {
	case in.RSI >= 50 && in.RSI <= 75:
		score += 20.0 * ((in.RSI - 50) / 25)
	case in.RSI > 75:
		score += 20.0
	}

	if in.MFI >= 50 {
		score += math.Min(20.0, (in.MFI-50)*0.8)
	}

	if in.BBUpper > 0 {
		ratio := in.Price / in.BBUpper
		if ratio >= 0.98 {
			score += 15.0
		} else {
			score += math.Max(0.0, (ratio-0.90)*150)
		}
	}

	if in.MACDDiff > 0 {
		score += 15.0
	}

	if in.IchiA > 0 && in.IchiB > 0 {
		cloudTop := math.Max(in.IchiA, in.IchiB)
		if in.Price > cloudTop {
			score += 15.0
			if in.IchiA > in.IchiB {
				score += 5.0
			}
		}
	}

	if in.VWAP > 0 && in.Price > in.VWAP {
		score += 15.0
	}

	final := round1(math.Min(100.0, score))
	if in.Waterfall {
		final = math.Min(final, TrendCap)
	}
	return final
}

// ApplyPenalty subtracts a fundamentals penalty and re-clamps.
func ApplyPenalty(score, penalty float64) float64 {
	return round1(clamp(score-penalty, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
