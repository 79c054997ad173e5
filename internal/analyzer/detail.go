package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/aiboxlab/aibox/internal/domain/fundamentals"
	"github.com/aiboxlab/aibox/internal/domain/guards"
	"github.com/aiboxlab/aibox/internal/domain/indicators"
	"github.com/aiboxlab/aibox/internal/domain/scoring"
)

type detailInput struct {
	Snapshot   indicators.Snapshot
	Price      float64
	Strategy   scoring.Strategy
	Waterfall  guards.WaterfallResult
	Hook       guards.HookResult
	Fund       fundamentals.Result
	FinalScore float64
	Verdict    string
	StopLoss   float64
}

// buildDetails assembles the ordered per-indicator cards, the filter
// cards, the optional fundamentals card and the closing narrative.
func buildDetails(in detailInput) []Detail {
	snap := in.Snapshot
	details := []Detail{
		{Title: "RSI (momentum)", Comment: fmt.Sprintf("%.1f %s", snap.RSI, rsiZone(snap.RSI))},
		{Title: "MFI (money flow)", Comment: fmt.Sprintf("%.1f %s", snap.MFI, mfiZone(snap.MFI))},
		{Title: "MACD (trend signal)", Comment: macdStatus(snap.MACDDiff)},
		{Title: "Ichimoku (cloud)", Comment: ichimokuStatus(in.Price, snap.IchiA, snap.IchiB)},
		{Title: "Bollinger Bands (volatility)", Comment: bbStatus(in.Price, snap.BBLower, snap.BBUpper)},
		{Title: "ATR (dynamic stop)", Comment: fmt.Sprintf("ATR=%.2f -> stop at %.2f", snap.ATR, in.StopLoss)},
		{Title: "VWAP (volume weighted)", Comment: vwapStatus(in.Price, snap.VWAP)},
		{Title: "Long trend (120-bar MA)", Comment: waterfallStatus(in.Waterfall)},
	}

	if in.Strategy == scoring.StrategyMeanReversion {
		details = append(details, Detail{Title: "RSI turnaround (hook)", Comment: hookStatus(in.Hook)})
	}

	if in.Fund.Penalty > 0 || len(in.Fund.Messages) > 0 {
		details = append(details, Detail{
			Title:   "Fundamentals check",
			Comment: strings.Join(in.Fund.Messages, " / "),
		})
	}

	details = append(details, Detail{Title: "Final verdict", Comment: verdictNarrative(in)})
	return details
}

func rsiZone(rsi float64) string {
	switch {
	case rsi < 30:
		return "(oversold)"
	case rsi < 70:
		return "(neutral)"
	default:
		return "(overbought)"
	}
}

func mfiZone(mfi float64) string {
	switch {
	case mfi < 30:
		return "(weak inflow)"
	case mfi < 70:
		return "(neutral)"
	default:
		return "(strong inflow)"
	}
}

func macdStatus(diff float64) string {
	if diff > 0 {
		return fmt.Sprintf("histogram %+.2f — reversal signal", diff)
	}
	return fmt.Sprintf("histogram %+.2f — downtrend intact", diff)
}

func ichimokuStatus(price, a, b float64) string {
	if a <= 0 || b <= 0 {
		return "cloud unavailable"
	}
	pos := "above the cloud"
	if price < math.Min(a, b) {
		pos = "below the cloud (rebound room)"
	} else if price < math.Max(a, b) {
		pos = "inside the cloud"
	}
	order := "bearish span order"
	if a > b {
		order = "bullish span order"
	}
	return fmt.Sprintf("price %s, %s", pos, order)
}

func bbStatus(price, lower, upper float64) string {
	switch {
	case lower > 0 && price <= lower:
		return fmt.Sprintf("price %.2f at/below lower band %.2f", price, lower)
	case upper > 0 && price >= upper:
		return fmt.Sprintf("price %.2f at/above upper band %.2f", price, upper)
	default:
		return "price in the middle of the band"
	}
}

func vwapStatus(price, vwap float64) string {
	if vwap <= 0 {
		return "VWAP unavailable"
	}
	if price < vwap {
		return fmt.Sprintf("price %.2f below VWAP %.2f (undervalued vs average fill)", price, vwap)
	}
	return fmt.Sprintf("price %.2f above VWAP %.2f", price, vwap)
}

func waterfallStatus(res guards.WaterfallResult) string {
	if res.Flagged {
		return "DANGER — waterfall downtrend: " + res.Reason
	}
	return "safe — " + res.Reason
}

func hookStatus(res guards.HookResult) string {
	if res.Failed {
		return "FAILED — " + res.Reason + " (falling knife, wait)"
	}
	return "ok — " + res.Reason
}

// verdictNarrative is the closing card: score breakdown plus the
// strategy-aware action line.
func verdictNarrative(in detailInput) string {
	snap := in.Snapshot
	var b strings.Builder

	fmt.Fprintf(&b, "%s (score %.1f)\n", in.Verdict, in.FinalScore)

	if in.Strategy == scoring.StrategyMeanReversion {
		fmt.Fprintf(&b, "RSI %+.1f/20, MFI %+.1f/20, BB %+.1f/15, MACD %+.1f/15, Ichimoku %+.1f/15, VWAP %+.1f/15",
			scoring.ScoreRSI(snap.RSI),
			scoring.ScoreMFI(snap.MFI),
			scoring.ScoreBB(in.Price, snap.BBLower),
			scoring.ScoreMACD(snap.MACDDiff, snap.MACDDiffPct),
			scoring.ScoreIchimoku(in.Price, snap.IchiA, snap.IchiB),
			scoring.ScoreVWAP(in.Price, snap.VWAP))
	} else {
		fmt.Fprintf(&b, "trend factors: RSI %.1f, MFI %.1f, band ratio %.3f, MACD %+.2f",
			snap.RSI, snap.MFI, safeRatio(in.Price, snap.BBUpper), snap.MACDDiff)
	}

	if in.Fund.Penalty > 0 {
		fmt.Fprintf(&b, "\nfundamentals penalty: -%.0f", in.Fund.Penalty)
	}
	if in.Waterfall.Flagged {
		ceiling := scoring.SharpCap
		if in.Strategy == scoring.StrategyTrend {
			ceiling = scoring.TrendCap
		}
		fmt.Fprintf(&b, "\nwaterfall filter engaged — score capped at %.0f", ceiling)
	}
	if in.Hook.Failed {
		fmt.Fprintf(&b, "\nRSI hook filter engaged — score capped at %.0f", scoring.SharpCap)
	}
	if in.StopLoss > 0 && in.Price > 0 {
		pct := math.Abs((in.StopLoss - in.Price) / in.Price * 100)
		fmt.Fprintf(&b, "\nATR stop: %.2f (%.1f%% below)", in.StopLoss, pct)
	}
	return b.String()
}

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
