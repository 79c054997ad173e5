package guards

import "fmt"

// Waterfall detection parameters. A "waterfall" is a sustained
// downtrend where price sits below a long moving average that is
// itself declining over the lookback window.
const (
	WaterfallLongWindow  = 120
	WaterfallShortWindow = 60
	WaterfallLookback    = 20
)

// WaterfallResult reports the severe-downtrend check.
type WaterfallResult struct {
	Flagged  bool
	Window   int
	Lookback int
	Reason   string
}

// DetectWaterfall compares the current price and a long SMA at two
// points in time. The 120-bar window falls back to 60 bars on short
// histories; below one lookback of data the check abstains.
func DetectWaterfall(closes []float64) WaterfallResult {
	if len(closes) < WaterfallLookback {
		return WaterfallResult{Reason: "history too short for trend check"}
	}

	window := WaterfallLongWindow
	if len(closes) < WaterfallLongWindow {
		window = WaterfallShortWindow
	}
	if len(closes) < window {
		window = len(closes)
	}

	maNow := trailingSMA(closes, len(closes)-1, window)
	lookback := WaterfallLookback
	if len(closes)-lookback < window-1 {
		lookback = len(closes) - window + 1
	}
	if lookback < 1 {
		return WaterfallResult{Window: window, Reason: "history too short for lookback"}
	}
	maThen := trailingSMA(closes, len(closes)-1-lookback+1, window)

	price := closes[len(closes)-1]
	declining := maNow < maThen
	below := price < maNow

	res := WaterfallResult{Window: window, Lookback: lookback}
	if below && declining {
		res.Flagged = true
		res.Reason = fmt.Sprintf("price %.2f below falling MA%d (%.2f -> %.2f over %d bars)",
			price, window, maThen, maNow, lookback)
		return res
	}
	switch {
	case !declining:
		res.Reason = fmt.Sprintf("MA%d holding or rising (%.2f -> %.2f)", window, maThen, maNow)
	default:
		res.Reason = fmt.Sprintf("price %.2f above MA%d %.2f", price, window, maNow)
	}
	return res
}

// trailingSMA averages the window closes ending at index end.
func trailingSMA(closes []float64, end, window int) float64 {
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	n := 0
	for i := start; i <= end; i++ {
		sum += closes[i]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
