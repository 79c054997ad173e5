package guards

import "fmt"

// RSIHookOversold is the zone below which the hook check applies.
const RSIHookOversold = 40.0

// HookResult reports the RSI turnaround check. "Failed" means the RSI
// is oversold but has not turned up day-over-day, meaning the knife is
// still falling. Only the mean-reversion strategy consults it.
type HookResult struct {
	Failed bool
	Reason string
}

// DetectRSIHook flags a failed hook when the latest RSI is at or below
// the oversold zone and has not risen versus the previous bar. With
// fewer than two RSI values the check abstains.
func DetectRSIHook(rsiSeries []float64) HookResult {
	if len(rsiSeries) < 2 {
		return HookResult{Reason: "not enough RSI history"}
	}
	curr := rsiSeries[len(rsiSeries)-1]
	prev := rsiSeries[len(rsiSeries)-2]

	if curr <= RSIHookOversold && curr <= prev {
		return HookResult{
			Failed: true,
			Reason: fmt.Sprintf("oversold RSI %.1f still falling (prev %.1f)", curr, prev),
		}
	}
	if curr > RSIHookOversold {
		return HookResult{Reason: fmt.Sprintf("RSI %.1f above oversold zone", curr)}
	}
	return HookResult{Reason: fmt.Sprintf("RSI %.1f turned up from %.1f", curr, prev)}
}
