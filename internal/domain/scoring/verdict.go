package scoring

// Strategy selects which combiner an analysis uses.
type Strategy string

const (
	StrategyMeanReversion Strategy = "mean_reversion"
	StrategyTrend         Strategy = "trend"
)

// Verdict labels for the mean-reversion thresholds (80/50/30).
const (
	VerdictStrongBuy = "STRONG BUY — split entries immediately"
	VerdictScout     = "CAUTIOUS — scout position only"
	VerdictHold      = "HOLD — downtrend, stay out"
	VerdictAvoid     = "AVOID — crash territory, exit"
)

// Verdict labels for the stricter trend-following thresholds (75/40).
const (
	VerdictBreakout = "STRONG BREAKOUT — ride the trend"
	VerdictWatch    = "WATCH — trend forming, wait for volume"
	VerdictNoTrend  = "NO TREND — momentum exhausted"
)

// ClassifyVerdict maps a final score to its label for the strategy.
func ClassifyVerdict(score float64, strategy Strategy) string {
	if strategy == StrategyTrend {
		switch {
		case score >= 75:
			return VerdictBreakout
		case score <= 40:
			return VerdictNoTrend
		default:
			return VerdictWatch
		}
	}
	switch {
	case score >= 80:
		return VerdictStrongBuy
	case score >= 50:
		return VerdictScout
	case score >= 30:
		return VerdictHold
	default:
		return VerdictAvoid
	}
}
