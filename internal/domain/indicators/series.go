package indicators

import "math"

// Manual indicator formulas. Each returns a series aligned with its
// input, padded with neutral values over the warm-up window so callers
// can always index the final element. These back the manual provider
// and fill the gaps (Ichimoku, VWAP) the external library does not cover.

const (
	neutralRSI = 50.0
	neutralMFI = 50.0
)

// RSISeries computes a Wilder-smoothed RSI. Warm-up values are 50.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = neutralRSI
	}
	if len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFrom(avgGain, avgLoss)

	alpha := 1.0 / float64(period)
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = avgGain*(1-alpha) + gain*alpha
		avgLoss = avgLoss*(1-alpha) + loss*alpha
		out[i] = rsiFrom(avgGain, avgLoss)
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// MFISeries computes the Money Flow Index over a rolling window.
// Warm-up values are 50.
func MFISeries(highs, lows, closes, volumes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := range out {
		out[i] = neutralMFI
	}
	if n < period+1 {
		return out
	}

	posFlow := make([]float64, n)
	negFlow := make([]float64, n)
	prevTP := typicalPrice(highs[0], lows[0], closes[0])
	for i := 1; i < n; i++ {
		tp := typicalPrice(highs[i], lows[i], closes[i])
		flow := tp * volumes[i]
		if tp > prevTP {
			posFlow[i] = flow
		} else if tp < prevTP {
			negFlow[i] = flow
		}
		prevTP = tp
	}

	for i := period; i < n; i++ {
		var pos, neg float64
		for j := i - period + 1; j <= i; j++ {
			pos += posFlow[j]
			neg += negFlow[j]
		}
		if neg == 0 {
			out[i] = 100.0
			continue
		}
		ratio := pos / neg
		out[i] = 100.0 - 100.0/(1.0+ratio)
	}
	return out
}

func typicalPrice(h, l, c float64) float64 { return (h + l + c) / 3.0 }

// BollingerSeries returns the lower and upper bands at k standard
// deviations around a simple moving average. Warm-up values collapse
// to the close itself (a zero-width band scores as neutral).
func BollingerSeries(closes []float64, period int, k float64) (lower, upper []float64) {
	n := len(closes)
	lower = make([]float64, n)
	upper = make([]float64, n)
	for i := 0; i < n; i++ {
		if i < period-1 {
			lower[i] = closes[i]
			upper[i] = closes[i]
			continue
		}
		window := closes[i-period+1 : i+1]
		mean := meanOf(window)
		var variance float64
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}
		std := math.Sqrt(variance / float64(period))
		lower[i] = mean - k*std
		upper[i] = mean + k*std
	}
	return lower, upper
}

// EMASeries computes an exponential moving average seeded with the
// first value.
func EMASeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}

// MACDSeries returns the MACD line, signal line and their difference.
func MACDSeries(closes []float64, fast, slow, signal int) (line, sig, diff []float64) {
	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)
	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig = EMASeries(line, signal)
	diff = make([]float64, len(closes))
	for i := range closes {
		diff[i] = line[i] - sig[i]
	}
	return line, sig, diff
}

// midlineSeries is the Ichimoku building block: the midpoint of the
// highest high and lowest low over a trailing window. Early bars use
// whatever window is available.
func midlineSeries(highs, lows []float64, period int) []float64 {
	out := make([]float64, len(highs))
	for i := range highs {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		hi, lo := highs[start], lows[start]
		for j := start + 1; j <= i; j++ {
			if highs[j] > hi {
				hi = highs[j]
			}
			if lows[j] < lo {
				lo = lows[j]
			}
		}
		out[i] = (hi + lo) / 2.0
	}
	return out
}

// IchimokuSpans returns leading spans A and B (unshifted, matching the
// values the scorer compares against the current price).
func IchimokuSpans(highs, lows []float64, tenkan, kijun, senkouB int) (spanA, spanB []float64) {
	t := midlineSeries(highs, lows, tenkan)
	k := midlineSeries(highs, lows, kijun)
	spanA = make([]float64, len(highs))
	for i := range spanA {
		spanA[i] = (t[i] + k[i]) / 2.0
	}
	spanB = midlineSeries(highs, lows, senkouB)
	return spanA, spanB
}

// VWAPSeries computes a rolling volume-weighted average price over a
// trailing window of typical prices.
func VWAPSeries(highs, lows, closes, volumes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		var pv, vol float64
		for j := start; j <= i; j++ {
			pv += typicalPrice(highs[j], lows[j], closes[j]) * volumes[j]
			vol += volumes[j]
		}
		if vol > 0 {
			out[i] = pv / vol
		} else {
			out[i] = closes[i]
		}
	}
	return out
}

// OBVSeries computes cumulative on-balance volume.
func OBVSeries(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// ATRSeries computes a Wilder-smoothed average true range. Warm-up
// values carry the running mean of true ranges so far.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	out[0] = highs[0] - lows[0]

	var sum float64
	alpha := 1.0 / float64(period)
	for i := 1; i < n; i++ {
		tr := trueRange(highs[i], lows[i], closes[i-1])
		if i < period {
			sum += tr
			out[i] = sum / float64(i)
			continue
		}
		if i == period {
			sum += tr
			out[i] = sum / float64(period)
			continue
		}
		out[i] = out[i-1]*(1-alpha) + tr*alpha
	}
	return out
}

func trueRange(high, low, prevClose float64) float64 {
	hl := high - low
	hc := math.Abs(high - prevClose)
	lc := math.Abs(low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
