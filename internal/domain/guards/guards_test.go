package guards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func descending(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start - float64(i)*step
	}
	return out
}

func ascending(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestDetectWaterfallDowntrend(t *testing.T) {
	closes := descending(150, 300, 1)
	res := DetectWaterfall(closes)
	assert.True(t, res.Flagged)
	assert.Equal(t, WaterfallLongWindow, res.Window)
	assert.Equal(t, WaterfallLookback, res.Lookback)
	assert.Contains(t, res.Reason, "below falling MA120")
}

func TestDetectWaterfallUptrend(t *testing.T) {
	closes := ascending(150, 100, 1)
	res := DetectWaterfall(closes)
	assert.False(t, res.Flagged)
	assert.Contains(t, res.Reason, "holding or rising")
}

func TestDetectWaterfallShortWindowFallback(t *testing.T) {
	// 80 bars: not enough for the 120 window, enough for 60.
	closes := descending(80, 200, 1)
	res := DetectWaterfall(closes)
	assert.True(t, res.Flagged)
	assert.Equal(t, WaterfallShortWindow, res.Window)
}

func TestDetectWaterfallTooShortAbstains(t *testing.T) {
	res := DetectWaterfall(descending(10, 100, 1))
	assert.False(t, res.Flagged)
	assert.Contains(t, res.Reason, "too short")
}

func TestDetectWaterfallPriceAboveFallingMA(t *testing.T) {
	// Long decline with a sharp recovery at the end: the MA is still
	// falling but price has popped above it.
	closes := descending(150, 300, 1)
	closes[len(closes)-1] = 400
	res := DetectWaterfall(closes)
	assert.False(t, res.Flagged)
}

func TestDetectRSIHook(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		failed bool
	}{
		{"oversold and falling fails", []float64{35, 30}, true},
		{"oversold and flat fails", []float64{30, 30}, true},
		{"oversold but turning up passes", []float64{28, 33}, false},
		{"above oversold zone passes", []float64{55, 50}, false},
		{"boundary falling fails", []float64{41, 40}, true},
		{"too short abstains", []float64{25}, false},
		{"empty abstains", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DetectRSIHook(tt.series)
			assert.Equal(t, tt.failed, res.Failed)
			assert.NotEmpty(t, res.Reason)
		})
	}
}
