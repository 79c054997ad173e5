package indicators

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"github.com/aiboxlab/aibox/internal/data"
)

// Standard periods for the engine's indicator suite.
const (
	RSIPeriod       = 14
	MFIPeriod       = 14
	BBPeriod        = 20
	BBStdDev        = 2.0
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	IchimokuTenkan  = 9
	IchimokuKijun   = 26
	IchimokuSenkouB = 52
	VWAPPeriod      = 20
	ATRPeriod       = 14
)

// Provider computes the full indicator series for one OHLCV series.
// Two implementations exist: TalibProvider wraps the external TA-Lib
// port, ManualProvider uses the in-package formulas. The choice is made
// at construction time, never by runtime probing.
type Provider interface {
	Name() string
	Compute(series data.Series) (SeriesSet, error)
}

// ManualProvider computes every indicator with the manual formulas.
type ManualProvider struct{}

func (ManualProvider) Name() string { return "manual" }

func (ManualProvider) Compute(series data.Series) (SeriesSet, error) {
	if len(series) == 0 {
		return SeriesSet{}, fmt.Errorf("empty series")
	}
	highs, lows := series.Highs(), series.Lows()
	closes, volumes := series.Closes(), series.Volumes()

	var out SeriesSet
	out.RSI = RSISeries(closes, RSIPeriod)
	out.MFI = MFISeries(highs, lows, closes, volumes, MFIPeriod)
	out.BBLower, out.BBUpper = BollingerSeries(closes, BBPeriod, BBStdDev)
	out.MACD, out.MACDSignal, out.MACDDiff = MACDSeries(closes, MACDFast, MACDSlow, MACDSignal)
	out.IchiA, out.IchiB = IchimokuSpans(highs, lows, IchimokuTenkan, IchimokuKijun, IchimokuSenkouB)
	out.VWAP = VWAPSeries(highs, lows, closes, volumes, VWAPPeriod)
	out.OBV = OBVSeries(closes, volumes)
	out.ATR = ATRSeries(highs, lows, closes, ATRPeriod)
	return out, nil
}

// TalibProvider computes the library-backed indicators with go-talib
// and falls back to the manual formulas for the two overlays the
// library does not ship (Ichimoku spans, rolling VWAP).
type TalibProvider struct{}

func (TalibProvider) Name() string { return "talib" }

func (TalibProvider) Compute(series data.Series) (SeriesSet, error) {
	if len(series) == 0 {
		return SeriesSet{}, fmt.Errorf("empty series")
	}
	highs, lows := series.Highs(), series.Lows()
	closes, volumes := series.Closes(), series.Volumes()

	var out SeriesSet
	if len(series) > RSIPeriod {
		out.RSI = talib.Rsi(closes, RSIPeriod)
		out.MFI = talib.Mfi(highs, lows, closes, volumes, MFIPeriod)
	} else {
		out.RSI = RSISeries(closes, RSIPeriod)
		out.MFI = MFISeries(highs, lows, closes, volumes, MFIPeriod)
	}
	if len(series) >= BBPeriod {
		upper, _, lower := talib.BBands(closes, BBPeriod, BBStdDev, BBStdDev, talib.SMA)
		out.BBLower, out.BBUpper = lower, upper
	} else {
		out.BBLower, out.BBUpper = BollingerSeries(closes, BBPeriod, BBStdDev)
	}
	if len(series) >= MACDSlow+MACDSignal {
		out.MACD, out.MACDSignal, out.MACDDiff = talib.Macd(closes, MACDFast, MACDSlow, MACDSignal)
	} else {
		out.MACD, out.MACDSignal, out.MACDDiff = MACDSeries(closes, MACDFast, MACDSlow, MACDSignal)
	}
	if len(series) > ATRPeriod {
		out.ATR = talib.Atr(highs, lows, closes, ATRPeriod)
	} else {
		out.ATR = ATRSeries(highs, lows, closes, ATRPeriod)
	}
	out.OBV = talib.Obv(closes, volumes)

	// Not covered by go-talib.
	out.IchiA, out.IchiB = IchimokuSpans(highs, lows, IchimokuTenkan, IchimokuKijun, IchimokuSenkouB)
	out.VWAP = VWAPSeries(highs, lows, closes, volumes, VWAPPeriod)
	return out, nil
}
