package indicators

// Snapshot is the immutable latest-value bag one analysis run consumes.
// Missing band or overlay values are encoded as 0 (prices are strictly
// positive) and the scorers treat non-positive values as "no signal".
type Snapshot struct {
	RSI          float64 `json:"rsi"`
	MFI          float64 `json:"mfi"`
	MACDDiff     float64 `json:"macd_diff"`
	MACDDiffPct  float64 `json:"macd_diff_pct"`
	BBLower      float64 `json:"bb_lower"`
	BBUpper      float64 `json:"bb_upper"`
	IchiA        float64 `json:"ichi_a"`
	IchiB        float64 `json:"ichi_b"`
	VWAP         float64 `json:"vwap"`
	ATR          float64 `json:"atr"`
	OBV          float64 `json:"obv"`
	CurrentPrice float64 `json:"current_price"`
}

// SeriesSet carries the full indicator series alongside the snapshot
// for charting and the detectors that need history (waterfall, hook).
type SeriesSet struct {
	RSI        []float64
	MFI        []float64
	BBLower    []float64
	BBUpper    []float64
	MACD       []float64
	MACDSignal []float64
	MACDDiff   []float64
	IchiA      []float64
	IchiB      []float64
	VWAP       []float64
	OBV        []float64
	ATR        []float64
}
