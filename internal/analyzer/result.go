package analyzer

import "github.com/aiboxlab/aibox/internal/domain/indicators"

// Detail is one human-readable card in the analysis breakdown.
type Detail struct {
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Result is the analyzer's sole output contract. Exactly one of the
// success fields or the error fields is meaningfully populated, and a
// failed analysis is still a structurally valid Result; the facade
// never returns nil and never raises.
type Result struct {
	Ticker       string                `json:"ticker"`
	Success      bool                  `json:"success"`
	Score        float64               `json:"score,omitempty"`
	Verdict      string                `json:"verdict,omitempty"`
	CurrentPrice float64               `json:"current_price,omitempty"`
	StopLoss     float64               `json:"stop_loss,omitempty"`
	Indicators   *indicators.Snapshot  `json:"indicators,omitempty"`
	Details      []Detail              `json:"detail_info,omitempty"`
	ErrorMsg     string                `json:"error_msg,omitempty"`
	ErrorType    string                `json:"error_type,omitempty"`
}
