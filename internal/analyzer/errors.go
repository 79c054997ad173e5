package analyzer

import (
	"errors"

	"github.com/aiboxlab/aibox/internal/data"
)

// Error-type strings carried on failed Results. Downstream UIs key
// their "why it failed" rendering off these.
const (
	ErrorTypeDataFetch        = "DataFetch"
	ErrorTypeInsufficientData = "InsufficientData"
	ErrorTypeAnalysis         = "Analysis"
)

// classifyError maps a pipeline error onto the result taxonomy.
// Anything that is not a typed fetch failure is an internal analysis
// fault.
func classifyError(err error) string {
	var fetchErr *data.DataFetchError
	if errors.As(err, &fetchErr) {
		return ErrorTypeDataFetch
	}
	var insuffErr *data.InsufficientDataError
	if errors.As(err, &insuffErr) {
		return ErrorTypeInsufficientData
	}
	return ErrorTypeAnalysis
}
