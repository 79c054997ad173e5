package data

import "fmt"

// DataFetchError marks a transient upstream failure (network, API limits).
// Callers may retry; the analyzer reports it as error type "DataFetch".
type DataFetchError struct {
	Ticker string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.Ticker, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// InsufficientDataError marks a structural shortage of history (delisted
// ticker, bad symbol, NaN-heavy feed). Not retryable.
type InsufficientDataError struct {
	Ticker string
	Rows   int
	Min    int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("insufficient data for %s: %s", e.Ticker, e.Reason)
	}
	return fmt.Sprintf("insufficient data for %s: %d rows, need %d", e.Ticker, e.Rows, e.Min)
}
