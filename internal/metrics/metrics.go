package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry-backed counters for the analysis pipeline and the session
// manager. All collectors are process-global and registered once.
var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aibox",
		Name:      "analyses_total",
		Help:      "Completed analyses by outcome (ok, DataFetch, InsufficientData, Analysis).",
	}, []string{"outcome"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aibox",
		Name:      "analysis_duration_seconds",
		Help:      "Wall time of one analysis run.",
		Buckets:   prometheus.DefBuckets,
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aibox",
		Name:      "logins_total",
		Help:      "Login attempts by outcome (ok, denied, error).",
	}, []string{"outcome"})

	SessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aibox",
		Name:      "sessions_purged_total",
		Help:      "Expired session records removed by purges.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aibox",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status class.",
	}, []string{"route", "status"})
)

// RecordAnalysis tags a finished analysis with its outcome label.
func RecordAnalysis(errorType string, seconds float64) {
	outcome := errorType
	if outcome == "" {
		outcome = "ok"
	}
	AnalysesTotal.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(seconds)
}
