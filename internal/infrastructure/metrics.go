package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics, registered on the default Prometheus registry and served
// through the /metrics endpoint.
var (
	// RowsParsed counts log rows whose timestamp resolved to an instant.
	RowsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attend_rows_parsed_total",
		Help: "Number of swipe log rows with a successfully parsed timestamp",
	})

	// RowsDropped counts rows discarded because no format matched.
	RowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attend_rows_dropped_total",
		Help: "Number of swipe log rows dropped due to unparseable timestamps",
	})

	// AnalysesTotal counts analysis runs by outcome.
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attend_analyses_total",
		Help: "Number of analysis runs by outcome",
	}, []string{"status"})

	// ExportsTotal counts workbook exports by outcome.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attend_exports_total",
		Help: "Number of workbook exports by outcome",
	}, []string{"status"})

	// AnalysisDuration observes the wall time of a full analysis run.
	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attend_analysis_duration_seconds",
		Help:    "Duration of a full load-normalize-aggregate run",
		Buckets: prometheus.DefBuckets,
	})
)
