package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.PathQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdrlens_path_queries_total",
			Help: "Total number of path queries by outcome",
		},
		[]string{"outcome"},
	)

	r.PathQueryDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cdrlens_path_query_duration_seconds",
			Help:    "Path query duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)

	r.HighlightQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdrlens_highlight_queries_total",
			Help: "Total number of highlight evaluations by outcome",
		},
		[]string{"outcome"},
	)

	r.WindowFiltersTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cdrlens_window_filters_total",
			Help: "Total number of temporal filter applications",
		},
	)
}

func (r *Registry) initSessionMetrics() {
	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cdrlens_sessions_active",
			Help: "Number of live sessions",
		},
	)

	r.SessionsCreatedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cdrlens_sessions_created_total",
			Help: "Total number of sessions created",
		},
	)
}
