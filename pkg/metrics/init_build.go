package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBuildMetrics() {
	r.BuildsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cdrlens_builds_total",
			Help: "Total number of graph builds",
		},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cdrlens_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.BuildRecordsSkipped = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cdrlens_build_records_skipped_total",
			Help: "Total number of malformed records skipped during builds",
		},
	)

	r.BuildTruncationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cdrlens_build_truncations_total",
			Help: "Total number of builds truncated at the record cap",
		},
	)

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cdrlens_graph_nodes_total",
			Help: "Number of nodes in the most recently built graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cdrlens_graph_edges_total",
			Help: "Number of edges in the most recently built graph",
		},
	)

	r.GraphHubsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cdrlens_graph_hubs_total",
			Help: "Number of hub nodes flagged in the most recently built graph",
		},
	)
}
