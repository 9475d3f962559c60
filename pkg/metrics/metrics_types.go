package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Build Metrics
	BuildsTotal           prometheus.Counter
	BuildDuration         prometheus.Histogram
	BuildRecordsSkipped   prometheus.Counter
	BuildTruncationsTotal prometheus.Counter
	GraphNodesTotal       prometheus.Gauge
	GraphEdgesTotal       prometheus.Gauge
	GraphHubsTotal        prometheus.Gauge

	// Analysis Metrics
	PathQueriesTotal      *prometheus.CounterVec
	PathQueryDuration     prometheus.Histogram
	HighlightQueriesTotal *prometheus.CounterVec
	WindowFiltersTotal    prometheus.Counter

	// Session Metrics
	SessionsActive       prometheus.Gauge
	SessionsCreatedTotal prometheus.Counter

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initBuildMetrics()
	r.initAnalysisMetrics()
	r.initSessionMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
