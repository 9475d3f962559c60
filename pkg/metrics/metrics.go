package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordBuild records a completed graph build and refreshes the graph gauges
func (r *Registry) RecordBuild(duration time.Duration, nodes, edges, hubs, skipped int, truncated bool) {
	r.BuildsTotal.Inc()
	r.BuildDuration.Observe(duration.Seconds())
	r.BuildRecordsSkipped.Add(float64(skipped))
	if truncated {
		r.BuildTruncationsTotal.Inc()
	}
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphHubsTotal.Set(float64(hubs))
}

// RecordPathQuery records a path query with its outcome ("found",
// "node-not-found", "no-path-found")
func (r *Registry) RecordPathQuery(outcome string, duration time.Duration) {
	r.PathQueriesTotal.WithLabelValues(outcome).Inc()
	r.PathQueryDuration.Observe(duration.Seconds())
}

// RecordHighlightQuery records a highlight evaluation with its outcome
// ("matched", "no-matches", "no-op")
func (r *Registry) RecordHighlightQuery(outcome string) {
	r.HighlightQueriesTotal.WithLabelValues(outcome).Inc()
}

// RecordWindowFilter records a temporal filter application
func (r *Registry) RecordWindowFilter() {
	r.WindowFiltersTotal.Inc()
}

// RecordSessionCreated records a new session and updates the active gauge
func (r *Registry) RecordSessionCreated(active int) {
	r.SessionsCreatedTotal.Inc()
	r.SessionsActive.Set(float64(active))
}

// RecordSessionClosed updates the active session gauge after a close
func (r *Registry) RecordSessionClosed(active int) {
	r.SessionsActive.Set(float64(active))
}
