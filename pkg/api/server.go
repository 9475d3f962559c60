// Package api exposes the engine over HTTP for the visualization frontend:
// session lifecycle, record upload, graph reads, temporal window, highlight
// and path queries, and the annotation overlay. Responses are JSON; the
// rendering itself lives in the frontend, not here.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cdrlens/cdrlens/pkg/logging"
	"github.com/cdrlens/cdrlens/pkg/metrics"
	"github.com/cdrlens/cdrlens/pkg/session"
)

const serverVersion = "1.0.0"

// SessionHeader names the header that routes a request to its session.
const SessionHeader = "X-Session-ID"

// Server is the HTTP API server.
type Server struct {
	sessions        *session.Manager
	metricsRegistry *metrics.Registry
	logger          logging.Logger
	graphqlHandler  *GraphQLHandler
	startTime       time.Time
	port            int
}

// NewServer creates an API server around a session manager.
func NewServer(sessions *session.Manager, reg *metrics.Registry, logger logging.Logger, port int) *Server {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Server{
		sessions:        sessions,
		metricsRegistry: reg,
		logger:          logger.With(logging.Component("api")),
		startTime:       time.Now(),
		port:            port,
	}
	s.graphqlHandler = NewGraphQLHandler(sessions)
	return s
}

// Handler builds the full middleware-wrapped handler. Split out from Start
// so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSession) // /sessions/{id}

	mux.HandleFunc("/records", s.handleRecords)
	mux.HandleFunc("/graph", s.handleGraph)
	mux.HandleFunc("/graph/hubs", s.handleHubs)
	mux.HandleFunc("/window", s.handleWindow)
	mux.HandleFunc("/highlight", s.handleHighlight)
	mux.HandleFunc("/path", s.handlePath)

	mux.HandleFunc("/annotations/nodes/", s.handleNodeAnnotation) // /annotations/nodes/{id}/{kind}
	mux.HandleFunc("/annotations/edges/", s.handleEdgeAnnotation) // /annotations/edges/{id}/{kind}
	mux.HandleFunc("/annotations/reset", s.handleAnnotationReset)

	mux.HandleFunc("/graphql", s.graphqlHandler.ServeHTTP)

	return s.panicRecoveryMiddleware(
		s.loggingMiddleware(
			s.metricsMiddleware(
				s.corsMiddleware(mux))))
}

// Start starts the HTTP server and blocks.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", logging.String("addr", addr))

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// sessionFromRequest resolves the session named in the request header,
// writing the error response itself when it cannot.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "Missing "+SessionHeader+" header")
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "Unknown session")
		return nil, false
	}
	return sess, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}
