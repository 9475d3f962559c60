package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cdrlens/cdrlens/pkg/annotations"
	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/interval"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serverVersion,
		Uptime:    time.Since(s.startTime).String(),
		Sessions:  s.sessions.Count(),
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, err := s.sessions.Create()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metricsRegistry.RecordSessionCreated(s.sessions.Count())

	s.respondJSON(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID(),
		CreatedAt: sess.CreatedAt(),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		s.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	if r.Method != http.MethodDelete {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if _, ok := s.sessions.Get(id); !ok {
		s.respondError(w, http.StatusNotFound, "Unknown session")
		return
	}
	s.sessions.Close(id)
	s.metricsRegistry.RecordSessionClosed(s.sessions.Count())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req RecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess.LoadRecords(req.Records, req.SubjectID)
	s.respondJSON(w, http.StatusOK, RecordsResponse{Loaded: len(req.Records)})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	built, err := sess.Graph()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	view, err := sess.View()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hubs := view.HubIDs()
	s.metricsRegistry.RecordBuild(time.Since(start),
		view.NodeCount(), view.EdgeCount(), len(hubs), built.Skipped, built.Truncated)
	if _, windowed := sess.Window(); windowed {
		s.metricsRegistry.RecordWindowFilter()
	}

	s.respondJSON(w, http.StatusOK, s.graphToResponse(view, built, sess.Annotations()))
}

func (s *Server) handleHubs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	hubs, err := sess.Hubs()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, HubsResponse{HubIDs: hubs})
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req WindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		sess.SetWindow(interval.NewSpan(req.StartMs, req.EndMs))
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		sess.ClearWindow()
		w.WriteHeader(http.StatusNoContent)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req HighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess.SetHighlight(req.Criteria)
	res, err := sess.Highlight(req.SelectedFileIDs)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := "matched"
	switch {
	case res.NoOp:
		outcome = "no-op"
	case res.MatchCount() == 0:
		outcome = "no-matches"
	}
	s.metricsRegistry.RecordHighlightQuery(outcome)

	s.respondJSON(w, http.StatusOK, HighlightResponse{
		MatchedNodeIDs: res.NodeIDs(),
		MatchedEdgeIDs: res.EdgeIDs(),
		MatchCount:     res.MatchCount(),
		NoOp:           res.NoOp,
	})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SourceID == "" || req.TargetID == "" {
		s.respondError(w, http.StatusBadRequest, "source_id and target_id are required")
		return
	}

	start := time.Now()
	res, err := sess.FindPath(req.SourceID, req.TargetID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := "found"
	if !res.Found {
		outcome = res.FailureReason
	}
	s.metricsRegistry.RecordPathQuery(outcome, time.Since(start))

	s.respondJSON(w, http.StatusOK, PathResponse{
		Found:         res.Found,
		NodeIDs:       res.NodeIDs,
		EdgeIDs:       res.EdgeIDs,
		Hops:          res.Hops(),
		FailureReason: res.FailureReason,
	})
}

// Response assembly

func (s *Server) graphToResponse(g *graph.Graph, built *graph.BuildResult, store *annotations.Store) GraphResponse {
	resp := GraphResponse{
		Nodes:     make([]NodeResponse, 0, g.NodeCount()),
		Edges:     make([]EdgeResponse, 0, g.EdgeCount()),
		Truncated: built.Truncated,
		Skipped:   built.Skipped,
	}

	for _, id := range g.NodeIDs() {
		resp.Nodes = append(resp.Nodes, s.nodeToResponse(g.Nodes[id], store))
	}
	for _, id := range g.EdgeIDs() {
		resp.Edges = append(resp.Edges, s.edgeToResponse(g.Edges[id], store))
	}
	return resp
}

func (s *Server) nodeToResponse(n *graph.Node, store *annotations.Store) NodeResponse {
	icon, _ := store.NodeIcon(n.ID)
	return NodeResponse{
		ID:                   n.ID,
		Label:                annotations.DisplayLabel(store, n),
		IsAParty:             n.IsAParty,
		IsHub:                n.IsHub,
		OutgoingCount:        n.OutgoingCount,
		IncomingCount:        n.IncomingCount,
		CallCount:            n.CallCount,
		TotalDurationSeconds: n.TotalDurationSeconds,
		FirstSeenMs:          n.FirstSeenMs,
		LastSeenMs:           n.LastSeenMs,
		AssociatedTowers:     n.Towers(),
		FileIDs:              n.Files(),
		LastKnownDeviceID:    n.LastKnownDeviceID,
		DisplayColor:         annotations.DisplayNodeColor(store, n),
		Icon:                 icon,
		Hidden:               store.IsNodeHidden(n.ID),
	}
}

func (s *Server) edgeToResponse(e *graph.Edge, store *annotations.Store) EdgeResponse {
	return EdgeResponse{
		ID:                 e.ID,
		SourceID:           e.SourceID,
		TargetID:           e.TargetID,
		UsageType:          e.UsageType,
		CallCount:          e.CallCount,
		DurationSumSeconds: e.DurationSumSeconds,
		FirstCallMs:        e.FirstCallMs,
		LastCallMs:         e.LastCallMs,
		FileIDs:            e.Files(),
		DisplayColor:       annotations.DisplayEdgeColor(store, e),
		Hidden:             store.IsEdgeHidden(e.ID),
	}
}
