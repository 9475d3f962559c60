package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Annotation routes are /annotations/nodes/{id}/{kind} and
// /annotations/edges/{id}/{kind}. POST sets, DELETE clears. The id segment
// is everything between the prefix and the final kind segment, so edge ids
// containing the key separator pass through unharmed.

func splitAnnotationPath(path, prefix string) (id, kind string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	i := strings.LastIndex(rest, "/")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

func (s *Server) handleNodeAnnotation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	id, kind, ok := splitAnnotationPath(r.URL.Path, "/annotations/nodes/")
	if !ok {
		s.respondError(w, http.StatusNotFound, "Not found")
		return
	}
	store := sess.Annotations()

	switch r.Method {
	case http.MethodPost:
		var req AnnotationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		switch kind {
		case "label":
			store.SetLabel(id, req.Value)
		case "color":
			store.SetNodeColor(id, req.Value)
		case "icon":
			store.SetNodeIcon(id, req.Value)
		case "hide":
			store.HideNode(id)
		default:
			s.respondError(w, http.StatusNotFound, "Unknown annotation kind")
			return
		}
	case http.MethodDelete:
		switch kind {
		case "label":
			store.RemoveLabel(id)
		case "color":
			store.RemoveNodeColor(id)
		case "icon":
			store.RemoveNodeIcon(id)
		case "hide":
			store.ShowNode(id)
		default:
			s.respondError(w, http.StatusNotFound, "Unknown annotation kind")
			return
		}
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEdgeAnnotation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	id, kind, ok := splitAnnotationPath(r.URL.Path, "/annotations/edges/")
	if !ok {
		s.respondError(w, http.StatusNotFound, "Not found")
		return
	}
	store := sess.Annotations()

	switch r.Method {
	case http.MethodPost:
		var req AnnotationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		switch kind {
		case "color":
			store.SetEdgeColor(id, req.Value)
		case "hide":
			store.HideEdge(id)
		default:
			s.respondError(w, http.StatusNotFound, "Unknown annotation kind")
			return
		}
	case http.MethodDelete:
		switch kind {
		case "color":
			store.RemoveEdgeColor(id)
		case "hide":
			store.ShowEdge(id)
		default:
			s.respondError(w, http.StatusNotFound, "Unknown annotation kind")
			return
		}
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAnnotationReset clears one overlay category, or everything.
func (s *Server) handleAnnotationReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	store := sess.Annotations()
	switch req.Scope {
	case "labels":
		store.ResetLabels()
	case "node-colors":
		store.ResetNodeColors()
	case "node-icons":
		store.ResetNodeIcons()
	case "edge-colors":
		store.ResetEdgeColors()
	case "hidden":
		store.ResetHidden()
	case "all", "":
		store.ResetAll()
	default:
		s.respondError(w, http.StatusBadRequest, "Unknown scope")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
