package api

import (
	"time"

	"github.com/cdrlens/cdrlens/pkg/analysis"
	"github.com/cdrlens/cdrlens/pkg/records"
)

// API Request/Response Types

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordsRequest uploads a record set into a session.
type RecordsRequest struct {
	Records   []records.InteractionRecord `json:"records"`
	SubjectID string                      `json:"subject_id,omitempty"`
}

// RecordsResponse reports what the engine did with an upload.
type RecordsResponse struct {
	Loaded int `json:"loaded"`
}

// NodeResponse is a node in graph responses, overlay applied.
type NodeResponse struct {
	ID                   string   `json:"id"`
	Label                string   `json:"label"`
	IsAParty             bool     `json:"is_a_party"`
	IsHub                bool     `json:"is_hub"`
	OutgoingCount        int      `json:"outgoing_count"`
	IncomingCount        int      `json:"incoming_count"`
	CallCount            int      `json:"call_count"`
	TotalDurationSeconds int64    `json:"total_duration_seconds"`
	FirstSeenMs          int64    `json:"first_seen_ms"`
	LastSeenMs           int64    `json:"last_seen_ms"`
	AssociatedTowers     []string `json:"associated_towers"`
	FileIDs              []string `json:"file_ids"`
	LastKnownDeviceID    string   `json:"last_known_device_id,omitempty"`
	DisplayColor         string   `json:"display_color"`
	Icon                 string   `json:"icon,omitempty"`
	Hidden               bool     `json:"hidden"`
}

// EdgeResponse is an edge in graph responses, overlay applied.
type EdgeResponse struct {
	ID                 string   `json:"id"`
	SourceID           string   `json:"source_id"`
	TargetID           string   `json:"target_id"`
	UsageType          string   `json:"usage_type"`
	CallCount          int      `json:"call_count"`
	DurationSumSeconds int64    `json:"duration_sum_seconds"`
	FirstCallMs        int64    `json:"first_call_ms"`
	LastCallMs         int64    `json:"last_call_ms"`
	FileIDs            []string `json:"file_ids"`
	DisplayColor       string   `json:"display_color"`
	Hidden             bool     `json:"hidden"`
}

// GraphResponse is the current view of a session's graph.
type GraphResponse struct {
	Nodes     []NodeResponse `json:"nodes"`
	Edges     []EdgeResponse `json:"edges"`
	Truncated bool           `json:"truncated"`
	Skipped   int            `json:"skipped"`
}

// HubsResponse lists the hub node ids, sorted.
type HubsResponse struct {
	HubIDs []string `json:"hub_ids"`
}

// WindowRequest sets the session's time window.
type WindowRequest struct {
	StartMs int64 `json:"start_ms"`
	EndMs   int64 `json:"end_ms"`
}

// HighlightRequest sets criteria and evaluates them in one call.
type HighlightRequest struct {
	Criteria        analysis.HighlightCriteria `json:"criteria"`
	SelectedFileIDs []string                   `json:"selected_file_ids,omitempty"`
}

// HighlightResponse reports the matched entities.
type HighlightResponse struct {
	MatchedNodeIDs []string `json:"matched_node_ids"`
	MatchedEdgeIDs []string `json:"matched_edge_ids"`
	MatchCount     int      `json:"match_count"`
	NoOp           bool     `json:"no_op"`
}

// PathRequest asks for a shortest path between two parties.
type PathRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// PathResponse reports the path or the failure reason.
type PathResponse struct {
	Found         bool     `json:"found"`
	NodeIDs       []string `json:"node_ids,omitempty"`
	EdgeIDs       []string `json:"edge_ids,omitempty"`
	Hops          int      `json:"hops"`
	FailureReason string   `json:"failure_reason,omitempty"`
}

// AnnotationRequest carries one overlay mutation. Value is the label, color,
// or icon; it is ignored for visibility and remove operations.
type AnnotationRequest struct {
	Value string `json:"value,omitempty"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Sessions  int       `json:"sessions"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
