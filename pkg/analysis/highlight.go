// Package analysis answers investigative queries over a built interaction
// graph: multi-criteria highlighting and shortest-path search. All operations
// are pure functions of their inputs; query misses are structured results,
// never errors.
package analysis

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cdrlens/cdrlens/pkg/graph"
)

// HighlightCriteria is a set of optional, OR-combined conditions. The zero
// value matches nothing and means "no filter active".
type HighlightCriteria struct {
	// UsageTypes matches edges whose usage type is a member.
	UsageTypes []string `json:"usage_types,omitempty"`
	// MinEdgeDurationSeconds matches edges with at least this total duration.
	MinEdgeDurationSeconds *int64 `json:"min_edge_duration_seconds,omitempty"`
	// MaxEdgeDurationSeconds matches edges with at most this total duration.
	MaxEdgeDurationSeconds *int64 `json:"max_edge_duration_seconds,omitempty"`
	// TowerID matches nodes observed on this tower.
	TowerID string `json:"tower_id,omitempty"`
	// CommonAcrossFiles matches nodes appearing in every selected file.
	CommonAcrossFiles bool `json:"common_across_files,omitempty"`
}

// IsEmpty reports whether no criterion is set. An empty criteria set is a
// pure no-op: nothing is highlighted and nothing is dimmed, which is distinct
// from non-trivial criteria that happen to match nothing.
func (c HighlightCriteria) IsEmpty() bool {
	return len(c.UsageTypes) == 0 &&
		c.MinEdgeDurationSeconds == nil &&
		c.MaxEdgeDurationSeconds == nil &&
		c.TowerID == "" &&
		!c.CommonAcrossFiles
}

// HighlightResult partitions the graph into matched and (implicitly) dimmed
// elements. When NoOp is true the caller should render everything normally.
type HighlightResult struct {
	MatchedNodeIDs map[string]struct{}
	MatchedEdgeIDs map[string]struct{}
	NoOp           bool
}

// MatchCount returns the total number of matched elements.
func (r *HighlightResult) MatchCount() int {
	return len(r.MatchedNodeIDs) + len(r.MatchedEdgeIDs)
}

// NodeIDs returns the matched node ids, sorted.
func (r *HighlightResult) NodeIDs() []string {
	ids := maps.Keys(r.MatchedNodeIDs)
	slices.Sort(ids)
	return ids
}

// EdgeIDs returns the matched edge ids, sorted.
func (r *HighlightResult) EdgeIDs() []string {
	ids := maps.Keys(r.MatchedEdgeIDs)
	slices.Sort(ids)
	return ids
}

// EvaluateHighlight applies the criteria to the (possibly time-filtered)
// graph. Criteria are OR'd within each element type. selectedFileIDs is the
// full set of files currently loaded in the session; the CommonAcrossFiles
// criterion matches nodes appearing in every one of them, and matches nothing
// when no files are selected.
//
// Every node referenced by a matched edge is promoted into MatchedNodeIDs so
// highlighted edges never dangle between dimmed endpoints.
func EvaluateHighlight(g *graph.Graph, c HighlightCriteria, selectedFileIDs []string) *HighlightResult {
	result := &HighlightResult{
		MatchedNodeIDs: make(map[string]struct{}),
		MatchedEdgeIDs: make(map[string]struct{}),
	}

	if c.IsEmpty() {
		result.NoOp = true
		return result
	}

	for id, n := range g.Nodes {
		if nodeMatches(n, c, selectedFileIDs) {
			result.MatchedNodeIDs[id] = struct{}{}
		}
	}

	for id, e := range g.Edges {
		if edgeMatches(e, c) {
			result.MatchedEdgeIDs[id] = struct{}{}
			result.MatchedNodeIDs[e.SourceID] = struct{}{}
			result.MatchedNodeIDs[e.TargetID] = struct{}{}
		}
	}

	return result
}

func nodeMatches(n *graph.Node, c HighlightCriteria, selectedFileIDs []string) bool {
	if c.TowerID != "" && n.HasTower(c.TowerID) {
		return true
	}
	if c.CommonAcrossFiles && len(selectedFileIDs) > 0 && n.SeenInAll(selectedFileIDs) {
		return true
	}
	return false
}

func edgeMatches(e *graph.Edge, c HighlightCriteria) bool {
	if len(c.UsageTypes) > 0 && slices.Contains(c.UsageTypes, e.UsageType) {
		return true
	}
	if c.MinEdgeDurationSeconds != nil && e.DurationSumSeconds >= *c.MinEdgeDurationSeconds {
		return true
	}
	if c.MaxEdgeDurationSeconds != nil && e.DurationSumSeconds <= *c.MaxEdgeDurationSeconds {
		return true
	}
	return false
}
