// Package graph implements the interaction-graph engine: aggregation of
// normalized communication records into a queryable node/edge model, hub
// detection, and temporal subgraph derivation.
package graph

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cdrlens/cdrlens/pkg/interval"
)

// Node is an aggregated party in the interaction graph. The ID is the raw
// party identifier string, so it stays stable across rebuilds.
type Node struct {
	ID                   string
	IsAParty             bool
	IsHub                bool
	OutgoingCount        int
	IncomingCount        int
	CallCount            int
	TotalDurationSeconds int64
	FirstSeenMs          int64
	LastSeenMs           int64
	AssociatedTowers     map[string]struct{}
	FileIDs              map[string]struct{}
	LastKnownDeviceID    string

	// lastDeviceSeenMs tracks the timestamp of the record that supplied
	// LastKnownDeviceID so later sightings win regardless of input order.
	lastDeviceSeenMs int64

	// observed distinguishes a node that has seen no records yet from one
	// first seen at the epoch; timestamps may legitimately be zero.
	observed bool
}

// Edge is an aggregated directed relationship keyed by
// (sourceID, targetID, usageType). Distinct usage types between the same
// pair are distinct edges.
type Edge struct {
	ID                 string
	SourceID           string
	TargetID           string
	UsageType          string
	CallCount          int
	DurationSumSeconds int64
	FirstCallMs        int64
	LastCallMs         int64
	FileIDs            map[string]struct{}
}

// EdgeKey builds the stable composite edge identifier.
func EdgeKey(sourceID, targetID, usageType string) string {
	return sourceID + "|" + targetID + "|" + usageType
}

// ParseEdgeKey splits a composite edge id back into its parts.
func ParseEdgeKey(key string) (sourceID, targetID, usageType string, err error) {
	parts := strings.SplitN(key, "|", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("malformed edge key %q", key)
	}
	return parts[0], parts[1], parts[2], nil
}

// Graph is the aggregated interaction model. It is rebuilt from scratch
// whenever the input record set changes; derived graphs (temporal filters)
// never alias the source graph's nodes or edges.
type Graph struct {
	Nodes map[string]*Node
	Edges map[string]*Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: make(map[string]*Edge),
	}
}

// Node returns the node with the given id, or ErrNodeNotFound.
func (g *Graph) Node(id string) (*Node, error) {
	n, ok := g.Nodes[id]
	if !ok {
		return nil, &EngineError{Op: "Node", Entity: "node", ID: id, Cause: ErrNodeNotFound}
	}
	return n, nil
}

// Edge returns the edge with the given composite id, or ErrEdgeNotFound.
func (g *Graph) Edge(id string) (*Edge, error) {
	e, ok := g.Edges[id]
	if !ok {
		return nil, &EngineError{Op: "Edge", Entity: "edge", ID: id, Cause: ErrEdgeNotFound}
	}
	return e, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.Edges)
}

// NodeIDs returns all node ids sorted for deterministic iteration.
func (g *Graph) NodeIDs() []string {
	ids := maps.Keys(g.Nodes)
	slices.Sort(ids)
	return ids
}

// EdgeIDs returns all edge ids sorted for deterministic iteration.
func (g *Graph) EdgeIDs() []string {
	ids := maps.Keys(g.Edges)
	slices.Sort(ids)
	return ids
}

// FullSpan returns the half-open span covering every timestamp observed
// across all nodes and edges, or an empty span for an empty graph. Time
// windows handed to the temporal filter are bounded by this span.
func (g *Graph) FullSpan() interval.Span {
	var span interval.Span
	for _, n := range g.Nodes {
		span = span.Union(interval.Span{StartMs: n.FirstSeenMs, EndMs: n.LastSeenMs + 1})
	}
	for _, e := range g.Edges {
		span = span.Union(interval.Span{StartMs: e.FirstCallMs, EndMs: e.LastCallMs + 1})
	}
	return span
}

// HubIDs returns the ids of all nodes currently flagged as hubs, sorted.
func (g *Graph) HubIDs() []string {
	ids := make([]string, 0)
	for id, n := range g.Nodes {
		if n.IsHub {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Towers returns the node's associated tower ids, sorted.
func (n *Node) Towers() []string {
	towers := maps.Keys(n.AssociatedTowers)
	slices.Sort(towers)
	return towers
}

// Files returns the node's source file ids, sorted.
func (n *Node) Files() []string {
	files := maps.Keys(n.FileIDs)
	slices.Sort(files)
	return files
}

// HasTower reports whether the node was observed on the given tower.
func (n *Node) HasTower(towerID string) bool {
	_, ok := n.AssociatedTowers[towerID]
	return ok
}

// SeenInAll reports whether the node appears in every one of the given file
// ids. An empty file list is vacuously true.
func (n *Node) SeenInAll(fileIDs []string) bool {
	for _, id := range fileIDs {
		if _, ok := n.FileIDs[id]; !ok {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of a node.
func (n *Node) Clone() *Node {
	clone := *n
	clone.AssociatedTowers = make(map[string]struct{}, len(n.AssociatedTowers))
	for t := range n.AssociatedTowers {
		clone.AssociatedTowers[t] = struct{}{}
	}
	clone.FileIDs = make(map[string]struct{}, len(n.FileIDs))
	for f := range n.FileIDs {
		clone.FileIDs[f] = struct{}{}
	}
	return &clone
}

// Files returns the edge's source file ids, sorted.
func (e *Edge) Files() []string {
	files := maps.Keys(e.FileIDs)
	slices.Sort(files)
	return files
}

// Clone creates a deep copy of an edge.
func (e *Edge) Clone() *Edge {
	clone := *e
	clone.FileIDs = make(map[string]struct{}, len(e.FileIDs))
	for f := range e.FileIDs {
		clone.FileIDs[f] = struct{}{}
	}
	return &clone
}
