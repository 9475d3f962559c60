package graph

import (
	"github.com/cdrlens/cdrlens/pkg/interval"
)

// FilterByWindow derives the subgraph active within the given window. A node
// survives when its [FirstSeenMs, LastSeenMs] range intersects the window; an
// edge survives when its call range intersects the window and both endpoints
// survived. The source graph is never mutated, and the returned graph shares
// no nodes or edges with it.
//
// Filtering is idempotent, and filtering with the graph's full span returns a
// graph equal to the source.
func FilterByWindow(g *Graph, window interval.Span) *Graph {
	out := NewGraph()
	if window.IsEmpty() {
		return out
	}

	for id, n := range g.Nodes {
		if interval.ClosedIntersects(n.FirstSeenMs, n.LastSeenMs, window.StartMs, window.EndMs-1) {
			out.Nodes[id] = n.Clone()
		}
	}

	for id, e := range g.Edges {
		if !interval.ClosedIntersects(e.FirstCallMs, e.LastCallMs, window.StartMs, window.EndMs-1) {
			continue
		}
		if _, ok := out.Nodes[e.SourceID]; !ok {
			continue
		}
		if _, ok := out.Nodes[e.TargetID]; !ok {
			continue
		}
		out.Edges[id] = e.Clone()
	}

	return out
}
