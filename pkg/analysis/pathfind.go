package analysis

import (
	"container/list"

	"golang.org/x/exp/slices"

	"github.com/cdrlens/cdrlens/pkg/graph"
)

// Path search failure reasons. Both are expected, recoverable outcomes of
// normal investigative use, reported as data rather than errors.
const (
	FailureNodeNotFound = "node-not-found"
	FailureNoPathFound  = "no-path-found"
)

// PathResult is the outcome of a shortest-path search. When Found is true,
// NodeIDs lists the path from source to target and EdgeIDs the edges
// connecting consecutive nodes (len(EdgeIDs) == len(NodeIDs)-1).
type PathResult struct {
	Found         bool     `json:"found"`
	NodeIDs       []string `json:"node_ids,omitempty"`
	EdgeIDs       []string `json:"edge_ids,omitempty"`
	FailureReason string   `json:"failure_reason,omitempty"`
}

// Hops returns the number of edges in the path.
func (r *PathResult) Hops() int {
	return len(r.EdgeIDs)
}

// neighbor is one undirected adjacency entry: the node on the other side and
// the edge that connects to it.
type neighbor struct {
	nodeID string
	edgeID string
}

// FindPath computes an unweighted shortest path between two node ids over
// the current visible graph. Edges are traversed ignoring direction:
// investigators care about connectivity, not call direction, when tracing a
// path. Ties between equally short paths are broken deterministically by
// sorted neighbor order.
func FindPath(g *graph.Graph, sourceID, targetID string) *PathResult {
	if _, ok := g.Nodes[sourceID]; !ok {
		return &PathResult{FailureReason: FailureNodeNotFound}
	}
	if _, ok := g.Nodes[targetID]; !ok {
		return &PathResult{FailureReason: FailureNodeNotFound}
	}

	if sourceID == targetID {
		return &PathResult{Found: true, NodeIDs: []string{sourceID}, EdgeIDs: []string{}}
	}

	adjacency := undirectedAdjacency(g)

	// BFS with parent tracking; the parent map doubles as the visited set.
	type parentLink struct {
		nodeID string
		edgeID string
	}
	parents := map[string]parentLink{sourceID: {nodeID: sourceID}}

	queue := list.New()
	queue.PushBack(sourceID)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(string)
		if currentID == targetID {
			break
		}

		for _, nb := range adjacency[currentID] {
			if _, seen := parents[nb.nodeID]; seen {
				continue
			}
			parents[nb.nodeID] = parentLink{nodeID: currentID, edgeID: nb.edgeID}
			queue.PushBack(nb.nodeID)
		}
	}

	if _, reached := parents[targetID]; !reached {
		return &PathResult{FailureReason: FailureNoPathFound}
	}

	// Walk back from target to source
	nodeIDs := []string{}
	edgeIDs := []string{}
	for at := targetID; ; {
		nodeIDs = append(nodeIDs, at)
		link := parents[at]
		if link.nodeID == at {
			break
		}
		edgeIDs = append(edgeIDs, link.edgeID)
		at = link.nodeID
	}
	slices.Reverse(nodeIDs)
	slices.Reverse(edgeIDs)

	return &PathResult{Found: true, NodeIDs: nodeIDs, EdgeIDs: edgeIDs}
}

// undirectedAdjacency flattens the directed edge store into a symmetric
// adjacency list. Parallel edges (distinct usage types between the same
// pair) all appear; sorting keeps expansion order deterministic.
func undirectedAdjacency(g *graph.Graph) map[string][]neighbor {
	adjacency := make(map[string][]neighbor, len(g.Nodes))
	for _, e := range g.Edges {
		adjacency[e.SourceID] = append(adjacency[e.SourceID], neighbor{nodeID: e.TargetID, edgeID: e.ID})
		adjacency[e.TargetID] = append(adjacency[e.TargetID], neighbor{nodeID: e.SourceID, edgeID: e.ID})
	}
	for id := range adjacency {
		slices.SortFunc(adjacency[id], func(a, b neighbor) int {
			if a.nodeID != b.nodeID {
				if a.nodeID < b.nodeID {
					return -1
				}
				return 1
			}
			if a.edgeID < b.edgeID {
				return -1
			}
			if a.edgeID > b.edgeID {
				return 1
			}
			return 0
		})
	}
	return adjacency
}
