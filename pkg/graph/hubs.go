package graph

import "golang.org/x/exp/slices"

// DetectHubs flags high-activity nodes in place and returns the flagged ids,
// sorted. A node is a hub when its call count exceeds HubMultiplier times the
// mean call count across all nodes. Graphs smaller than HubMinNodes get no
// hubs at all: an average over a handful of nodes says nothing about
// disproportionate activity.
//
// The threshold policy is a documented heuristic. The multiplier and the
// minimum size are configuration, not constants.
func DetectHubs(g *Graph, cfg Config) []string {
	for _, n := range g.Nodes {
		n.IsHub = false
	}

	if g.NodeCount() < cfg.HubMinNodes || g.NodeCount() == 0 {
		return nil
	}

	total := 0
	for _, n := range g.Nodes {
		total += n.CallCount
	}
	mean := float64(total) / float64(g.NodeCount())
	threshold := mean * cfg.HubMultiplier

	hubs := make([]string, 0)
	for _, n := range g.Nodes {
		if float64(n.CallCount) > threshold {
			n.IsHub = true
			hubs = append(hubs, n.ID)
		}
	}

	slices.Sort(hubs)
	return hubs
}
