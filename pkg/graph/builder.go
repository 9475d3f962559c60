package graph

import (
	"github.com/cdrlens/cdrlens/pkg/logging"
	"github.com/cdrlens/cdrlens/pkg/records"
)

// BuildResult is the output of a single build pass.
type BuildResult struct {
	Graph *Graph
	// Truncated is set when the input exceeded the record cap and only the
	// first RecordCap records were aggregated. Callers surface this to the
	// investigator so they know the view is partial.
	Truncated bool
	// Skipped counts malformed records dropped during the pass.
	Skipped int
}

// Builder aggregates normalized interaction records into a Graph. A Builder
// is cheap and stateless between calls; every Build starts from an empty
// graph.
type Builder struct {
	cfg    Config
	logger logging.Logger
}

// NewBuilder creates a builder with the given configuration. A malformed
// configuration is a caller defect and is rejected here rather than
// tolerated at build time.
func NewBuilder(cfg Config, logger logging.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{cfg: cfg, logger: logger.With(logging.Component("builder"))}, nil
}

// Build runs a single aggregation pass over the record set. subjectID is the
// party under investigation (the A-Party); pass "" when no subject is
// selected. Aggregation is commutative, so input order never changes the
// final node and edge values; only truncation depends on order, and it is
// deterministic (first RecordCap records win).
func (b *Builder) Build(recs []records.InteractionRecord, subjectID string) *BuildResult {
	timer := logging.StartTimer(b.logger, "graph build complete", logging.RecordCount(len(recs)))

	truncated := false
	if len(recs) > b.cfg.RecordCap {
		recs = recs[:b.cfg.RecordCap]
		truncated = true
		b.logger.Warn("record set truncated at cap",
			logging.Int("record_cap", b.cfg.RecordCap),
		)
	}

	g := NewGraph()
	skipped := 0

	for _, rec := range recs {
		if !rec.IsValid() {
			skipped++
			continue
		}

		sourceID, targetID := rec.EffectiveParties()

		source := g.upsertNode(sourceID)
		target := g.upsertNode(targetID)

		source.OutgoingCount++
		target.IncomingCount++

		parties := []*Node{source, target}
		if source == target {
			// Self-interactions still count both directions but must not
			// double the duration and timestamp aggregates.
			parties = parties[:1]
		}
		for _, n := range parties {
			n.CallCount = n.OutgoingCount + n.IncomingCount
			n.TotalDurationSeconds += rec.DurationSeconds
			n.observe(rec.TimestampMs)
			if rec.TowerID != "" {
				n.AssociatedTowers[rec.TowerID] = struct{}{}
			}
			if rec.FileID != "" {
				n.FileIDs[rec.FileID] = struct{}{}
			}
			if subjectID != "" && n.ID == subjectID {
				n.IsAParty = true
			}
		}

		// The device identifier belongs to the record's nominal initiator
		// line; the latest sighting wins.
		if rec.DeviceID != "" {
			owner := g.Nodes[rec.InitiatorID]
			if owner != nil && rec.TimestampMs >= owner.lastDeviceSeenMs {
				owner.LastKnownDeviceID = rec.DeviceID
				owner.lastDeviceSeenMs = rec.TimestampMs
			}
		}

		edge := g.upsertEdge(sourceID, targetID, rec.UsageType)
		edge.CallCount++
		edge.DurationSumSeconds += rec.DurationSeconds
		if edge.CallCount == 1 {
			edge.FirstCallMs = rec.TimestampMs
			edge.LastCallMs = rec.TimestampMs
		} else {
			if rec.TimestampMs < edge.FirstCallMs {
				edge.FirstCallMs = rec.TimestampMs
			}
			if rec.TimestampMs > edge.LastCallMs {
				edge.LastCallMs = rec.TimestampMs
			}
		}
		if rec.FileID != "" {
			edge.FileIDs[rec.FileID] = struct{}{}
		}
	}

	if skipped > 0 {
		b.logger.Warn("skipped malformed records", logging.Int("skipped", skipped))
	}
	timer.End()

	return &BuildResult{Graph: g, Truncated: truncated, Skipped: skipped}
}

// upsertNode returns the node for the given party id, creating it on first
// sight.
func (g *Graph) upsertNode(id string) *Node {
	if n, ok := g.Nodes[id]; ok {
		return n
	}
	n := &Node{
		ID:               id,
		AssociatedTowers: make(map[string]struct{}),
		FileIDs:          make(map[string]struct{}),
	}
	g.Nodes[id] = n
	return n
}

// upsertEdge returns the edge for (sourceID, targetID, usageType), creating
// it on first sight.
func (g *Graph) upsertEdge(sourceID, targetID, usageType string) *Edge {
	key := EdgeKey(sourceID, targetID, usageType)
	if e, ok := g.Edges[key]; ok {
		return e
	}
	e := &Edge{
		ID:        key,
		SourceID:  sourceID,
		TargetID:  targetID,
		UsageType: usageType,
		FileIDs:   make(map[string]struct{}),
	}
	g.Edges[key] = e
	return e
}

// observe extends the node's activity range to include tMs. The first
// observation seeds both bounds so a record at the epoch is not mistaken for
// an unset range.
func (n *Node) observe(tMs int64) {
	if !n.observed {
		n.observed = true
		n.FirstSeenMs = tMs
		n.LastSeenMs = tMs
		return
	}
	if tMs < n.FirstSeenMs {
		n.FirstSeenMs = tMs
	}
	if tMs > n.LastSeenMs {
		n.LastSeenMs = tMs
	}
}
