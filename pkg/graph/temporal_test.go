package graph

import (
	"testing"

	"github.com/cdrlens/cdrlens/pkg/interval"
	"github.com/cdrlens/cdrlens/pkg/logging"
	"github.com/cdrlens/cdrlens/pkg/records"
)

func buildTemporalFixture(t *testing.T) *Graph {
	t.Helper()
	b, err := NewBuilder(DefaultConfig(), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	recs := []records.InteractionRecord{
		{InitiatorID: "A", RecipientID: "B", UsageType: records.UsageOutgoingCall, TimestampMs: 100, DurationSeconds: 10, FileID: "f1"},
		{InitiatorID: "B", RecipientID: "C", UsageType: records.UsageOutgoingCall, TimestampMs: 500, DurationSeconds: 20, FileID: "f1"},
		{InitiatorID: "C", RecipientID: "D", UsageType: records.UsageOutgoingSMS, TimestampMs: 900, FileID: "f1"},
	}
	return b.Build(recs, "").Graph
}

func TestFilterByWindow_EmptyWindow(t *testing.T) {
	g := buildTemporalFixture(t)

	// Window entirely outside all activity
	filtered := FilterByWindow(g, interval.NewSpan(5000, 6000))
	if filtered.NodeCount() != 0 || filtered.EdgeCount() != 0 {
		t.Errorf("Expected empty graph, got %d nodes / %d edges",
			filtered.NodeCount(), filtered.EdgeCount())
	}
}

func TestFilterByWindow_FullSpanIsIdentity(t *testing.T) {
	g := buildTemporalFixture(t)

	filtered := FilterByWindow(g, g.FullSpan())
	assertGraphsEqual(t, g, filtered)
}

func TestFilterByWindow_Partial(t *testing.T) {
	g := buildTemporalFixture(t)

	// Window covering only the first interaction
	filtered := FilterByWindow(g, interval.NewSpan(0, 200))

	if filtered.NodeCount() != 2 {
		t.Fatalf("Expected nodes A and B, got %v", filtered.NodeIDs())
	}
	if _, err := filtered.Node("A"); err != nil {
		t.Error("Expected node A to survive")
	}
	if _, err := filtered.Node("D"); err == nil {
		t.Error("Expected node D to be filtered out")
	}
	if filtered.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", filtered.EdgeCount())
	}
}

// TestFilterByWindow_EdgeNeedsBothEndpoints covers the subset property: a
// surviving edge implies both endpoints survived.
func TestFilterByWindow_EdgeNeedsBothEndpoints(t *testing.T) {
	g := buildTemporalFixture(t)

	for _, window := range []interval.Span{
		interval.NewSpan(0, 200),
		interval.NewSpan(400, 600),
		interval.NewSpan(100, 901),
		interval.NewSpan(899, 10000),
	} {
		filtered := FilterByWindow(g, window)
		for id, e := range filtered.Edges {
			if _, ok := filtered.Nodes[e.SourceID]; !ok {
				t.Errorf("Window %v: edge %s has missing source", window, id)
			}
			if _, ok := filtered.Nodes[e.TargetID]; !ok {
				t.Errorf("Window %v: edge %s has missing target", window, id)
			}
		}
	}
}

func TestFilterByWindow_Idempotent(t *testing.T) {
	g := buildTemporalFixture(t)
	window := interval.NewSpan(400, 950)

	once := FilterByWindow(g, window)
	twice := FilterByWindow(once, window)
	assertGraphsEqual(t, once, twice)
}

// TestFilterByWindow_NonDestructive verifies the source graph is untouched
// and the result shares no structures with it.
func TestFilterByWindow_NonDestructive(t *testing.T) {
	g := buildTemporalFixture(t)
	nodesBefore, edgesBefore := g.NodeCount(), g.EdgeCount()

	filtered := FilterByWindow(g, interval.NewSpan(0, 200))

	if g.NodeCount() != nodesBefore || g.EdgeCount() != edgesBefore {
		t.Fatal("Source graph was mutated by filtering")
	}

	// Mutating the result must not show through
	filtered.Nodes["A"].CallCount = 999
	filtered.Nodes["A"].FileIDs["injected"] = struct{}{}
	if g.Nodes["A"].CallCount == 999 {
		t.Error("Filtered node aliases source node")
	}
	if _, ok := g.Nodes["A"].FileIDs["injected"]; ok {
		t.Error("Filtered node shares FileIDs set with source")
	}
}

func TestFilterByWindow_InvertedWindow(t *testing.T) {
	g := buildTemporalFixture(t)
	filtered := FilterByWindow(g, interval.NewSpan(900, 100))
	if filtered.NodeCount() != 0 {
		t.Errorf("Expected empty result for inverted window, got %d nodes", filtered.NodeCount())
	}
}
