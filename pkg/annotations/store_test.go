package annotations

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/records"
)

func TestStore_LabelLifecycle(t *testing.T) {
	s := NewStore()

	if _, ok := s.Label("5550001"); ok {
		t.Fatal("expected no label on fresh store")
	}

	s.SetLabel("5550001", "Primary suspect")
	label, ok := s.Label("5550001")
	if !ok || label != "Primary suspect" {
		t.Fatalf("got (%q, %v), want (\"Primary suspect\", true)", label, ok)
	}

	// Overwrite replaces, not appends.
	s.SetLabel("5550001", "Cleared")
	if label, _ := s.Label("5550001"); label != "Cleared" {
		t.Fatalf("got %q after overwrite, want \"Cleared\"", label)
	}

	s.RemoveLabel("5550001")
	if _, ok := s.Label("5550001"); ok {
		t.Fatal("label survived removal")
	}

	// Removing an absent id is a no-op.
	s.RemoveLabel("unknown")
}

func TestStore_ColorsAndIcons(t *testing.T) {
	s := NewStore()

	s.SetNodeColor("a", "#ff0000")
	s.SetNodeIcon("a", "star")
	s.SetEdgeColor("a|b|outgoing_call", "#00ff00")

	if c, ok := s.NodeColor("a"); !ok || c != "#ff0000" {
		t.Fatalf("node color = (%q, %v)", c, ok)
	}
	if ic, ok := s.NodeIcon("a"); !ok || ic != "star" {
		t.Fatalf("node icon = (%q, %v)", ic, ok)
	}
	if c, ok := s.EdgeColor("a|b|outgoing_call"); !ok || c != "#00ff00" {
		t.Fatalf("edge color = (%q, %v)", c, ok)
	}

	s.RemoveNodeColor("a")
	s.RemoveNodeIcon("a")
	s.RemoveEdgeColor("a|b|outgoing_call")

	if _, ok := s.NodeColor("a"); ok {
		t.Fatal("node color survived removal")
	}
	if _, ok := s.NodeIcon("a"); ok {
		t.Fatal("node icon survived removal")
	}
	if _, ok := s.EdgeColor("a|b|outgoing_call"); ok {
		t.Fatal("edge color survived removal")
	}
}

func TestStore_Visibility(t *testing.T) {
	s := NewStore()

	s.HideNode("a")
	s.HideNode("b")
	s.HideEdge("a|b|outgoing_call")

	if !s.IsNodeHidden("a") || !s.IsNodeHidden("b") {
		t.Fatal("hidden nodes not reported hidden")
	}
	if s.IsNodeHidden("c") {
		t.Fatal("untouched node reported hidden")
	}
	if !s.IsEdgeHidden("a|b|outgoing_call") {
		t.Fatal("hidden edge not reported hidden")
	}

	got := s.HiddenNodeIDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("HiddenNodeIDs = %v, want [a b]", got)
	}

	s.ShowNode("a")
	if s.IsNodeHidden("a") {
		t.Fatal("node still hidden after show")
	}
	if !s.IsNodeHidden("b") {
		t.Fatal("show of one node cleared another")
	}

	s.ShowEdge("a|b|outgoing_call")
	if s.IsEdgeHidden("a|b|outgoing_call") {
		t.Fatal("edge still hidden after show")
	}
}

func TestStore_AnnotationsSurviveRebuildSemantics(t *testing.T) {
	// The store never validates ids, so an annotation set against a node
	// that is absent from the current graph is kept and becomes visible
	// again when a rebuild brings the node back.
	s := NewStore()
	s.SetLabel("not-in-any-graph", "pending")

	label, ok := s.Label("not-in-any-graph")
	if !ok || label != "pending" {
		t.Fatalf("got (%q, %v), want (\"pending\", true)", label, ok)
	}
}

func TestStore_Resets(t *testing.T) {
	populate := func() *Store {
		s := NewStore()
		s.SetLabel("a", "L")
		s.SetNodeColor("a", "#111111")
		s.SetNodeIcon("a", "flag")
		s.SetEdgeColor("e", "#222222")
		s.HideNode("a")
		s.HideEdge("e")
		return s
	}

	s := populate()
	s.ResetLabels()
	if _, ok := s.Label("a"); ok {
		t.Fatal("ResetLabels left a label")
	}
	if _, ok := s.NodeColor("a"); !ok {
		t.Fatal("ResetLabels cleared node colors")
	}

	s = populate()
	s.ResetNodeColors()
	if _, ok := s.NodeColor("a"); ok {
		t.Fatal("ResetNodeColors left a color")
	}

	s = populate()
	s.ResetNodeIcons()
	if _, ok := s.NodeIcon("a"); ok {
		t.Fatal("ResetNodeIcons left an icon")
	}

	s = populate()
	s.ResetEdgeColors()
	if _, ok := s.EdgeColor("e"); ok {
		t.Fatal("ResetEdgeColors left a color")
	}

	s = populate()
	s.ResetHidden()
	if s.IsNodeHidden("a") || s.IsEdgeHidden("e") {
		t.Fatal("ResetHidden left hidden entries")
	}

	s = populate()
	s.ResetAll()
	snap := s.Snapshot()
	if len(snap.NodeLabels) != 0 || len(snap.NodeColors) != 0 ||
		len(snap.NodeIcons) != 0 || len(snap.EdgeColors) != 0 ||
		len(snap.HiddenNodeIDs) != 0 || len(snap.HiddenEdgeIDs) != 0 {
		t.Fatalf("ResetAll left state: %+v", snap)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.SetLabel("a", "L")

	snap := s.Snapshot()
	snap.NodeLabels["a"] = "mutated"

	if label, _ := s.Label("a"); label != "L" {
		t.Fatalf("snapshot mutation leaked into store: %q", label)
	}
}

func TestDisplayNodeColor_Precedence(t *testing.T) {
	s := NewStore()
	node := &graph.Node{ID: "5550001", IsAParty: true, IsHub: true}

	// Custom beats everything.
	s.SetNodeColor("5550001", "#custom")
	if got := DisplayNodeColor(s, node); got != "#custom" {
		t.Fatalf("got %q, want custom color", got)
	}

	// A-Party beats hub.
	s.RemoveNodeColor("5550001")
	if got := DisplayNodeColor(s, node); got != ColorAParty {
		t.Fatalf("got %q, want A-Party color", got)
	}

	node.IsAParty = false
	if got := DisplayNodeColor(s, node); got != ColorHub {
		t.Fatalf("got %q, want hub color", got)
	}

	node.IsHub = false
	if got := DisplayNodeColor(s, node); got != ColorDefaultNode {
		t.Fatalf("got %q, want default color", got)
	}

	// Nil store falls through to role colors.
	node.IsHub = true
	if got := DisplayNodeColor(nil, node); got != ColorHub {
		t.Fatalf("got %q with nil store, want hub color", got)
	}
}

func TestDisplayEdgeColor_Precedence(t *testing.T) {
	s := NewStore()
	edge := &graph.Edge{
		ID:        graph.EdgeKey("a", "b", records.UsageOutgoingSMS),
		UsageType: records.UsageOutgoingSMS,
	}

	s.SetEdgeColor(edge.ID, "#custom")
	if got := DisplayEdgeColor(s, edge); got != "#custom" {
		t.Fatalf("got %q, want custom color", got)
	}

	s.RemoveEdgeColor(edge.ID)
	if got := DisplayEdgeColor(s, edge); got != ColorTextMessage {
		t.Fatalf("got %q, want SMS color", got)
	}

	edge.UsageType = "unknown_usage"
	if got := DisplayEdgeColor(s, edge); got != ColorDefaultEdge {
		t.Fatalf("got %q, want default edge color", got)
	}
}

func TestDisplayLabel(t *testing.T) {
	s := NewStore()
	node := &graph.Node{ID: "5550001"}

	if got := DisplayLabel(s, node); got != "5550001" {
		t.Fatalf("got %q, want node id fallback", got)
	}

	s.SetLabel("5550001", "Burner A")
	if got := DisplayLabel(s, node); got != "Burner A" {
		t.Fatalf("got %q, want custom label", got)
	}
}

// TestStore_ConcurrentAccess exercises the overlay under parallel writers and
// readers; run with -race to catch unsynchronized map access.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			id := fmt.Sprintf("555000%d", worker)
			for j := 0; j < 100; j++ {
				s.SetLabel(id, "suspect")
				s.SetNodeColor(id, "#d93025")
				s.HideNode(id)
				s.Label(id)
				s.IsNodeHidden(id)
				s.Snapshot()
				s.ShowNode(id)
				s.RemoveLabel(id)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			s.HiddenNodeIDs()
			s.ResetEdgeColors()
		}
	}()
	wg.Wait()

	s.ResetAll()
	snap := s.Snapshot()
	if len(snap.NodeLabels) != 0 || len(snap.HiddenNodeIDs) != 0 {
		t.Fatalf("expected empty overlay after reset, got %+v", snap)
	}
}
