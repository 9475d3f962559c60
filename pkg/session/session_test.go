package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdrlens/cdrlens/pkg/analysis"
	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/interval"
	"github.com/cdrlens/cdrlens/pkg/records"
)

func testRecords() []records.InteractionRecord {
	return []records.InteractionRecord{
		{InitiatorID: "A", RecipientID: "B", UsageType: records.UsageOutgoingCall, TimestampMs: 100, DurationSeconds: 30, FileID: "f1"},
		{InitiatorID: "B", RecipientID: "C", UsageType: records.UsageOutgoingCall, TimestampMs: 500, DurationSeconds: 10, FileID: "f1"},
		{InitiatorID: "C", RecipientID: "D", UsageType: records.UsageOutgoingSMS, TimestampMs: 900, FileID: "f2"},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(graph.DefaultConfig(), nil)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := graph.DefaultConfig()
	cfg.RecordCap = 0
	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestSession_IDsAreUnique(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSession_GraphBuildsAndMemoizes(t *testing.T) {
	s := newTestSession(t)
	s.LoadRecords(testRecords(), "A")

	first, err := s.Graph()
	require.NoError(t, err)
	assert.Equal(t, 4, first.Graph.NodeCount())
	assert.Equal(t, 3, first.Graph.EdgeCount())
	assert.True(t, first.Graph.Nodes["A"].IsAParty)

	// Same inputs: same build, not a fresh one.
	second, err := s.Graph()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSession_LoadRecordsInvalidatesBuild(t *testing.T) {
	s := newTestSession(t)
	s.LoadRecords(testRecords(), "A")

	first, err := s.Graph()
	require.NoError(t, err)

	recs := append(testRecords(), records.InteractionRecord{
		InitiatorID: "D", RecipientID: "E",
		UsageType: records.UsageOutgoingCall, TimestampMs: 1200,
	})
	s.LoadRecords(recs, "A")

	second, err := s.Graph()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 5, second.Graph.NodeCount())
}

func TestSession_AnnotationsSurviveRebuild(t *testing.T) {
	s := newTestSession(t)
	s.LoadRecords(testRecords(), "A")
	_, err := s.Graph()
	require.NoError(t, err)

	s.Annotations().SetLabel("B", "courier")

	s.LoadRecords(testRecords()[:2], "A")
	_, err = s.Graph()
	require.NoError(t, err)

	label, ok := s.Annotations().Label("B")
	require.True(t, ok)
	assert.Equal(t, "courier", label)
}

func TestSession_WindowedView(t *testing.T) {
	s := newTestSession(t)
	s.LoadRecords(testRecords(), "A")

	full, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, 4, full.NodeCount())

	s.SetWindow(interval.NewSpan(0, 200))
	view, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, 2, view.NodeCount())
	assert.Equal(t, 1, view.EdgeCount())

	// The filtered view is a copy; the memoized graph is untouched.
	delete(view.Nodes, "A")
	again, err := s.Graph()
	require.NoError(t, err)
	assert.Equal(t, 4, again.Graph.NodeCount())

	s.ClearWindow()
	restored, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, 4, restored.NodeCount())
}

func TestSession_Hubs(t *testing.T) {
	gen := records.NewGenerator(7)
	recs := gen.Generate(records.GenerateOptions{
		Parties:     12,
		Records:     200,
		Files:       2,
		Towers:      3,
		StartMs:     1_000,
		WindowMs:    600_000,
		HubParty:    3,
		HubFraction: 75,
	})

	s := newTestSession(t)
	s.LoadRecords(recs, "")

	hubs, err := s.Hubs()
	require.NoError(t, err)
	assert.Contains(t, hubs, "55501003")
}

func TestSession_HighlightUsesView(t *testing.T) {
	s := newTestSession(t)
	s.LoadRecords(testRecords(), "A")
	s.SetHighlight(analysis.HighlightCriteria{
		UsageTypes: []string{records.UsageOutgoingSMS},
	})

	res, err := s.Highlight(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"C|D|outgoing_sms"}, res.EdgeIDs())

	// The SMS edge is outside this window, so the highlight finds nothing.
	s.SetWindow(interval.NewSpan(0, 600))
	res, err = s.Highlight(nil)
	require.NoError(t, err)
	assert.False(t, res.NoOp)
	assert.Zero(t, res.MatchCount())
}

func TestSession_FindPath(t *testing.T) {
	s := newTestSession(t)
	s.LoadRecords(testRecords(), "A")

	res, err := s.FindPath("A", "D")
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []string{"A", "B", "C", "D"}, res.NodeIDs)

	// Window the middle out and the path query fails on the missing node.
	s.SetWindow(interval.NewSpan(0, 200))
	res, err = s.FindPath("A", "D")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, analysis.FailureNodeNotFound, res.FailureReason)
}

func TestManager_Lifecycle(t *testing.T) {
	m, err := NewManager(graph.DefaultConfig(), nil)
	require.NoError(t, err)

	s, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("no-such-session")
	assert.False(t, ok)

	m.Close(s.ID())
	assert.Equal(t, 0, m.Count())
	_, ok = m.Get(s.ID())
	assert.False(t, ok)
}
