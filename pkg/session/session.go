// Package session ties the engine together for one investigation: the loaded
// record set, the engine configuration, the annotation overlay, and the
// analyst's current window and highlight criteria. The built graph is
// memoized against a fingerprint of its inputs so repeated reads after
// unrelated interactions do not pay for a rebuild.
package session

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cdrlens/cdrlens/pkg/analysis"
	"github.com/cdrlens/cdrlens/pkg/annotations"
	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/interval"
	"github.com/cdrlens/cdrlens/pkg/logging"
	"github.com/cdrlens/cdrlens/pkg/records"
)

// Session is the unit of isolation: one analyst, one record set, one overlay.
// All methods are safe for concurrent use; the annotation store carries its
// own lock, so handlers may mutate the overlay without holding the session.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time
	cfg       graph.Config
	logger    logging.Logger
	store     *annotations.Store

	recs      []records.InteractionRecord
	subjectID string
	window    *interval.Span
	criteria  analysis.HighlightCriteria

	built    *graph.BuildResult
	buildKey uint64
	hubs     []string
}

// New creates a session with a fresh id and empty state.
func New(cfg graph.Config, logger logging.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	id := uuid.New().String()
	return &Session{
		id:        id,
		createdAt: time.Now(),
		cfg:       cfg,
		logger:    logger.With(logging.Component("session"), logging.SessionID(id)),
		store:     annotations.NewStore(),
	}, nil
}

// ID returns the session's uuid.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns the session's creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Config returns the engine configuration the session builds with.
func (s *Session) Config() graph.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// LoadRecords replaces the session's record set and subject. Annotations
// survive the swap; the memoized graph does not.
func (s *Session) LoadRecords(recs []records.InteractionRecord, subjectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs = make([]records.InteractionRecord, len(recs))
	copy(s.recs, recs)
	s.subjectID = subjectID

	s.logger.Info("records loaded",
		logging.RecordCount(len(recs)),
		logging.PartyID(subjectID))
}

// RecordCount returns the number of loaded records, before any skipping.
func (s *Session) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

// Graph returns the aggregated graph for the loaded records, building it if
// the inputs changed since the last call. Hub flags are refreshed with every
// rebuild.
func (s *Session) Graph() (*graph.BuildResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graphLocked()
}

func (s *Session) graphLocked() (*graph.BuildResult, error) {
	key := s.fingerprint()
	if s.built != nil && key == s.buildKey {
		return s.built, nil
	}

	b, err := graph.NewBuilder(s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	res := b.Build(s.recs, s.subjectID)
	hubs := graph.DetectHubs(res.Graph, s.cfg)

	s.built = res
	s.buildKey = key
	s.hubs = hubs
	return res, nil
}

// fingerprint hashes everything Build consumes. Caller holds the lock.
func (s *Session) fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeString := func(v string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(v)))
		h.Write(buf[:])
		h.Write([]byte(v))
	}
	writeInt64 := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeString(s.subjectID)
	writeInt64(int64(s.cfg.RecordCap))
	writeInt64(int64(s.cfg.HubMinNodes))
	writeInt64(int64(s.cfg.HubMultiplier * 1e6))

	for i := range s.recs {
		r := &s.recs[i]
		writeString(r.InitiatorID)
		writeString(r.RecipientID)
		writeString(r.UsageType)
		writeInt64(r.TimestampMs)
		writeInt64(r.DurationSeconds)
		writeString(r.TowerID)
		writeString(r.DeviceID)
		writeString(r.FileID)
	}
	return h.Sum64()
}

// Hubs returns the hub node ids for the current graph, sorted.
func (s *Session) Hubs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.graphLocked(); err != nil {
		return nil, err
	}
	out := make([]string, len(s.hubs))
	copy(out, s.hubs)
	return out, nil
}

// SetWindow restricts the session's view to the given time window.
func (s *Session) SetWindow(window interval.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := window
	s.window = &w
	s.logger.Debug("window set", logging.WindowMs(window.StartMs, window.EndMs))
}

// ClearWindow restores the full-span view.
func (s *Session) ClearWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = nil
}

// Window returns the active window, if any.
func (s *Session) Window() (interval.Span, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil {
		return interval.Span{}, false
	}
	return *s.window, true
}

// View returns the graph the analyst currently sees: the built graph when no
// window is active, otherwise a filtered copy. The filtered copy is safe to
// mutate; the memoized graph is shared and is not.
func (s *Session) View() (*graph.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.graphLocked()
	if err != nil {
		return nil, err
	}
	if s.window == nil {
		return res.Graph, nil
	}
	return graph.FilterByWindow(res.Graph, *s.window), nil
}

// SetHighlight stores the session's highlight criteria.
func (s *Session) SetHighlight(c analysis.HighlightCriteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

// Highlight evaluates the stored criteria against the current view.
// selectedFileIDs scopes the common-across-files criterion.
func (s *Session) Highlight(selectedFileIDs []string) (*analysis.HighlightResult, error) {
	s.mu.Lock()
	c := s.criteria
	s.mu.Unlock()

	view, err := s.View()
	if err != nil {
		return nil, err
	}
	return analysis.EvaluateHighlight(view, c, selectedFileIDs), nil
}

// FindPath runs a shortest-path query between two nodes on the current view.
func (s *Session) FindPath(sourceID, targetID string) (*analysis.PathResult, error) {
	view, err := s.View()
	if err != nil {
		return nil, err
	}
	res := analysis.FindPath(view, sourceID, targetID)

	s.mu.Lock()
	s.logger.Debug("path query",
		logging.PartyID(sourceID),
		logging.String("target_id", targetID),
		logging.Bool("found", res.Found))
	s.mu.Unlock()
	return res, nil
}

// Annotations returns the session's overlay store. The store is safe for
// concurrent use; callers must not share it across sessions.
func (s *Session) Annotations() *annotations.Store {
	return s.store
}

// Manager hands out sessions by id. It exists so transports can route
// requests to the right session without owning session semantics.
type Manager struct {
	mu       sync.RWMutex
	cfg      graph.Config
	logger   logging.Logger
	sessions map[string]*Session
}

// NewManager creates a session manager that stamps every new session with
// the given configuration.
func NewManager(cfg graph.Config, logger logging.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}, nil
}

// Create opens a new session and registers it.
func (m *Manager) Create() (*Session, error) {
	s, err := New(m.cfg, m.logger)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get retrieves a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close drops a session. Its annotations are gone with it.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
