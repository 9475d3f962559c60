// Package annotations holds the investigator's overlay state: custom labels,
// colors, icons, and visibility toggles keyed by stable node/edge ids. The
// store is owned by the session, not by any Graph instance, so annotations
// survive graph rebuilds as long as ids are stable.
package annotations

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Store keeps the overlay maps. Ids are not validated against any graph:
// an annotation set before a rebuild stays valid after one. The store carries
// its own lock; concurrent requests against one session mutate and read the
// overlay without going through the session mutex.
type Store struct {
	mu          sync.RWMutex
	nodeLabels  map[string]string
	nodeColors  map[string]string
	nodeIcons   map[string]string
	edgeColors  map[string]string
	hiddenNodes map[string]struct{}
	hiddenEdges map[string]struct{}
}

// NewStore creates an empty annotation store.
func NewStore() *Store {
	return &Store{
		nodeLabels:  make(map[string]string),
		nodeColors:  make(map[string]string),
		nodeIcons:   make(map[string]string),
		edgeColors:  make(map[string]string),
		hiddenNodes: make(map[string]struct{}),
		hiddenEdges: make(map[string]struct{}),
	}
}

// Labels

func (s *Store) SetLabel(nodeID, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeLabels[nodeID] = label
}

func (s *Store) RemoveLabel(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodeLabels, nodeID)
}

func (s *Store) Label(nodeID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	label, ok := s.nodeLabels[nodeID]
	return label, ok
}

// Node colors

func (s *Store) SetNodeColor(nodeID, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeColors[nodeID] = color
}

func (s *Store) RemoveNodeColor(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodeColors, nodeID)
}

func (s *Store) NodeColor(nodeID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	color, ok := s.nodeColors[nodeID]
	return color, ok
}

// Node icons

func (s *Store) SetNodeIcon(nodeID, icon string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeIcons[nodeID] = icon
}

func (s *Store) RemoveNodeIcon(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodeIcons, nodeID)
}

func (s *Store) NodeIcon(nodeID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	icon, ok := s.nodeIcons[nodeID]
	return icon, ok
}

// Edge colors

func (s *Store) SetEdgeColor(edgeID, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edgeColors[edgeID] = color
}

func (s *Store) RemoveEdgeColor(edgeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edgeColors, edgeID)
}

func (s *Store) EdgeColor(edgeID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	color, ok := s.edgeColors[edgeID]
	return color, ok
}

// Visibility

func (s *Store) HideNode(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hiddenNodes[nodeID] = struct{}{}
}

func (s *Store) ShowNode(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hiddenNodes, nodeID)
}

func (s *Store) IsNodeHidden(nodeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hiddenNodes[nodeID]
	return ok
}

func (s *Store) HideEdge(edgeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hiddenEdges[edgeID] = struct{}{}
}

func (s *Store) ShowEdge(edgeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hiddenEdges, edgeID)
}

func (s *Store) IsEdgeHidden(edgeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hiddenEdges[edgeID]
	return ok
}

// HiddenNodeIDs returns the hidden node ids, sorted.
func (s *Store) HiddenNodeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.hiddenNodes)
}

// HiddenEdgeIDs returns the hidden edge ids, sorted.
func (s *Store) HiddenEdgeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.hiddenEdges)
}

func sortedKeys(set map[string]struct{}) []string {
	ids := maps.Keys(set)
	slices.Sort(ids)
	return ids
}

// Bulk clears

func (s *Store) ResetLabels() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeLabels = make(map[string]string)
}

func (s *Store) ResetNodeColors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeColors = make(map[string]string)
}

func (s *Store) ResetNodeIcons() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeIcons = make(map[string]string)
}

func (s *Store) ResetEdgeColors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edgeColors = make(map[string]string)
}

func (s *Store) ResetHidden() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hiddenNodes = make(map[string]struct{})
	s.hiddenEdges = make(map[string]struct{})
}

// ResetAll clears every overlay atomically.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeLabels = make(map[string]string)
	s.nodeColors = make(map[string]string)
	s.nodeIcons = make(map[string]string)
	s.edgeColors = make(map[string]string)
	s.hiddenNodes = make(map[string]struct{})
	s.hiddenEdges = make(map[string]struct{})
}

// Snapshot is a serializable view of the full overlay state.
type Snapshot struct {
	NodeLabels    map[string]string `json:"node_labels"`
	NodeColors    map[string]string `json:"node_colors"`
	NodeIcons     map[string]string `json:"node_icons"`
	EdgeColors    map[string]string `json:"edge_colors"`
	HiddenNodeIDs []string          `json:"hidden_node_ids"`
	HiddenEdgeIDs []string          `json:"hidden_edge_ids"`
}

// Snapshot returns a consistent copy of the current overlay state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		NodeLabels:    maps.Clone(s.nodeLabels),
		NodeColors:    maps.Clone(s.nodeColors),
		NodeIcons:     maps.Clone(s.nodeIcons),
		EdgeColors:    maps.Clone(s.edgeColors),
		HiddenNodeIDs: sortedKeys(s.hiddenNodes),
		HiddenEdgeIDs: sortedKeys(s.hiddenEdges),
	}
}
