// Package session holds the working-session state around the graph: the
// current selection, start/end designation and the edit mode. It replaces the
// ambient globals of a typical canvas UI with one explicit struct owned by
// the application root.
package session

import (
	"sync"

	"github.com/vk/pathlab/internal/graph"
)

// Role is a node's designation within the session.
type Role int

const (
	RoleNone Role = iota
	RoleStart
	RoleEnd
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	default:
		return "none"
	}
}

// Mode is the current interpretation of canvas clicks.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAddingNode
	ModeAddingEdge
)

func (m Mode) String() string {
	switch m {
	case ModeAddingNode:
		return "adding-node"
	case ModeAddingEdge:
		return "adding-edge"
	default:
		return "idle"
	}
}

// State is the session state. Each reference, when set, names an existing
// node; references are invalidated automatically when that node is removed
// (the model's removal hook calls Invalidate).
type State struct {
	mu       sync.RWMutex
	selected graph.NodeID
	start    graph.NodeID
	end      graph.NodeID
	mode     Mode
	pending  graph.NodeID // first endpoint while in ModeAddingEdge
}

// New creates an empty session and wires its invalidation into the model.
func New(m *graph.Model) *State {
	s := &State{}
	m.OnNodeRemoved(s.Invalidate)
	m.OnReset(s.Reset)
	return s
}

// Selected returns the selected node, or graph.None.
func (s *State) Selected() graph.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Select marks a node as selected.
func (s *State) Select(id graph.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Deselect clears the selection.
func (s *State) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = graph.None
}

// Start returns the start node, or graph.None.
func (s *State) Start() graph.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

// End returns the end node, or graph.None.
func (s *State) End() graph.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.end
}

// RoleOf derives a node's designation. A node may hold both roles; callers
// that care check IsStart/IsEnd individually.
func (s *State) RoleOf(id graph.NodeID) (isStart, isEnd bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return id != graph.None && id == s.start, id != graph.None && id == s.end
}

// SetRole designates id as the start or end node. It returns the previous
// holder whose visual state must revert to default: that is the displaced
// node unless it is the new node itself or still holds the other role.
func (s *State) SetRole(id graph.NodeID, role Role) (displaced graph.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev graph.NodeID
	switch role {
	case RoleStart:
		prev = s.start
		s.start = id
	case RoleEnd:
		prev = s.end
		s.end = id
	default:
		return graph.None
	}

	if prev == graph.None || prev == id {
		return graph.None
	}
	// Still start and end at once? Keep its remaining color.
	if prev == s.start || prev == s.end {
		return graph.None
	}
	return prev
}

// Mode returns the edit mode and, for ModeAddingEdge, the pending endpoint.
func (s *State) Mode() (Mode, graph.NodeID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, s.pending
}

// SetMode switches the edit mode and clears any pending endpoint.
func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.pending = graph.None
}

// SetPending records the first endpoint of an edge being placed.
func (s *State) SetPending(id graph.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = id
}

// Invalidate clears every reference to a removed node.
func (s *State) Invalidate(id graph.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == id {
		s.selected = graph.None
	}
	if s.start == id {
		s.start = graph.None
	}
	if s.end == id {
		s.end = graph.None
	}
	if s.pending == id {
		s.pending = graph.None
	}
}

// Reset clears the whole session. Wired to graph clear/regenerate.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = graph.None
	s.start = graph.None
	s.end = graph.None
	s.mode = ModeIdle
	s.pending = graph.None
}
