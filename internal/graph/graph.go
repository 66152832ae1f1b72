package graph

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"
)

// NodeID identifies a node. Valid ids are positive; the zero value means "no node".
type NodeID int

// EdgeID identifies an edge. Valid ids are positive; the zero value means "no edge".
type EdgeID int

// None is the null NodeID.
const None NodeID = 0

func (id NodeID) String() string { return strconv.Itoa(int(id)) }

// Position is an optional 2D coordinate assigned by layout or explicit placement.
type Position struct {
	X float64
	Y float64
}

// Node is a vertex of the working graph. Role and visual state are derived
// elsewhere (session, replay) and deliberately not stored here.
type Node struct {
	ID    NodeID
	Label string
	Pos   *Position
}

// Edge is a directed weighted edge. Self-loops (From == To) are allowed.
type Edge struct {
	ID     EdgeID
	From   NodeID
	To     NodeID
	Weight int
}

var (
	// ErrInvalidReference reports a mutation that names a missing node.
	ErrInvalidReference = errors.New("edge endpoint references a missing node")
	// ErrNotFound reports removal of a missing node or edge.
	ErrNotFound = errors.New("not found")
)

type pair struct {
	from NodeID
	to   NodeID
}

// Model is the single shared mutable graph. A mutex guards it because canvas
// callbacks arrive on transport goroutines; during a replay the run gate
// additionally makes access exclusive by turn.
type Model struct {
	mu       sync.RWMutex
	nodes    map[NodeID]*Node
	edges    map[EdgeID]*Edge
	byPair   map[pair]EdgeID
	nextEdge EdgeID

	removeHooks []func(NodeID)
	resetHooks  []func()
}

// New creates an empty graph model.
func New() *Model {
	return &Model{
		nodes:  make(map[NodeID]*Node),
		edges:  make(map[EdgeID]*Edge),
		byPair: make(map[pair]EdgeID),
	}
}

// OnNodeRemoved registers a hook invoked after a node (and its incident
// edges) has been removed. Used by the session to invalidate references.
func (m *Model) OnNodeRemoved(fn func(NodeID)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeHooks = append(m.removeHooks, fn)
}

// OnReset registers a hook invoked after the whole graph has been replaced
// or cleared.
func (m *Model) OnReset(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetHooks = append(m.resetHooks, fn)
}

// AddNode allocates the smallest unused positive id, labels the node with its
// id and returns a copy of it. It cannot fail.
func (m *Model) AddNode(pos *Position) Node {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := NodeID(1)
	for {
		if _, taken := m.nodes[id]; !taken {
			break
		}
		id++
	}

	n := &Node{ID: id, Label: id.String()}
	if pos != nil {
		p := *pos
		n.Pos = &p
	}
	m.nodes[id] = n
	return *n
}

// Node returns a copy of the node with the given id.
func (m *Model) Node(id NodeID) (Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge with the given id.
func (m *Model) Edge(id EdgeID) (Edge, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// EdgeBetween resolves the edge for the exact ordered pair (from, to).
func (m *Model) EdgeBetween(from, to NodeID) (Edge, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byPair[pair{from, to}]
	if !ok {
		return Edge{}, false
	}
	return *m.edges[id], true
}

// FindConnection resolves the edge between two nodes irrespective of stored
// direction: (a,b) wins over (b,a) when both exist. The replay engine uses it
// because solver steps reference node pairs without guaranteeing orientation.
func (m *Model) FindConnection(a, b NodeID) (Edge, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byPair[pair{a, b}]; ok {
		return *m.edges[id], true
	}
	if id, ok := m.byPair[pair{b, a}]; ok {
		return *m.edges[id], true
	}
	return Edge{}, false
}

// AddOrReplaceEdge creates the edge (from, to) with the given weight, or, if
// one already exists for that ordered pair, replaces its weight in place
// keeping the same id. Both endpoints must exist.
func (m *Model) AddOrReplaceEdge(from, to NodeID, weight int) (Edge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[from]; !ok {
		return Edge{}, fmt.Errorf("add edge %d->%d: %w", from, to, ErrInvalidReference)
	}
	if _, ok := m.nodes[to]; !ok {
		return Edge{}, fmt.Errorf("add edge %d->%d: %w", from, to, ErrInvalidReference)
	}

	if id, ok := m.byPair[pair{from, to}]; ok {
		m.edges[id].Weight = weight
		return *m.edges[id], nil
	}

	m.nextEdge++
	e := &Edge{ID: m.nextEdge, From: from, To: to, Weight: weight}
	m.edges[e.ID] = e
	m.byPair[pair{from, to}] = e.ID
	return *e, nil
}

// RemoveNode removes the node and cascades removal of every edge where it
// appears as either endpoint, including its self-loop. Removal hooks fire
// after the model is consistent again.
func (m *Model) RemoveNode(id NodeID) ([]Edge, error) {
	m.mu.Lock()

	if _, ok := m.nodes[id]; !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("remove node %d: %w", id, ErrNotFound)
	}

	var removed []Edge
	for eid, e := range m.edges {
		if e.From == id || e.To == id {
			removed = append(removed, *e)
			delete(m.byPair, pair{e.From, e.To})
			delete(m.edges, eid)
		}
	}
	delete(m.nodes, id)
	hooks := append([]func(NodeID){}, m.removeHooks...)
	m.mu.Unlock()

	sort.Slice(removed, func(i, j int) bool { return removed[i].ID < removed[j].ID })
	for _, fn := range hooks {
		fn(id)
	}
	return removed, nil
}

// RemoveEdge removes a single edge. No cascade.
func (m *Model) RemoveEdge(id EdgeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.edges[id]
	if !ok {
		return fmt.Errorf("remove edge %d: %w", id, ErrNotFound)
	}
	delete(m.byPair, pair{e.From, e.To})
	delete(m.edges, id)
	return nil
}

// Clear empties the graph and fires the reset hooks.
func (m *Model) Clear() {
	m.mu.Lock()
	m.nodes = make(map[NodeID]*Node)
	m.edges = make(map[EdgeID]*Edge)
	m.byPair = make(map[pair]EdgeID)
	m.nextEdge = 0
	hooks := append([]func(){}, m.resetHooks...)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// GenerateRandom replaces the graph with nodeCount nodes (ids 1..nodeCount)
// and, for every ordered pair (i,j) with i<j, independently a directed edge
// i->j with the given probability and a uniform weight in [1,20]. Session
// state is reset through the reset hooks.
func (m *Model) GenerateRandom(nodeCount int, edgeProbability float64) {
	m.Clear()

	m.mu.Lock()
	for i := 1; i <= nodeCount; i++ {
		id := NodeID(i)
		m.nodes[id] = &Node{ID: id, Label: id.String()}
	}
	for i := 1; i <= nodeCount; i++ {
		for j := i + 1; j <= nodeCount; j++ {
			if rand.Float64() >= edgeProbability {
				continue
			}
			m.nextEdge++
			e := &Edge{ID: m.nextEdge, From: NodeID(i), To: NodeID(j), Weight: rand.IntN(20) + 1}
			m.edges[e.ID] = e
			m.byPair[pair{e.From, e.To}] = e.ID
		}
	}
	m.mu.Unlock()
}

// Nodes returns a snapshot of all nodes ordered by id.
func (m *Model) Nodes() []Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns a snapshot of all edges ordered by id.
func (m *Model) Edges() []Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, 0, len(m.edges))
	for _, e := range m.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeCount reports the number of nodes.
func (m *Model) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// EdgeCount reports the number of edges.
func (m *Model) EdgeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.edges)
}
