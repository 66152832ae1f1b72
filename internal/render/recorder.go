package render

import (
	"context"
	"sync"

	"github.com/vk/pathlab/internal/graph"
)

// Recorder is a Renderer that keeps the last applied view per node and edge.
// Tests derive the final canvas state from it instead of watching timing.
type Recorder struct {
	mu    sync.Mutex
	nodes map[graph.NodeID]NodeView
	edges map[graph.EdgeID]EdgeView
	fits  int
}

// NewRecorder creates an empty recording canvas.
func NewRecorder() *Recorder {
	return &Recorder{
		nodes: make(map[graph.NodeID]NodeView),
		edges: make(map[graph.EdgeID]EdgeView),
	}
}

func (r *Recorder) UpsertNode(_ context.Context, n NodeView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[n.ID] = n
}

func (r *Recorder) RemoveNode(_ context.Context, id graph.NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nodes, id)
}

func (r *Recorder) UpsertEdge(_ context.Context, e EdgeView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges[e.ID] = e
}

func (r *Recorder) RemoveEdge(_ context.Context, id graph.EdgeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, id)
}

func (r *Recorder) FitView(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fits++
}

// NodeState returns the last drawn state of a node.
func (r *Recorder) NodeState(id graph.NodeID) (VisualState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	return n.State, ok
}

// EdgeHighlighted reports whether an edge was last drawn highlighted.
func (r *Recorder) EdgeHighlighted(id graph.EdgeID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[id].Highlighted
}

// NodeCount reports how many nodes are currently drawn.
func (r *Recorder) NodeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

// EdgeCount reports how many edges are currently drawn.
func (r *Recorder) EdgeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}
