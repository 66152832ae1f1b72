// Package canvas translates model and session state into explicit draw calls
// on the rendering boundary. Nothing here assumes reactive propagation: every
// mutation is followed by the matching upsert/remove.
package canvas

import (
	"context"

	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/render"
	"github.com/vk/pathlab/internal/session"
)

// Canvas pairs the graph model with a renderer and knows how to derive each
// node's resting visual state from its session roles.
type Canvas struct {
	model    *graph.Model
	session  *session.State
	renderer render.Renderer
}

// New creates a canvas coordinator.
func New(m *graph.Model, s *session.State, r render.Renderer) *Canvas {
	return &Canvas{model: m, session: s, renderer: r}
}

func (c *Canvas) nodeView(n graph.Node, state render.VisualState) render.NodeView {
	v := render.NodeView{ID: n.ID, Label: n.Label, State: state}
	if n.Pos != nil {
		v.X, v.Y = n.Pos.X, n.Pos.Y
		v.HasPos = true
	}
	return v
}

// SyncNode redraws one node in its resting, role-derived state.
func (c *Canvas) SyncNode(ctx context.Context, id graph.NodeID) {
	n, ok := c.model.Node(id)
	if !ok {
		return
	}
	c.renderer.UpsertNode(ctx, c.nodeView(n, render.RoleState(c.session.RoleOf(id))))
}

// MarkNode redraws one node in an explicit replay state (visited, frontier, path).
func (c *Canvas) MarkNode(ctx context.Context, id graph.NodeID, state render.VisualState) {
	n, ok := c.model.Node(id)
	if !ok {
		return
	}
	c.renderer.UpsertNode(ctx, c.nodeView(n, state))
}

// SyncEdge redraws one edge without highlighting.
func (c *Canvas) SyncEdge(ctx context.Context, id graph.EdgeID) {
	e, ok := c.model.Edge(id)
	if !ok {
		return
	}
	c.renderer.UpsertEdge(ctx, render.EdgeView{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight})
}

// HighlightEdge redraws one edge with highlighting on or off.
func (c *Canvas) HighlightEdge(ctx context.Context, id graph.EdgeID, on bool) {
	e, ok := c.model.Edge(id)
	if !ok {
		return
	}
	c.renderer.UpsertEdge(ctx, render.EdgeView{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight, Highlighted: on})
}

// RemoveNode erases a node and the edges that were cascaded away with it.
func (c *Canvas) RemoveNode(ctx context.Context, id graph.NodeID, cascaded []graph.Edge) {
	for _, e := range cascaded {
		c.renderer.RemoveEdge(ctx, e.ID)
	}
	c.renderer.RemoveNode(ctx, id)
}

// RemoveEdge erases a single edge.
func (c *Canvas) RemoveEdge(ctx context.Context, id graph.EdgeID) {
	c.renderer.RemoveEdge(ctx, id)
}

// SyncAll redraws the whole graph in resting state and refits the view.
func (c *Canvas) SyncAll(ctx context.Context) {
	for _, n := range c.model.Nodes() {
		c.renderer.UpsertNode(ctx, c.nodeView(n, render.RoleState(c.session.RoleOf(n.ID))))
	}
	for _, e := range c.model.Edges() {
		c.renderer.UpsertEdge(ctx, render.EdgeView{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight})
	}
	c.renderer.FitView(ctx)
}

// Reset restores every node to its resting state (start/end keep their
// colors) and clears all edge highlighting.
func (c *Canvas) Reset(ctx context.Context) {
	for _, n := range c.model.Nodes() {
		c.renderer.UpsertNode(ctx, c.nodeView(n, render.RoleState(c.session.RoleOf(n.ID))))
	}
	for _, e := range c.model.Edges() {
		c.renderer.UpsertEdge(ctx, render.EdgeView{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight})
	}
}
