package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/pathlab/internal/canvas"
	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/render"
	"github.com/vk/pathlab/internal/session"
)

// WeightPrompter asks the user for an integer edge weight. ok is false when
// the user cancelled; the editor then leaves the graph untouched.
type WeightPrompter interface {
	AskWeight(ctx context.Context, from, to graph.NodeID) (weight int, ok bool, err error)
}

// Gate reports whether a run is in flight. Editing is disabled while it is.
type Gate interface {
	InFlight() bool
}

// ErrEditingDisabled reports a gesture refused during a replay.
var ErrEditingDisabled = errors.New("editing is disabled while a run is in flight")

// Tool is the selected editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolAddNode
	ToolAddEdge
)

// Editor is the gesture state machine.
type Editor struct {
	mu       sync.Mutex
	model    *graph.Model
	session  *session.State
	canvas   *canvas.Canvas
	prompter WeightPrompter
	gate     Gate
}

// New creates an editor.
func New(m *graph.Model, s *session.State, c *canvas.Canvas, p WeightPrompter, g Gate) *Editor {
	return &Editor{model: m, session: s, canvas: c, prompter: p, gate: g}
}

func (e *Editor) guard() error {
	if e.gate != nil && e.gate.InFlight() {
		return ErrEditingDisabled
	}
	return nil
}

// SelectTool switches the edit mode.
func (e *Editor) SelectTool(ctx context.Context, t Tool) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	switch t {
	case ToolAddNode:
		e.session.SetMode(session.ModeAddingNode)
	case ToolAddEdge:
		e.session.SetMode(session.ModeAddingEdge)
	default:
		e.session.SetMode(session.ModeIdle)
	}
	ctxlog.FromContext(ctx).Debug("Edit tool selected.", "tool", t)
	return nil
}

// HandleClick dispatches a hit-tested canvas click according to the current
// edit mode.
func (e *Editor) HandleClick(ctx context.Context, hit render.Hit) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	mode, pending := e.session.Mode()
	switch mode {
	case session.ModeAddingNode:
		// Any click leaves the mode; only an empty-canvas click places a node.
		e.session.SetMode(session.ModeIdle)
		if hit.Kind == render.HitEmpty {
			n := e.model.AddNode(&graph.Position{X: hit.X, Y: hit.Y})
			e.canvas.SyncNode(ctx, n.ID)
			ctxlog.FromContext(ctx).Debug("Node added.", "node", n.ID)
		}
		return nil

	case session.ModeAddingEdge:
		if hit.Kind != render.HitNode {
			return nil
		}
		if pending == graph.None {
			e.session.SetPending(hit.Node)
			return nil
		}
		// Second endpoint chosen; mode ends regardless of the prompt outcome.
		e.session.SetMode(session.ModeIdle)
		return e.placeEdge(ctx, pending, hit.Node)

	default:
		switch hit.Kind {
		case render.HitNode:
			e.session.Select(hit.Node)
		case render.HitEmpty:
			e.session.Deselect()
		}
		return nil
	}
}

// HandleDoubleClick edits an edge's weight or removes a node.
func (e *Editor) HandleDoubleClick(ctx context.Context, hit render.Hit) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	switch hit.Kind {
	case render.HitEdge:
		edge, ok := e.model.Edge(hit.Edge)
		if !ok {
			return nil
		}
		weight, accepted, err := e.prompter.AskWeight(ctx, edge.From, edge.To)
		if err != nil || !accepted {
			return err
		}
		if _, err := e.model.AddOrReplaceEdge(edge.From, edge.To, weight); err != nil {
			return err
		}
		e.canvas.SyncEdge(ctx, edge.ID)
		return nil

	case render.HitNode:
		return e.removeNode(ctx, hit.Node)

	default:
		return nil
	}
}

// placeEdge finishes the add-edge gesture with a weight prompt.
func (e *Editor) placeEdge(ctx context.Context, from, to graph.NodeID) error {
	weight, accepted, err := e.prompter.AskWeight(ctx, from, to)
	if err != nil {
		return err
	}
	if !accepted {
		ctxlog.FromContext(ctx).Debug("Edge placement cancelled.", "from", from, "to", to)
		return nil
	}
	edge, err := e.model.AddOrReplaceEdge(from, to, weight)
	if err != nil {
		return err
	}
	e.canvas.SyncEdge(ctx, edge.ID)
	return nil
}

func (e *Editor) removeNode(ctx context.Context, id graph.NodeID) error {
	cascaded, err := e.model.RemoveNode(id)
	if err != nil {
		return err
	}
	e.canvas.RemoveNode(ctx, id, cascaded)
	ctxlog.FromContext(ctx).Debug("Node removed.", "node", id, "cascaded_edges", len(cascaded))
	return nil
}

// RemoveNode removes a node through the editing boundary.
func (e *Editor) RemoveNode(ctx context.Context, id graph.NodeID) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeNode(ctx, id)
}

// SetRole designates a node as start or end and repaints the nodes whose
// resting color changed.
func (e *Editor) SetRole(ctx context.Context, id graph.NodeID, role session.Role) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.model.Node(id); !ok {
		return fmt.Errorf("set role %s on node %d: %w", role, id, graph.ErrNotFound)
	}
	displaced := e.session.SetRole(id, role)
	if displaced != graph.None {
		e.canvas.SyncNode(ctx, displaced)
	}
	e.canvas.SyncNode(ctx, id)
	return nil
}

// ClearGraph empties the graph and session and the canvas with them.
func (e *Editor) ClearGraph(ctx context.Context) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, edge := range e.model.Edges() {
		e.canvas.RemoveEdge(ctx, edge.ID)
	}
	for _, n := range e.model.Nodes() {
		e.canvas.RemoveNode(ctx, n.ID, nil)
	}
	e.model.Clear()
	return nil
}

// GenerateRandom replaces the graph with a random one and redraws everything.
func (e *Editor) GenerateRandom(ctx context.Context, nodeCount int, edgeProbability float64) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.model.GenerateRandom(nodeCount, edgeProbability)
	e.canvas.SyncAll(ctx)
	ctxlog.FromContext(ctx).Info("Random graph generated.", "nodes", nodeCount, "edge_probability", edgeProbability)
	return nil
}
