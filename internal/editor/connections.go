package editor

import (
	"context"
	"errors"

	"github.com/vk/pathlab/internal/graph"
)

// ErrNoSelection reports a connection-editor operation without a selected node.
var ErrNoSelection = errors.New("no node is selected")

// ConnectionRow is one line of the per-node connection editor: for a given
// other node, whether the outgoing (selected->other) and incoming
// (other->selected) edges exist at render time.
type ConnectionRow struct {
	Other    graph.NodeID
	Outgoing bool
	Incoming bool
}

// ConnectionState is the connection editor's render-time snapshot for the
// selected node. The snapshot is informational only: toggles re-resolve edge
// existence at the moment they fire.
type ConnectionState struct {
	Selected graph.NodeID
	SelfLoop bool
	Rows     []ConnectionRow
}

// Connections enumerates the selected node's toggles.
func (e *Editor) Connections() (*ConnectionState, error) {
	selected := e.session.Selected()
	if selected == graph.None {
		return nil, ErrNoSelection
	}

	state := &ConnectionState{Selected: selected}
	_, state.SelfLoop = e.model.EdgeBetween(selected, selected)
	for _, n := range e.model.Nodes() {
		if n.ID == selected {
			continue
		}
		row := ConnectionRow{Other: n.ID}
		_, row.Outgoing = e.model.EdgeBetween(selected, n.ID)
		_, row.Incoming = e.model.EdgeBetween(n.ID, selected)
		state.Rows = append(state.Rows, row)
	}
	return state, nil
}

// ToggleOutgoing creates or removes the edge selected->other.
func (e *Editor) ToggleOutgoing(ctx context.Context, other graph.NodeID, on bool) error {
	return e.toggle(ctx, other, on, false)
}

// ToggleIncoming creates or removes the edge other->selected.
func (e *Editor) ToggleIncoming(ctx context.Context, other graph.NodeID, on bool) error {
	return e.toggle(ctx, other, on, true)
}

// ToggleSelfLoop creates or removes the selected node's self-loop.
func (e *Editor) ToggleSelfLoop(ctx context.Context, on bool) error {
	selected := e.session.Selected()
	if selected == graph.None {
		return ErrNoSelection
	}
	return e.toggle(ctx, selected, on, false)
}

func (e *Editor) toggle(ctx context.Context, other graph.NodeID, on, incoming bool) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	selected := e.session.Selected()
	if selected == graph.None {
		return ErrNoSelection
	}

	from, to := selected, other
	if incoming {
		from, to = other, selected
	}

	if on {
		return e.placeEdge(ctx, from, to)
	}

	// Re-resolve at the moment of the toggle: the editor panel may have been
	// drawn before other mutations happened, and a stale snapshot must never
	// drive a deletion.
	edge, exists := e.model.EdgeBetween(from, to)
	if !exists {
		return nil
	}
	if err := e.model.RemoveEdge(edge.ID); err != nil {
		return err
	}
	e.canvas.RemoveEdge(ctx, edge.ID)
	return nil
}
