package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pathlab/internal/canvas"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/render"
	"github.com/vk/pathlab/internal/session"
	"github.com/vk/pathlab/internal/testutil"
)

type harness struct {
	model    *graph.Model
	session  *session.State
	recorder *render.Recorder
	prompter *testutil.StubPrompter
	gate     *testutil.StubGate
	editor   *Editor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		model:    testutil.LineGraph(t),
		recorder: render.NewRecorder(),
		prompter: &testutil.StubPrompter{Weight: 9},
		gate:     &testutil.StubGate{},
	}
	h.session = session.New(h.model)
	cv := canvas.New(h.model, h.session, h.recorder)
	h.editor = New(h.model, h.session, cv, h.prompter, h.gate)
	return h
}

func nodeHit(id graph.NodeID) render.Hit {
	return render.Hit{Kind: render.HitNode, Node: id}
}

func emptyHit(x, y float64) render.Hit {
	return render.Hit{Kind: render.HitEmpty, X: x, Y: y}
}

func TestHandleClick_SelectAndDeselect(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.editor.HandleClick(ctx, nodeHit(2)))
	assert.Equal(t, graph.NodeID(2), h.session.Selected())

	require.NoError(t, h.editor.HandleClick(ctx, emptyHit(0, 0)))
	assert.Equal(t, graph.None, h.session.Selected())
}

func TestHandleClick_AddNodeMode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.editor.SelectTool(ctx, ToolAddNode))
	require.NoError(t, h.editor.HandleClick(ctx, emptyHit(40, 50)))

	n, ok := h.model.Node(4)
	require.True(t, ok)
	assert.Equal(t, 40.0, n.Pos.X)
	assert.Equal(t, 50.0, n.Pos.Y)

	mode, _ := h.session.Mode()
	assert.Equal(t, session.ModeIdle, mode, "placing a node leaves the mode")
}

func TestHandleClick_AddNodeModeLeavesOnNodeClick(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.editor.SelectTool(ctx, ToolAddNode))
	require.NoError(t, h.editor.HandleClick(ctx, nodeHit(1)))

	assert.Equal(t, 3, h.model.NodeCount(), "clicking a node places nothing")
	mode, _ := h.session.Mode()
	assert.Equal(t, session.ModeIdle, mode)
}

func TestHandleClick_AddEdgeGesture(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.editor.SelectTool(ctx, ToolAddEdge))

	// Clicks on empty canvas are ignored while picking endpoints.
	require.NoError(t, h.editor.HandleClick(ctx, emptyHit(0, 0)))
	mode, pending := h.session.Mode()
	assert.Equal(t, session.ModeAddingEdge, mode)
	assert.Equal(t, graph.None, pending)

	require.NoError(t, h.editor.HandleClick(ctx, nodeHit(1)))
	_, pending = h.session.Mode()
	assert.Equal(t, graph.NodeID(1), pending)

	require.NoError(t, h.editor.HandleClick(ctx, nodeHit(3)))

	edge, ok := h.model.EdgeBetween(1, 3)
	require.True(t, ok)
	assert.Equal(t, 9, edge.Weight)
	assert.Equal(t, 1, h.prompter.Calls())

	mode, _ = h.session.Mode()
	assert.Equal(t, session.ModeIdle, mode)
}

func TestHandleClick_AddEdgeCancelledPromptMutatesNothing(t *testing.T) {
	h := newHarness(t)
	h.prompter.Cancelled = true
	ctx := context.Background()

	require.NoError(t, h.editor.SelectTool(ctx, ToolAddEdge))
	require.NoError(t, h.editor.HandleClick(ctx, nodeHit(1)))
	require.NoError(t, h.editor.HandleClick(ctx, nodeHit(3)))

	_, ok := h.model.EdgeBetween(1, 3)
	assert.False(t, ok, "a cancelled prompt must not create the edge")
	mode, _ := h.session.Mode()
	assert.Equal(t, session.ModeIdle, mode, "the gesture still ends")
}

func TestHandleDoubleClick_EditsEdgeWeightInPlace(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	before, ok := h.model.EdgeBetween(1, 2)
	require.True(t, ok)

	require.NoError(t, h.editor.HandleDoubleClick(ctx, render.Hit{Kind: render.HitEdge, Edge: before.ID}))

	after, ok := h.model.Edge(before.ID)
	require.True(t, ok)
	assert.Equal(t, 9, after.Weight)
	assert.Equal(t, before.ID, after.ID)
}

func TestHandleDoubleClick_RemovesNodeWithCascade(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.editor.canvas.SyncAll(ctx)

	require.NoError(t, h.editor.HandleDoubleClick(ctx, nodeHit(2)))

	assert.Equal(t, 2, h.model.NodeCount())
	assert.Zero(t, h.model.EdgeCount(), "both incident edges cascade away")
	assert.Equal(t, 2, h.recorder.NodeCount())
	assert.Zero(t, h.recorder.EdgeCount(), "the canvas erases cascaded edges too")
}

func TestSetRole_RepaintsDisplacedNode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.editor.SetRole(ctx, 1, session.RoleStart))
	state, ok := h.recorder.NodeState(1)
	require.True(t, ok)
	assert.Equal(t, render.StateStart, state)

	require.NoError(t, h.editor.SetRole(ctx, 2, session.RoleStart))
	state, _ = h.recorder.NodeState(1)
	assert.Equal(t, render.StateDefault, state, "the displaced node reverts")
	state, _ = h.recorder.NodeState(2)
	assert.Equal(t, render.StateStart, state)
}

func TestSetRole_MissingNode(t *testing.T) {
	h := newHarness(t)
	err := h.editor.SetRole(context.Background(), 99, session.RoleEnd)
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestEditing_DisabledWhileRunInFlight(t *testing.T) {
	h := newHarness(t)
	h.gate.Set(true)
	ctx := context.Background()

	assert.ErrorIs(t, h.editor.HandleClick(ctx, nodeHit(1)), ErrEditingDisabled)
	assert.ErrorIs(t, h.editor.HandleDoubleClick(ctx, nodeHit(1)), ErrEditingDisabled)
	assert.ErrorIs(t, h.editor.SelectTool(ctx, ToolAddNode), ErrEditingDisabled)
	assert.ErrorIs(t, h.editor.SetRole(ctx, 1, session.RoleStart), ErrEditingDisabled)
	assert.ErrorIs(t, h.editor.ClearGraph(ctx), ErrEditingDisabled)
	assert.ErrorIs(t, h.editor.GenerateRandom(ctx, 5, 0.5), ErrEditingDisabled)
	assert.ErrorIs(t, h.editor.ToggleSelfLoop(ctx, true), ErrEditingDisabled)

	h.gate.Set(false)
	assert.NoError(t, h.editor.HandleClick(ctx, nodeHit(1)))
}

func TestClearGraph(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.editor.canvas.SyncAll(ctx)
	h.session.SetRole(1, session.RoleStart)

	require.NoError(t, h.editor.ClearGraph(ctx))

	assert.Zero(t, h.model.NodeCount())
	assert.Zero(t, h.recorder.NodeCount())
	assert.Zero(t, h.recorder.EdgeCount())
	assert.Equal(t, graph.None, h.session.Start(), "the reset hook clears the session")
}

func TestGenerateRandom_Redraws(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.editor.GenerateRandom(ctx, 6, 1))

	assert.Equal(t, 6, h.model.NodeCount())
	assert.Equal(t, 6, h.recorder.NodeCount())
	assert.Equal(t, 15, h.recorder.EdgeCount())
}

func TestConnections_SnapshotAndNoSelection(t *testing.T) {
	h := newHarness(t)

	_, err := h.editor.Connections()
	assert.ErrorIs(t, err, ErrNoSelection)

	h.session.Select(2)
	state, err := h.editor.Connections()
	require.NoError(t, err)

	assert.Equal(t, graph.NodeID(2), state.Selected)
	assert.False(t, state.SelfLoop)
	require.Len(t, state.Rows, 2)
	assert.Equal(t, graph.NodeID(1), state.Rows[0].Other)
	assert.True(t, state.Rows[0].Incoming, "edge 1->2 is incoming for node 2")
	assert.False(t, state.Rows[0].Outgoing)
	assert.True(t, state.Rows[1].Outgoing, "edge 2->3 is outgoing for node 2")
}

func TestToggleOutgoing_OnAndOff(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.session.Select(1)

	require.NoError(t, h.editor.ToggleOutgoing(ctx, 3, true))
	edge, ok := h.model.EdgeBetween(1, 3)
	require.True(t, ok)
	assert.Equal(t, 9, edge.Weight)

	require.NoError(t, h.editor.ToggleOutgoing(ctx, 3, false))
	_, ok = h.model.EdgeBetween(1, 3)
	assert.False(t, ok)
}

func TestToggleIncoming(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.session.Select(3)

	require.NoError(t, h.editor.ToggleIncoming(ctx, 1, true))
	_, ok := h.model.EdgeBetween(1, 3)
	assert.True(t, ok)
}

func TestToggleSelfLoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.session.Select(2)

	require.NoError(t, h.editor.ToggleSelfLoop(ctx, true))
	_, ok := h.model.EdgeBetween(2, 2)
	assert.True(t, ok)

	require.NoError(t, h.editor.ToggleSelfLoop(ctx, false))
	_, ok = h.model.EdgeBetween(2, 2)
	assert.False(t, ok)
}

func TestToggle_StaleOffIsHarmless(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.session.Select(1)

	// The panel was drawn while 1->3 existed; by the time the user toggles it
	// off, the edge is already gone. The toggle must not remove anything else.
	require.NoError(t, h.editor.ToggleOutgoing(ctx, 3, true))
	edge, _ := h.model.EdgeBetween(1, 3)
	require.NoError(t, h.model.RemoveEdge(edge.ID))
	edgesBefore := h.model.EdgeCount()

	require.NoError(t, h.editor.ToggleOutgoing(ctx, 3, false))
	assert.Equal(t, edgesBefore, h.model.EdgeCount())
}

func TestToggle_PrompterErrorPropagates(t *testing.T) {
	h := newHarness(t)
	h.prompter.Err = errors.New("prompt transport gone")
	h.session.Select(1)

	err := h.editor.ToggleOutgoing(context.Background(), 3, true)
	assert.EqualError(t, err, "prompt transport gone")
}
