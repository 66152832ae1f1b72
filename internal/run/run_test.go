package run

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pathlab/internal/canvas"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/history"
	"github.com/vk/pathlab/internal/render"
	"github.com/vk/pathlab/internal/replay"
	"github.com/vk/pathlab/internal/session"
	"github.com/vk/pathlab/internal/solver"
	"github.com/vk/pathlab/internal/table"
	"github.com/vk/pathlab/internal/testutil"
)

type failingClient struct {
	err error
}

func (c failingClient) Solve(context.Context, *solver.Request) ([]solver.Step, error) {
	return nil, c.err
}

type harness struct {
	model      *graph.Model
	session    *session.State
	history    *history.History
	notices    *testutil.Notices
	controller *Controller
}

func newHarness(t *testing.T, client SolveClient) *harness {
	t.Helper()
	h := &harness{
		model:   testutil.LineGraph(t),
		history: history.New(),
		notices: &testutil.Notices{},
	}
	h.session = session.New(h.model)
	engine := replay.New(replay.Config{
		Model:    h.model,
		Canvas:   canvas.New(h.model, h.session, render.NewRecorder()),
		Table:    table.New(),
		History:  h.history,
		Notifier: h.notices,
		Sleep:    testutil.NoSleep,
	})
	h.controller = NewController(h.model, h.session, client, engine, h.notices)
	return h
}

func TestBuildRequest_SerializesGraphAndEndpoints(t *testing.T) {
	m := testutil.LineGraph(t)
	s := session.New(m)
	s.SetRole(1, session.RoleStart)
	s.SetRole(3, session.RoleEnd)

	req, err := BuildRequest(m, s, solver.AlgoDijkstra)
	require.NoError(t, err)

	assert.Equal(t, solver.WireID("1"), req.StartNode)
	assert.Equal(t, solver.WireID("3"), req.EndNode)
	assert.Equal(t, solver.AlgoDijkstra, req.Algorithm)
	require.Len(t, req.Graph.Nodes, 3)
	require.Len(t, req.Graph.Edges, 2)
	assert.Equal(t, "3", req.Graph.Edges[0].Label, "weights travel as string labels")
	assert.Equal(t, 100.0, req.Graph.Nodes[1].X)
}

func TestBuildRequest_RequiresEndpoints(t *testing.T) {
	m := testutil.LineGraph(t)
	s := session.New(m)
	s.SetRole(1, session.RoleStart)

	_, err := BuildRequest(m, s, solver.AlgoDijkstra)
	assert.ErrorIs(t, err, ErrMissingEndpoints)
}

func TestBuildRequest_RejectsUnknownAlgorithm(t *testing.T) {
	m := testutil.LineGraph(t)
	s := session.New(m)

	_, err := BuildRequest(m, s, "dfs")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestBuildRequest_NegativeWeightsOnlyForBellmanFord(t *testing.T) {
	m := testutil.LineGraph(t)
	s := session.New(m)
	s.SetRole(1, session.RoleStart)
	s.SetRole(3, session.RoleEnd)
	_, err := m.AddOrReplaceEdge(1, 3, -2)
	require.NoError(t, err)

	_, err = BuildRequest(m, s, solver.AlgoDijkstra)
	assert.ErrorIs(t, err, ErrNegativeWeight)

	req, err := BuildRequest(m, s, solver.AlgoBellmanFord)
	require.NoError(t, err)
	assert.Equal(t, "-2", req.Graph.Edges[2].Label)
}

func TestStart_FullRun(t *testing.T) {
	h := newHarness(t, solver.Local{})
	h.session.SetRole(1, session.RoleStart)
	h.session.SetRole(3, session.RoleEnd)

	record, err := h.controller.Start(context.Background(), solver.AlgoDijkstra, 5)
	require.NoError(t, err)

	require.NotNil(t, record)
	assert.Equal(t, "7.0", record.Cost)
	assert.True(t, record.Succeeded)
	assert.Equal(t, 1, h.history.Len())
	assert.False(t, h.controller.InFlight(), "the gate must be released after the replay")
}

func TestStart_ValidationFailureNotifiesAndReleasesGate(t *testing.T) {
	h := newHarness(t, solver.Local{})

	_, err := h.controller.Start(context.Background(), solver.AlgoDijkstra, 5)
	require.ErrorIs(t, err, ErrMissingEndpoints)

	assert.Equal(t, []string{ErrMissingEndpoints.Error()}, h.notices.Messages())
	assert.False(t, h.controller.InFlight())
	assert.Zero(t, h.history.Len())
}

func TestStart_SolverFailureNotifiesVerbatim(t *testing.T) {
	solverErr := errors.New("Invalid algorithm specified")
	h := newHarness(t, failingClient{err: solverErr})
	h.session.SetRole(1, session.RoleStart)
	h.session.SetRole(3, session.RoleEnd)

	_, err := h.controller.Start(context.Background(), solver.AlgoDijkstra, 5)
	require.ErrorIs(t, err, solverErr)

	assert.Equal(t, []string{"Invalid algorithm specified"}, h.notices.Messages())
	assert.False(t, h.controller.InFlight())
}

func TestStart_RefusesOverlappingRuns(t *testing.T) {
	h := newHarness(t, solver.Local{})
	h.session.SetRole(1, session.RoleStart)
	h.session.SetRole(3, session.RoleEnd)

	require.NoError(t, h.controller.acquire())
	_, err := h.controller.Start(context.Background(), solver.AlgoDijkstra, 5)
	assert.ErrorIs(t, err, ErrRunInFlight)
	h.controller.release()

	_, err = h.controller.Start(context.Background(), solver.AlgoDijkstra, 5)
	assert.NoError(t, err)
}
