package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineGraph is the canonical fixture: 1-2-3 with weights 3 and 4, so the
// shortest path from 1 to 3 costs 7.
func lineGraph() *GraphPayload {
	return &GraphPayload{
		Nodes: []NodePayload{
			{ID: "1", X: 0, Y: 0},
			{ID: "2", X: 100, Y: 0},
			{ID: "3", X: 200, Y: 0},
		},
		Edges: []EdgePayload{
			{From: "1", To: "2", Label: "3"},
			{From: "2", To: "3", Label: "4"},
		},
	}
}

func finalStep(t *testing.T, steps []Step) Step {
	t.Helper()
	require.NotEmpty(t, steps)
	last := steps[len(steps)-1]
	require.Equal(t, StepFinal, last.Type)
	return last
}

func TestDijkstra_LineGraph(t *testing.T) {
	steps, err := Dijkstra(lineGraph(), "1", "3")
	require.NoError(t, err)

	require.Equal(t, StepInit, steps[0].Type)
	assert.Equal(t, "Initializing Dijkstra...", steps[0].Message)
	assert.Equal(t, WireID("1"), steps[0].StartNode)
	assert.Equal(t, Sentinel(SentinelInf), steps[0].AllDistances["3"])

	final := finalStep(t, steps)
	assert.Equal(t, []WireID{"1", "2", "3"}, final.Path)
	assert.Equal(t, 3, final.NodesVisited)
	require.NotNil(t, final.Cost)
	assert.Equal(t, Number(7), *final.Cost)
	assert.Equal(t, "Algorithm Finished.", final.Message)
}

func TestDijkstra_TraversesUndirectedByDefault(t *testing.T) {
	steps, err := Dijkstra(lineGraph(), "3", "1")
	require.NoError(t, err)

	final := finalStep(t, steps)
	assert.Equal(t, []WireID{"3", "2", "1"}, final.Path)
	assert.Equal(t, Number(7), *final.Cost)
}

func TestDijkstra_RespectsDirectedFlag(t *testing.T) {
	g := lineGraph()
	g.Directed = true

	steps, err := Dijkstra(g, "3", "1")
	require.NoError(t, err)

	final := finalStep(t, steps)
	assert.Empty(t, final.Path)
	assert.Equal(t, Sentinel(SentinelNA), *final.Cost)
	assert.Equal(t, Sentinel(SentinelNA), final.AllDistances["1"])
}

func TestDijkstra_Unreachable(t *testing.T) {
	g := lineGraph()
	g.Nodes = append(g.Nodes, NodePayload{ID: "4"})

	steps, err := Dijkstra(g, "1", "4")
	require.NoError(t, err)

	final := finalStep(t, steps)
	assert.Empty(t, final.Path)
	assert.Equal(t, Sentinel(SentinelNA), *final.Cost)
	assert.Equal(t, 3, final.NodesVisited, "only the reachable component is visited")
}

func TestDijkstra_InvalidWeightLabelDefaultsToOne(t *testing.T) {
	g := lineGraph()
	g.Edges[1].Label = "heavy"

	steps, err := Dijkstra(g, "1", "3")
	require.NoError(t, err)
	assert.Equal(t, Number(4), *finalStep(t, steps).Cost)
}

func TestDijkstra_StepOrdering(t *testing.T) {
	steps, err := Dijkstra(lineGraph(), "1", "3")
	require.NoError(t, err)

	// Every update is announced by a check of the same edge first.
	for i, s := range steps {
		if s.Type != StepUpdateDist {
			continue
		}
		require.Greater(t, i, 0)
		prev := steps[i-1]
		assert.Equal(t, StepCheckEdge, prev.Type)
		assert.Equal(t, prev.To, s.Node)
	}
}

func TestAStar_LineGraph(t *testing.T) {
	steps, err := AStar(lineGraph(), "1", "3")
	require.NoError(t, err)

	assert.Equal(t, "Initializing A*...", steps[0].Message)

	var sawScores bool
	for _, s := range steps {
		if s.Type == StepUpdateDist {
			require.NotNil(t, s.GScore)
			require.NotNil(t, s.HScore)
			require.NotNil(t, s.FScore)
			assert.InDelta(t, *s.GScore+*s.HScore, *s.FScore, 1e-9)
			sawScores = true
		}
	}
	assert.True(t, sawScores)

	final := finalStep(t, steps)
	assert.Equal(t, []WireID{"1", "2", "3"}, final.Path)
	assert.Equal(t, Number(7), *final.Cost)
}

func TestAStar_MissingEndNode(t *testing.T) {
	_, err := AStar(lineGraph(), "1", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
}

func TestBellmanFord_LineGraphIsDirected(t *testing.T) {
	steps, err := BellmanFord(lineGraph(), "3", "1")
	require.NoError(t, err)

	// Bellman-Ford always respects edge direction, even without the flag.
	final := finalStep(t, steps)
	assert.Empty(t, final.Path)
	assert.Equal(t, Sentinel(SentinelNA), *final.Cost)
}

func TestBellmanFord_EmitsIterations(t *testing.T) {
	steps, err := BellmanFord(lineGraph(), "1", "3")
	require.NoError(t, err)

	require.Equal(t, StepIteration, steps[1].Type)
	assert.Equal(t, 1, steps[1].Number)
	assert.Equal(t, "--- Relaxation Iteration 1 ---", steps[1].Message)

	final := finalStep(t, steps)
	assert.Equal(t, []WireID{"1", "2", "3"}, final.Path)
	assert.Equal(t, Number(7), *final.Cost)
	assert.Equal(t, 3, final.NodesVisited)
}

func TestBellmanFord_NegativeCycleEndsWithoutFinal(t *testing.T) {
	g := &GraphPayload{
		Nodes: []NodePayload{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		Edges: []EdgePayload{
			{From: "1", To: "2", Label: "1"},
			{From: "2", To: "3", Label: "-1"},
			{From: "3", To: "1", Label: "-1"},
		},
	}

	steps, err := BellmanFord(g, "1", "3")
	require.NoError(t, err)

	last := steps[len(steps)-1]
	assert.Equal(t, StepNegativeCycle, last.Type)
	assert.Equal(t, "Error: Negative weight cycle detected!", last.Message)
	for _, s := range steps {
		assert.NotEqual(t, StepFinal, s.Type)
	}
}

func TestBellmanFord_SkipsInvalidWeightLabels(t *testing.T) {
	g := lineGraph()
	g.Edges[1].Label = "heavy"

	steps, err := BellmanFord(g, "1", "3")
	require.NoError(t, err)
	assert.Equal(t, Sentinel(SentinelNA), *finalStep(t, steps).Cost,
		"an unparsable edge is dropped, not defaulted")
}

func TestBidirectional_DiamondGraph(t *testing.T) {
	// A diamond lets both frontiers expand: the forward queue grows past the
	// backward one, which gives the backward search its turn.
	g := &GraphPayload{
		Nodes: []NodePayload{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}},
		Edges: []EdgePayload{
			{From: "1", To: "2", Label: "1"},
			{From: "1", To: "3", Label: "5"},
			{From: "2", To: "4", Label: "1"},
			{From: "3", To: "4", Label: "5"},
		},
	}

	steps, err := Bidirectional(g, "1", "4")
	require.NoError(t, err)

	var meets, fwd, bwd int
	for _, s := range steps {
		switch s.Type {
		case StepMeet:
			meets++
		case StepVisit:
			switch s.Direction {
			case DirForward:
				fwd++
			case DirBackward:
				bwd++
			}
		}
	}
	assert.Positive(t, meets, "the searches must report their meeting")
	assert.Positive(t, fwd)
	assert.Positive(t, bwd)

	final := finalStep(t, steps)
	assert.Equal(t, []WireID{"1", "2", "4"}, final.Path)
	assert.Equal(t, Number(2), *final.Cost)
	assert.Equal(t, 3, final.NodesVisited)
	assert.Equal(t, Number(2), final.AllDistances["4"], "only the destination gets a final distance")
	assert.Equal(t, Sentinel(SentinelNA), final.AllDistances["2"])
}

func TestBidirectional_StartEqualsEnd(t *testing.T) {
	steps, err := Bidirectional(lineGraph(), "2", "2")
	require.NoError(t, err)

	require.Len(t, steps, 1)
	final := steps[0]
	assert.Equal(t, StepFinal, final.Type)
	assert.Equal(t, []WireID{"2"}, final.Path)
	assert.Equal(t, Number(0), *final.Cost)
	assert.Equal(t, 1, final.NodesVisited)
}

func TestSolve_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := Solve(ctx, nil)
	assert.ErrorIs(t, err, ErrMissingParameters)

	_, err = Solve(ctx, &Request{Graph: lineGraph(), StartNode: "1", EndNode: "3"})
	assert.ErrorIs(t, err, ErrMissingParameters)

	_, err = Solve(ctx, &Request{Graph: lineGraph(), StartNode: "1", EndNode: "3", Algorithm: "dfs"})
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)

	steps, err := Solve(ctx, &Request{Graph: lineGraph(), StartNode: "1", EndNode: "3", Algorithm: AlgoDijkstra})
	require.NoError(t, err)
	assert.Equal(t, StepFinal, steps[len(steps)-1].Type)
}

func TestWireID_AcceptsNumbersAndStrings(t *testing.T) {
	var req Request
	payload := []byte(`{"graph":{"nodes":[{"id":1},{"id":"2"}],"edges":[{"from":1,"to":2,"label":"5"}]},"startNode":1,"endNode":"2","algorithm":"dijkstra"}`)
	require.NoError(t, Unmarshal(payload, &req))

	assert.Equal(t, WireID("1"), req.StartNode)
	assert.Equal(t, WireID("2"), req.EndNode)
	assert.Equal(t, WireID("1"), req.Graph.Nodes[0].ID)
	assert.Equal(t, WireID("1"), req.Graph.Edges[0].From)
}

func TestValue_WireForms(t *testing.T) {
	var v Value
	require.NoError(t, Unmarshal([]byte(`7`), &v))
	assert.Equal(t, Number(7), v)

	require.NoError(t, Unmarshal([]byte(`"∞"`), &v))
	assert.Equal(t, Sentinel(SentinelInf), v)

	// A* init payloads may carry score tuples; they collapse to the first element.
	require.NoError(t, Unmarshal([]byte(`["∞", 0, 1]`), &v))
	assert.Equal(t, Sentinel(SentinelInf), v)
}
