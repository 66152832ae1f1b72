package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pathlab/internal/ctxlog"
)

// Func is one algorithm: it turns a request graph and endpoints into the
// ordered step stream.
type Func func(g *GraphPayload, start, end string) ([]Step, error)

// Algorithms maps wire identifiers to implementations.
var Algorithms = map[string]Func{
	AlgoDijkstra:      Dijkstra,
	AlgoAStar:         AStar,
	AlgoBellmanFord:   BellmanFord,
	AlgoBidirectional: Bidirectional,
}

var (
	// ErrMissingParameters reports a request without graph, endpoints or algorithm.
	ErrMissingParameters = errors.New("Missing required parameters")
	// ErrInvalidAlgorithm reports an unknown algorithm identifier.
	ErrInvalidAlgorithm = errors.New("Invalid algorithm specified")
)

// Solve validates the request and runs the selected algorithm.
func Solve(ctx context.Context, req *Request) ([]Step, error) {
	if req == nil || req.Graph == nil || req.StartNode == "" || req.EndNode == "" || req.Algorithm == "" {
		return nil, ErrMissingParameters
	}
	fn, ok := Algorithms[req.Algorithm]
	if !ok {
		return nil, ErrInvalidAlgorithm
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Solver started.", "algorithm", req.Algorithm, "nodes", len(req.Graph.Nodes), "edges", len(req.Graph.Edges))

	steps, err := fn(req.Graph, req.StartNode.String(), req.EndNode.String())
	if err != nil {
		return nil, fmt.Errorf("%s execution failed: %w", req.Algorithm, err)
	}
	logger.Debug("Solver finished.", "algorithm", req.Algorithm, "steps", len(steps))
	return steps, nil
}
