// Package run owns one run attempt end to end: request validation and
// serialization, the solver round-trip, handing the step stream to the
// replay engine, and the mutual-exclusion gate that disables editing while a
// run is in flight. The gate is released on every exit path.
package run

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/history"
	"github.com/vk/pathlab/internal/replay"
	"github.com/vk/pathlab/internal/session"
	"github.com/vk/pathlab/internal/solver"
)

var (
	// ErrMissingEndpoints reports a run attempted without start or end set.
	ErrMissingEndpoints = errors.New("start and end nodes must be set before running")
	// ErrNegativeWeight reports negative edge weights given to an algorithm
	// that cannot handle them.
	ErrNegativeWeight = errors.New("negative edge weights are only supported by bellman_ford")
	// ErrRunInFlight reports a second run attempted while one is playing.
	ErrRunInFlight = errors.New("a run is already in flight")
	// ErrUnknownAlgorithm reports an unrecognized algorithm identifier.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// BuildRequest serializes the current graph, endpoints and algorithm choice
// into the solver request, validating preconditions first. All validation
// happens before any network interaction.
func BuildRequest(m *graph.Model, s *session.State, algorithm string) (*solver.Request, error) {
	if _, ok := solver.Algorithms[algorithm]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	start, end := s.Start(), s.End()
	if start == graph.None || end == graph.None {
		return nil, ErrMissingEndpoints
	}

	payload := &solver.GraphPayload{}
	for _, n := range m.Nodes() {
		np := solver.NodePayload{ID: solver.WireID(n.ID.String())}
		if n.Pos != nil {
			np.X, np.Y = n.Pos.X, n.Pos.Y
		}
		payload.Nodes = append(payload.Nodes, np)
	}
	for _, e := range m.Edges() {
		if e.Weight < 0 && algorithm != solver.AlgoBellmanFord {
			return nil, fmt.Errorf("%w: edge %d->%d has weight %d", ErrNegativeWeight, e.From, e.To, e.Weight)
		}
		payload.Edges = append(payload.Edges, solver.EdgePayload{
			From:  solver.WireID(e.From.String()),
			To:    solver.WireID(e.To.String()),
			Label: strconv.Itoa(e.Weight),
		})
	}

	return &solver.Request{
		Graph:     payload,
		StartNode: solver.WireID(start.String()),
		EndNode:   solver.WireID(end.String()),
		Algorithm: algorithm,
	}, nil
}

// SolveClient is the solver boundary as the controller sees it.
type SolveClient interface {
	Solve(ctx context.Context, req *solver.Request) ([]solver.Step, error)
}

// Notifier surfaces blocking notifications; the same implementation backs
// the replay engine's notifier.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Controller serializes run attempts. It implements the editor's gate.
type Controller struct {
	model   *graph.Model
	session *session.State
	client  SolveClient
	engine  *replay.Engine
	notify  Notifier

	mu       sync.Mutex
	inFlight bool
}

// NewController creates a run controller.
func NewController(m *graph.Model, s *session.State, c SolveClient, e *replay.Engine, n Notifier) *Controller {
	return &Controller{model: m, session: s, client: c, engine: e, notify: n}
}

// InFlight reports whether a run is currently in flight. Editing controls
// are disabled while it returns true.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Controller) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrRunInFlight
	}
	c.inFlight = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// Start performs one full run attempt: validate, request, replay. A second
// run cannot begin while one is in flight, and editing is re-enabled on
// every exit path, including validation and solver failures.
func (c *Controller) Start(ctx context.Context, algorithm string, speed int) (*history.Record, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer c.release()

	logger := ctxlog.FromContext(ctx)

	req, err := BuildRequest(c.model, c.session, algorithm)
	if err != nil {
		logger.Warn("Run rejected before request.", "algorithm", algorithm, "error", err)
		c.notify.Notify(ctx, err.Error())
		return nil, err
	}

	steps, err := c.client.Solve(ctx, req)
	if err != nil {
		logger.Error("Solver request failed.", "algorithm", algorithm, "error", err)
		c.notify.Notify(ctx, err.Error())
		return nil, err
	}

	record, err := c.engine.Play(ctx, algorithm, steps, speed)
	if err != nil {
		logger.Error("Replay aborted.", "algorithm", algorithm, "error", err)
		return nil, err
	}
	return record, nil
}
