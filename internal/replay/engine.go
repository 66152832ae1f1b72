package replay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/vk/pathlab/internal/canvas"
	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/history"
	"github.com/vk/pathlab/internal/render"
	"github.com/vk/pathlab/internal/solver"
	"github.com/vk/pathlab/internal/table"
)

// Notifier surfaces a blocking notification to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// ErrReplayInFlight reports an operation refused because a replay is playing.
var ErrReplayInFlight = errors.New("a replay is in flight")

// DefaultBaseDelay is the per-step delay at the slowest speed setting.
const DefaultBaseDelay = 800 * time.Millisecond

// Config wires the engine's collaborators. Zero-value optional fields get
// defaults: DefaultBaseDelay and a timer-backed sleep.
type Config struct {
	Model    *graph.Model
	Canvas   *canvas.Canvas
	Table    *table.Table
	History  *history.History
	Notifier Notifier

	BaseDelay time.Duration
	// Sleep is the engine's only suspension point; tests inject a no-op to
	// replay at zero delay.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Engine replays step streams.
type Engine struct {
	model    *graph.Model
	canvas   *canvas.Canvas
	table    *table.Table
	history  *history.History
	notifier Notifier

	baseDelay time.Duration
	sleep     func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	playing bool
}

// New creates a replay engine.
func New(cfg Config) *Engine {
	e := &Engine{
		model:     cfg.Model,
		canvas:    cfg.Canvas,
		table:     cfg.Table,
		history:   cfg.History,
		notifier:  cfg.Notifier,
		baseDelay: cfg.BaseDelay,
		sleep:     cfg.Sleep,
	}
	if e.baseDelay <= 0 {
		e.baseDelay = DefaultBaseDelay
	}
	if e.sleep == nil {
		e.sleep = sleepCtx
	}
	return e
}

// Playing reports whether a replay is in flight.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// DelayFor maps the user speed setting to the per-step delay. The mapping is
// monotonically decreasing and always positive; it is presentation only.
func (e *Engine) DelayFor(speed int) time.Duration {
	if speed < 1 {
		speed = 1
	}
	if speed > 10 {
		speed = 10
	}
	d := e.baseDelay / time.Duration(speed)
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

// Play consumes the step stream in order, driving the canvas and the live
// distance table, and returns the run record emitted by the final step (nil
// when the stream carried none, e.g. after a negative cycle).
func (e *Engine) Play(ctx context.Context, algorithm string, steps []solver.Step, speed int) (*history.Record, error) {
	e.mu.Lock()
	if e.playing {
		e.mu.Unlock()
		return nil, ErrReplayInFlight
	}
	e.playing = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.playing = false
		e.mu.Unlock()
	}()

	logger := ctxlog.FromContext(ctx)
	logger.Info("Replay started.", "algorithm", algorithm, "steps", len(steps), "speed", speed)

	delay := e.DelayFor(speed)
	e.table.Reset(algorithm)

	var record *history.Record
	for i := range steps {
		step := &steps[i]
		if step.Message != "" {
			logger.Debug("Replay step.", "type", step.Type, "message", step.Message)
		}

		if err := e.apply(ctx, algorithm, step, delay); err != nil {
			return record, err
		}

		if rec := e.finishRecord(algorithm, step); rec != nil {
			record = rec
			e.history.Append(*rec)
		}
	}

	logger.Info("Replay finished.", "algorithm", algorithm, "recorded", record != nil)
	return record, nil
}

// apply performs one step's visual effect and its scheduled delay.
func (e *Engine) apply(ctx context.Context, algorithm string, step *solver.Step, delay time.Duration) error {
	switch step.Type {
	case solver.StepInit:
		e.applyInit(algorithm, step)

	case solver.StepVisit:
		state := render.StateVisited
		if step.Direction == solver.DirBackward {
			state = render.StateVisitedBwd
		}
		if id, ok := nodeID(step.Node); ok {
			e.canvas.MarkNode(ctx, id, state)
			e.table.Highlight(id)
		}

	case solver.StepCheckEdge:
		return e.applyCheckEdge(ctx, step, delay)

	case solver.StepUpdateDist:
		e.applyUpdate(ctx, algorithm, step)

	case solver.StepMeet:
		if id, ok := nodeID(step.Node); ok {
			e.canvas.MarkNode(ctx, id, render.StateFrontier)
			e.table.Highlight(id)
		}

	case solver.StepIteration:
		// Message-only step; the delay below paces the iterations.

	case solver.StepFinal:
		e.applyFinal(ctx, algorithm, step)

	case solver.StepNegativeCycle:
		e.notifier.Notify(ctx, step.Message)

	default:
		ctxlog.FromContext(ctx).Warn("Skipping unknown step type.", "type", step.Type)
	}

	return e.sleep(ctx, delay)
}

func (e *Engine) applyInit(algorithm string, step *solver.Step) {
	for key, v := range step.AllDistances {
		id, ok := wireNodeID(key)
		if !ok {
			continue
		}
		if algorithm == solver.AlgoAStar {
			e.table.SetScores(id, v.String(), v.String(), v.String(), "")
		} else {
			e.table.SetCost(id, v.String(), "")
		}
	}
	if start, ok := nodeID(step.StartNode); ok {
		if algorithm == solver.AlgoAStar {
			e.table.SetScores(start, "0", "", "", "")
		} else {
			e.table.SetCost(start, "0", "")
		}
		e.table.Highlight(start)
	}
}

// applyCheckEdge pulses the connection between the two named nodes: highlight,
// half the delay, revert, then the remaining half before the next step.
func (e *Engine) applyCheckEdge(ctx context.Context, step *solver.Step, delay time.Duration) error {
	from, okFrom := nodeID(step.From)
	to, okTo := nodeID(step.To)
	if okFrom {
		e.table.Highlight(from)
	}
	if !okFrom || !okTo {
		return e.sleep(ctx, delay)
	}

	// Stored orientation is not guaranteed to match the traversal, so the
	// lookup is direction-agnostic.
	edge, found := e.model.FindConnection(from, to)
	if !found {
		return e.sleep(ctx, delay)
	}

	e.canvas.HighlightEdge(ctx, edge.ID, true)
	if err := e.sleep(ctx, delay/2); err != nil {
		return err
	}
	e.canvas.HighlightEdge(ctx, edge.ID, false)
	return e.sleep(ctx, delay-delay/2)
}

func (e *Engine) applyUpdate(ctx context.Context, algorithm string, step *solver.Step) {
	id, ok := nodeID(step.Node)
	if !ok {
		return
	}
	e.canvas.MarkNode(ctx, id, render.StateFrontier)

	prev := step.From.String()
	switch {
	case step.GScore != nil:
		g := fmt.Sprintf("%.1f", *step.GScore)
		h, f := "", ""
		if step.HScore != nil {
			h = fmt.Sprintf("%.1f", *step.HScore)
		}
		if step.FScore != nil {
			f = fmt.Sprintf("%.1f", *step.FScore)
		}
		e.table.SetScores(id, g, h, f, prev)
	case step.NewDist != nil:
		e.table.SetCost(id, formatDist(*step.NewDist), prev)
	}

	if algorithm != solver.AlgoAStar {
		e.projectDistances(step.AllDistances)
	}
	e.table.Highlight(id)
}

func (e *Engine) applyFinal(ctx context.Context, algorithm string, step *solver.Step) {
	for i, wid := range step.Path {
		id, ok := nodeID(wid)
		if !ok {
			continue
		}
		e.canvas.MarkNode(ctx, id, render.StatePath)
		if i == 0 {
			continue
		}
		prev, ok := nodeID(step.Path[i-1])
		if !ok {
			continue
		}
		if edge, found := e.model.FindConnection(prev, id); found {
			e.canvas.HighlightEdge(ctx, edge.ID, true)
		}
	}
	if algorithm != solver.AlgoAStar {
		e.projectDistances(step.AllDistances)
	}
}

func (e *Engine) projectDistances(all map[string]solver.Value) {
	for key, v := range all {
		if id, ok := wireNodeID(key); ok {
			e.table.SetCost(id, v.String(), "")
		}
	}
}

// finishRecord builds the immutable run record for a final step.
func (e *Engine) finishRecord(algorithm string, step *solver.Step) *history.Record {
	if step.Type != solver.StepFinal {
		return nil
	}
	cost := solver.SentinelNA
	if step.Cost != nil && step.Cost.IsNum {
		cost = fmt.Sprintf("%.1f", step.Cost.Num)
	}
	return &history.Record{
		Algorithm:    algorithm,
		Cost:         cost,
		NodesVisited: step.NodesVisited,
		Succeeded:    len(step.Path) > 0,
	}
}

// ResetVisuals restores every node to its resting state, clears edge
// highlighting and empties the table. Disallowed while a replay is playing.
func (e *Engine) ResetVisuals(ctx context.Context) error {
	e.mu.Lock()
	if e.playing {
		e.mu.Unlock()
		return ErrReplayInFlight
	}
	e.mu.Unlock()

	e.canvas.Reset(ctx)
	e.table.Clear()
	return nil
}

func nodeID(w solver.WireID) (graph.NodeID, bool) {
	return wireNodeID(w.String())
}

func wireNodeID(s string) (graph.NodeID, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return graph.None, false
	}
	return graph.NodeID(n), true
}

func formatDist(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
