package bridge

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/render"
	"github.com/vk/pathlab/internal/solver"
)

// promptAnswer carries one weight-prompt response back to the blocked asker.
type promptAnswer struct {
	value     int
	cancelled bool
}

// Bridge is the socket.io side of the canvas boundary.
type Bridge struct {
	ctx context.Context
	io  *socket.Server

	mu      sync.Mutex
	clients map[*socket.Socket]struct{}

	promptSeq atomic.Int64
	prompts   sync.Map // correlation id (string) -> chan promptAnswer

	handlers *Handlers
}

// Handlers are the application callbacks for inbound canvas events. The app
// root wires them after constructing editor, controller and engine, because
// those need the bridge (as renderer) first.
type Handlers struct {
	Click       func(ctx context.Context, hit render.Hit) error
	DoubleClick func(ctx context.Context, hit render.Hit) error
	SetTool     func(ctx context.Context, tool string) error
	SetRole     func(ctx context.Context, node graph.NodeID, role string) error
	Toggle      func(ctx context.Context, other graph.NodeID, direction string, on bool) error
	Run         func(ctx context.Context, algorithm string, speed int)
	Reset       func(ctx context.Context) error
	Clear       func(ctx context.Context) error
	Random      func(ctx context.Context, nodes int, edgeProbability float64) error
	Connections func(ctx context.Context) (any, error)
}

// New creates a bridge. ctx is the app lifetime context used for logging on
// transport-initiated callbacks.
func New(ctx context.Context) *Bridge {
	b := &Bridge{
		ctx:     ctx,
		io:      socket.NewServer(nil, nil),
		clients: make(map[*socket.Socket]struct{}),
	}
	b.io.On("connection", func(args ...any) {
		client := args[0].(*socket.Socket)
		b.onConnection(client)
	})
	return b
}

// SetHandlers wires the application callbacks.
func (b *Bridge) SetHandlers(h *Handlers) {
	b.handlers = h
}

// Handler returns the HTTP handler to mount at /socket.io/.
func (b *Bridge) Handler() http.Handler {
	return b.io.ServeHandler(nil)
}

// Close shuts the socket.io server down.
func (b *Bridge) Close() {
	b.io.Close(nil)
}

func (b *Bridge) onConnection(client *socket.Socket) {
	logger := ctxlog.FromContext(b.ctx)
	logger.Info("Canvas client connected.", "sid", client.Id())

	b.mu.Lock()
	b.clients[client] = struct{}{}
	b.mu.Unlock()

	client.On("disconnect", func(...any) {
		logger.Info("Canvas client disconnected.", "sid", client.Id())
		b.mu.Lock()
		delete(b.clients, client)
		b.mu.Unlock()
	})

	client.On("click", func(data ...any) {
		b.handleHit(data, b.handlers.Click)
	})
	client.On("double_click", func(data ...any) {
		b.handleHit(data, b.handlers.DoubleClick)
	})
	client.On("set_tool", func(data ...any) {
		var msg struct {
			Tool string `json:"tool"`
		}
		if b.decode(data, &msg) {
			b.report(b.handlers.SetTool(b.ctx, msg.Tool))
			b.pushConnections()
		}
	})
	client.On("set_role", func(data ...any) {
		var msg struct {
			Node int    `json:"node"`
			Role string `json:"role"`
		}
		if b.decode(data, &msg) {
			b.report(b.handlers.SetRole(b.ctx, graph.NodeID(msg.Node), msg.Role))
		}
	})
	client.On("toggle", func(data ...any) {
		var msg struct {
			Other     int    `json:"other"`
			Direction string `json:"direction"`
			On        bool   `json:"on"`
		}
		if b.decode(data, &msg) {
			b.report(b.handlers.Toggle(b.ctx, graph.NodeID(msg.Other), msg.Direction, msg.On))
			b.pushConnections()
		}
	})
	client.On("run", func(data ...any) {
		var msg struct {
			Algorithm string `json:"algorithm"`
			Speed     int    `json:"speed"`
		}
		if b.decode(data, &msg) {
			// The replay blocks for its whole timeline; never on the
			// transport goroutine.
			go b.handlers.Run(b.ctx, msg.Algorithm, msg.Speed)
		}
	})
	client.On("reset", func(...any) {
		b.report(b.handlers.Reset(b.ctx))
	})
	client.On("clear", func(...any) {
		b.report(b.handlers.Clear(b.ctx))
	})
	client.On("random", func(data ...any) {
		var msg struct {
			Nodes           int     `json:"nodes"`
			EdgeProbability float64 `json:"edge_probability"`
		}
		if b.decode(data, &msg) {
			b.report(b.handlers.Random(b.ctx, msg.Nodes, msg.EdgeProbability))
		}
	})
	client.On("prompt_result", func(data ...any) {
		var msg struct {
			ID        string `json:"id"`
			Value     int    `json:"value"`
			Cancelled bool   `json:"cancelled"`
		}
		if b.decode(data, &msg) {
			if ch, ok := b.prompts.LoadAndDelete(msg.ID); ok {
				ch.(chan promptAnswer) <- promptAnswer{value: msg.Value, cancelled: msg.Cancelled}
			}
		}
	})
}

func (b *Bridge) handleHit(data []any, fn func(context.Context, render.Hit) error) {
	var msg struct {
		Kind string  `json:"kind"`
		Node int     `json:"node"`
		Edge int     `json:"edge"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	}
	if !b.decode(data, &msg) {
		return
	}
	hit := render.Hit{
		Kind: render.HitKind(msg.Kind),
		Node: graph.NodeID(msg.Node),
		Edge: graph.EdgeID(msg.Edge),
		X:    msg.X,
		Y:    msg.Y,
	}
	b.report(fn(b.ctx, hit))
	b.pushConnections()
}

// decode re-marshals a socket.io event payload into a typed struct.
func (b *Bridge) decode(data []any, v any) bool {
	if len(data) == 0 {
		return false
	}
	raw, err := solver.Marshal(data[0])
	if err == nil {
		err = solver.Unmarshal(raw, v)
	}
	if err != nil {
		ctxlog.FromContext(b.ctx).Warn("Dropping undecodable canvas event.", "error", err)
		return false
	}
	return true
}

// report surfaces a handler failure to the clients as a notice.
func (b *Bridge) report(err error) {
	if err == nil {
		return
	}
	ctxlog.FromContext(b.ctx).Warn("Canvas gesture rejected.", "error", err)
	b.emit("notice", map[string]any{"message": err.Error()})
}

// pushConnections refreshes the connection-editor panel on all clients.
func (b *Bridge) pushConnections() {
	if b.handlers.Connections == nil {
		return
	}
	state, err := b.handlers.Connections(b.ctx)
	if err != nil || state == nil {
		b.emit("connections", map[string]any{"selected": 0})
		return
	}
	b.emit("connections", state)
}

func (b *Bridge) emit(event string, payload any) {
	b.mu.Lock()
	targets := make([]*socket.Socket, 0, len(b.clients))
	for c := range b.clients {
		targets = append(targets, c)
	}
	b.mu.Unlock()

	for _, c := range targets {
		if err := c.Emit(event, payload); err != nil {
			ctxlog.FromContext(b.ctx).Warn("Failed to emit canvas event.", "event", event, "error", err)
		}
	}
}

// --- render.Renderer ---

var _ render.Renderer = (*Bridge)(nil)

func (b *Bridge) UpsertNode(_ context.Context, n render.NodeView) {
	b.emit("upsert_node", map[string]any{
		"id":      int(n.ID),
		"label":   n.Label,
		"x":       n.X,
		"y":       n.Y,
		"has_pos": n.HasPos,
		"state":   string(n.State),
	})
}

func (b *Bridge) RemoveNode(_ context.Context, id graph.NodeID) {
	b.emit("remove_node", map[string]any{"id": int(id)})
}

func (b *Bridge) UpsertEdge(_ context.Context, e render.EdgeView) {
	b.emit("upsert_edge", map[string]any{
		"id":          int(e.ID),
		"from":        int(e.From),
		"to":          int(e.To),
		"weight":      e.Weight,
		"highlighted": e.Highlighted,
	})
}

func (b *Bridge) RemoveEdge(_ context.Context, id graph.EdgeID) {
	b.emit("remove_edge", map[string]any{"id": int(id)})
}

func (b *Bridge) FitView(context.Context) {
	b.emit("fit_view", map[string]any{})
}

// PushHistory pushes the full results history to all clients.
func (b *Bridge) PushHistory(_ context.Context, records any) {
	b.emit("history", map[string]any{"records": records})
}

// --- notifier ---

// Notify surfaces a blocking notification; the client renders it modally.
func (b *Bridge) Notify(_ context.Context, message string) {
	b.emit("notice", map[string]any{"message": message})
}

// --- editor.WeightPrompter ---

// AskWeight asks the connected canvas for an integer weight and blocks until
// an answer, a cancellation, or context cancellation arrives. With no client
// connected it cancels immediately.
func (b *Bridge) AskWeight(ctx context.Context, from, to graph.NodeID) (int, bool, error) {
	b.mu.Lock()
	connected := len(b.clients)
	b.mu.Unlock()
	if connected == 0 {
		return 0, false, nil
	}

	id := strconv.FormatInt(b.promptSeq.Add(1), 10)
	ch := make(chan promptAnswer, 1)
	b.prompts.Store(id, ch)
	defer b.prompts.Delete(id)

	b.emit("prompt_weight", map[string]any{
		"id":   id,
		"from": int(from),
		"to":   int(to),
	})

	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("weight prompt abandoned: %w", ctx.Err())
	case answer := <-ch:
		if answer.cancelled {
			return 0, false, nil
		}
		return answer.value, true, nil
	}
}
