package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/pathlab/internal/bridge"
	"github.com/vk/pathlab/internal/canvas"
	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/editor"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/history"
	"github.com/vk/pathlab/internal/replay"
	"github.com/vk/pathlab/internal/run"
	"github.com/vk/pathlab/internal/session"
	solverclient "github.com/vk/pathlab/internal/solver/client"
	solverserver "github.com/vk/pathlab/internal/solver/server"
	"github.com/vk/pathlab/internal/table"
)

// runServe hosts the solver HTTP API and the socket.io canvas bridge on one
// listener and blocks until ctx is cancelled.
func (a *App) runServe(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	model := graph.New()
	sess := session.New(model)
	tbl := table.New()
	hist := history.New()

	b := bridge.New(ctx)
	cv := canvas.New(model, sess, b)

	engine := replay.New(replay.Config{
		Model:     model,
		Canvas:    cv,
		Table:     tbl,
		History:   hist,
		Notifier:  b,
		BaseDelay: a.cfg.BaseDelay(),
	})

	client := solverclient.New(a.cfg.SolverURL)
	controller := run.NewController(model, sess, client, engine, b)
	ed := editor.New(model, sess, cv, b, controller)

	b.SetHandlers(&bridge.Handlers{
		Click:       ed.HandleClick,
		DoubleClick: ed.HandleDoubleClick,
		SetTool: func(ctx context.Context, tool string) error {
			return ed.SelectTool(ctx, toolFor(tool))
		},
		SetRole: func(ctx context.Context, node graph.NodeID, role string) error {
			r, err := roleFor(role)
			if err != nil {
				return err
			}
			return ed.SetRole(ctx, node, r)
		},
		Toggle: func(ctx context.Context, other graph.NodeID, direction string, on bool) error {
			switch direction {
			case "incoming":
				return ed.ToggleIncoming(ctx, other, on)
			case "self":
				return ed.ToggleSelfLoop(ctx, on)
			default:
				return ed.ToggleOutgoing(ctx, other, on)
			}
		},
		Run: func(ctx context.Context, algorithm string, speed int) {
			if speed <= 0 {
				speed = a.speed
			}
			if _, err := controller.Start(ctx, algorithm, speed); err != nil {
				return
			}
			b.PushHistory(ctx, hist.Records())
		},
		Reset: engine.ResetVisuals,
		Clear: ed.ClearGraph,
		Random: func(ctx context.Context, nodes int, edgeProbability float64) error {
			if nodes <= 0 {
				nodes = a.cfg.Random.Nodes
			}
			if edgeProbability <= 0 {
				edgeProbability = a.cfg.Random.EdgeProbability
			}
			return ed.GenerateRandom(ctx, nodes, edgeProbability)
		},
		Connections: func(ctx context.Context) (any, error) {
			state, err := ed.Connections()
			if errors.Is(err, editor.ErrNoSelection) {
				return nil, nil
			}
			return state, err
		},
	})

	mux := http.NewServeMux()
	solverserver.New().Register(mux)
	mux.Handle("/socket.io/", b.Handler())

	server := &http.Server{Addr: a.cfg.ListenAddr, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Server listening. 🚀", "addr", a.cfg.ListenAddr)
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down server.")
		b.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func toolFor(name string) editor.Tool {
	switch name {
	case "add_node":
		return editor.ToolAddNode
	case "add_edge":
		return editor.ToolAddEdge
	default:
		return editor.ToolSelect
	}
}

func roleFor(name string) (session.Role, error) {
	switch name {
	case "start":
		return session.RoleStart, nil
	case "end":
		return session.RoleEnd, nil
	case "none":
		return session.RoleNone, nil
	default:
		return session.RoleNone, fmt.Errorf("unknown role %q", name)
	}
}
