package app

import (
	"context"
	"fmt"

	"github.com/vk/pathlab/internal/canvas"
	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/graph"
	"github.com/vk/pathlab/internal/history"
	"github.com/vk/pathlab/internal/render"
	"github.com/vk/pathlab/internal/replay"
	"github.com/vk/pathlab/internal/run"
	"github.com/vk/pathlab/internal/session"
	"github.com/vk/pathlab/internal/solver"
	"github.com/vk/pathlab/internal/table"
	"github.com/vk/pathlab/internal/ui"
)

// logNotifier surfaces notifications to the log in headless mode.
type logNotifier struct{}

func (logNotifier) Notify(ctx context.Context, message string) {
	ctxlog.FromContext(ctx).Warn("Notice.", "message", message)
}

// runSolve performs one headless run against the in-process solver: a random
// graph, a replay at the configured speed, and the final tables on stdout.
func (a *App) runSolve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	model := graph.New()
	sess := session.New(model)
	tbl := table.New()
	hist := history.New()
	cv := canvas.New(model, sess, render.LogRenderer{})

	engine := replay.New(replay.Config{
		Model:     model,
		Canvas:    cv,
		Table:     tbl,
		History:   hist,
		Notifier:  logNotifier{},
		BaseDelay: a.cfg.BaseDelay(),
	})
	controller := run.NewController(model, sess, solver.Local{}, engine, logNotifier{})

	model.GenerateRandom(a.cfg.Random.Nodes, a.cfg.Random.EdgeProbability)
	nodes := model.Nodes()
	if len(nodes) < 2 {
		return fmt.Errorf("generated graph has %d nodes, need at least 2", len(nodes))
	}
	sess.SetRole(nodes[0].ID, session.RoleStart)
	sess.SetRole(nodes[len(nodes)-1].ID, session.RoleEnd)
	cv.SyncAll(ctx)

	algorithm := a.algorithm
	if algorithm == "" {
		algorithm = solver.AlgoDijkstra
	}
	logger.Info("Starting headless run. 🧭", "algorithm", algorithm,
		"nodes", model.NodeCount(), "edges", model.EdgeCount(), "speed", a.speed)

	record, err := controller.Start(ctx, algorithm, a.speed)
	if err != nil {
		return err
	}
	if record == nil {
		logger.Warn("Run finished without a result.")
	}

	ui.Banner(a.outW, "shortest-path replay")
	ui.DistanceTable(a.outW, tbl)
	fmt.Fprintln(a.outW)
	ui.ResultsHistory(a.outW, hist)
	return nil
}
