package render

import (
	"context"

	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/graph"
)

// LogRenderer is a headless canvas that logs every draw call. Used by the
// solve mode, where there is no attached canvas client.
type LogRenderer struct{}

func (LogRenderer) UpsertNode(ctx context.Context, n NodeView) {
	ctxlog.FromContext(ctx).Debug("canvas: upsert node", "node", n.ID, "state", n.State)
}

func (LogRenderer) RemoveNode(ctx context.Context, id graph.NodeID) {
	ctxlog.FromContext(ctx).Debug("canvas: remove node", "node", id)
}

func (LogRenderer) UpsertEdge(ctx context.Context, e EdgeView) {
	ctxlog.FromContext(ctx).Debug("canvas: upsert edge", "edge", e.ID, "from", e.From, "to", e.To, "highlighted", e.Highlighted)
}

func (LogRenderer) RemoveEdge(ctx context.Context, id graph.EdgeID) {
	ctxlog.FromContext(ctx).Debug("canvas: remove edge", "edge", id)
}

func (LogRenderer) FitView(ctx context.Context) {
	ctxlog.FromContext(ctx).Debug("canvas: fit view")
}
