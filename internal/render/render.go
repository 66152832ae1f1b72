// Package render defines the rendering-capability boundary. The core never
// assumes a specific canvas technology: it issues node/edge upserts and
// removals through the Renderer interface and reacts to hit-test callbacks
// delivered by whatever implements the boundary.
package render

import (
	"context"

	"github.com/vk/pathlab/internal/graph"
)

// VisualState is the derived visual treatment of a node.
type VisualState string

const (
	StateDefault     VisualState = "default"
	StateStart       VisualState = "start"
	StateEnd         VisualState = "end"
	StateStartEnd    VisualState = "start-end"
	StateVisited     VisualState = "visited"
	StateVisitedBwd  VisualState = "visited-bwd"
	StateFrontier    VisualState = "frontier"
	StatePath        VisualState = "path"
)

// RoleState derives the resting visual state of a node from its roles.
func RoleState(isStart, isEnd bool) VisualState {
	switch {
	case isStart && isEnd:
		return StateStartEnd
	case isStart:
		return StateStart
	case isEnd:
		return StateEnd
	default:
		return StateDefault
	}
}

// NodeView is what the canvas needs to draw one node.
type NodeView struct {
	ID     graph.NodeID
	Label  string
	X      float64
	Y      float64
	HasPos bool
	State  VisualState
}

// EdgeView is what the canvas needs to draw one edge.
type EdgeView struct {
	ID          graph.EdgeID
	From        graph.NodeID
	To          graph.NodeID
	Weight      int
	Highlighted bool
}

// Renderer is the passive canvas. Implementations must tolerate upserts for
// ids they have never seen and removals for ids already gone.
type Renderer interface {
	UpsertNode(ctx context.Context, n NodeView)
	RemoveNode(ctx context.Context, id graph.NodeID)
	UpsertEdge(ctx context.Context, e EdgeView)
	RemoveEdge(ctx context.Context, id graph.EdgeID)
	FitView(ctx context.Context)
}

// HitKind classifies what a canvas click landed on.
type HitKind string

const (
	HitNode  HitKind = "node"
	HitEdge  HitKind = "edge"
	HitEmpty HitKind = "empty"
)

// Hit is a hit-tested click reported by the canvas.
type Hit struct {
	Kind HitKind
	Node graph.NodeID
	Edge graph.EdgeID
	X    float64
	Y    float64
}
