package solver

import (
	"fmt"
	"math"
)

// AStar runs A* to completion across the whole graph. The heuristic is
// destination-specific, so costs reported for nodes other than end are
// demonstrative rather than guaranteed-shortest.
func AStar(g *GraphPayload, start, end string) ([]Step, error) {
	adj := buildAdjacency(g)
	nodes := nodeSet(g)

	positions := make(map[string]*NodePayload, len(g.Nodes))
	for i := range g.Nodes {
		positions[g.Nodes[i].ID.String()] = &g.Nodes[i]
	}
	endPos, ok := positions[end]
	if !ok {
		return nil, fmt.Errorf("end node %s is not part of the graph", end)
	}

	gScores := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		gScores[n] = math.Inf(1)
	}
	gScores[start] = 0

	previous := make(map[string]string, len(nodes))
	visited := make(map[string]bool)

	steps := []Step{{
		Type:         StepInit,
		AllDistances: allInf(nodes),
		StartNode:    WireID(start),
		Message:      "Initializing A*...",
	}}

	open := &priorityQueue{{dist: heuristic(positions[start], endPos), node: start}}

	for open.Len() > 0 {
		current := pqPop(open).node
		if visited[current] {
			continue
		}
		visited[current] = true

		steps = append(steps, Step{
			Type:    StepVisit,
			Node:    WireID(current),
			Cost:    value(Number(gScores[current])),
			Message: fmt.Sprintf("Visiting node %s.", current),
		})

		for _, edge := range adj[current] {
			steps = append(steps, Step{
				Type: StepCheckEdge,
				From: WireID(current),
				To:   WireID(edge.node),
			})

			tentative := gScores[current] + float64(edge.weight)
			if tentative < gScores[edge.node] {
				previous[edge.node] = current
				gScores[edge.node] = tentative
				h := heuristic(positions[edge.node], endPos)
				f := tentative + h
				pqPush(open, f, edge.node)

				steps = append(steps, Step{
					Type:    StepUpdateDist,
					Node:    WireID(edge.node),
					GScore:  float(tentative),
					HScore:  float(h),
					FScore:  float(f),
					From:    WireID(current),
					Message: fmt.Sprintf("Updating %s: g=%.1f, f=%.1f", edge.node, tentative, f),
				})
			}
		}
	}

	final := Step{
		Type:         StepFinal,
		Path:         reconstructPath(previous, start, end),
		NodesVisited: len(visited),
		AllDistances: snapshot(gScores, SentinelNA),
		Message:      "Algorithm Finished.",
	}
	if cost, ok := gScores[end]; ok && !math.IsInf(cost, 1) {
		final.Cost = value(Number(cost))
	} else {
		final.Cost = value(Sentinel(SentinelNA))
	}
	return append(steps, final), nil
}
