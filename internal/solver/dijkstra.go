package solver

import (
	"fmt"
	"math"
)

// Dijkstra runs to completion, finalizing the cost from start to every
// reachable node; the path to end is reconstructed for highlighting.
func Dijkstra(g *GraphPayload, start, end string) ([]Step, error) {
	adj := buildAdjacency(g)
	nodes := nodeSet(g)

	distances := make(map[string]float64, len(nodes))
	previous := make(map[string]string, len(nodes))
	for _, n := range nodes {
		distances[n] = math.Inf(1)
	}
	distances[start] = 0

	steps := []Step{{
		Type:         StepInit,
		AllDistances: allInf(nodes),
		StartNode:    WireID(start),
		Message:      "Initializing Dijkstra...",
	}}

	pq := &priorityQueue{{dist: 0, node: start}}
	visited := make(map[string]bool)

	for pq.Len() > 0 {
		item := pqPop(pq)
		current := item.node
		if visited[current] {
			continue
		}
		visited[current] = true

		steps = append(steps, Step{
			Type:    StepVisit,
			Node:    WireID(current),
			Cost:    value(Number(item.dist)),
			Message: fmt.Sprintf("Finalized cost for node %s is %s.", current, formatNum(item.dist)),
		})

		for _, edge := range adj[current] {
			steps = append(steps, Step{
				Type:    StepCheckEdge,
				From:    WireID(current),
				To:      WireID(edge.node),
				Message: fmt.Sprintf("Checking neighbor %s...", edge.node),
			})

			tentative := distances[current] + float64(edge.weight)
			if tentative < distances[edge.node] {
				distances[edge.node] = tentative
				previous[edge.node] = current
				pqPush(pq, tentative, edge.node)

				steps = append(steps, Step{
					Type:         StepUpdateDist,
					Node:         WireID(edge.node),
					NewDist:      float(tentative),
					From:         WireID(current),
					AllDistances: snapshot(distances, SentinelInf),
					Message:      fmt.Sprintf("Updated distance for %s to %s.", edge.node, formatNum(tentative)),
				})
			}
		}
	}

	final := Step{
		Type:         StepFinal,
		Path:         reconstructPath(previous, start, end),
		NodesVisited: len(visited),
		AllDistances: snapshot(distances, SentinelNA),
		Message:      "Algorithm Finished.",
	}
	if cost, ok := distances[end]; ok && !math.IsInf(cost, 1) {
		final.Cost = value(Number(cost))
	} else {
		final.Cost = value(Sentinel(SentinelNA))
	}
	return append(steps, final), nil
}
