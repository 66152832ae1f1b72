package solver

import (
	"fmt"
	"math"
	"strconv"
)

// BellmanFord relaxes the raw directed edge list V-1 times, tolerating
// negative weights. A successful V-th relaxation means a negative cycle; a
// negative_cycle step is emitted and the run ends without a final step.
func BellmanFord(g *GraphPayload, start, end string) ([]Step, error) {
	type edge struct {
		from, to string
		weight   int
	}
	var edges []edge
	for _, e := range g.Edges {
		w, err := strconv.Atoi(e.Label)
		if err != nil {
			continue
		}
		edges = append(edges, edge{from: e.From.String(), to: e.To.String(), weight: w})
	}

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
		Message:      "Initializing Bellman-Ford...",
	}}

	for i := 1; i < len(nodes); i++ {
		steps = append(steps, Step{
			Type:    StepIteration,
			Number:  i,
			Message: fmt.Sprintf("--- Relaxation Iteration %d ---", i),
		})

		updated := false
		for _, e := range edges {
			du := distances[e.from]
			if math.IsInf(du, 1) {
				continue
			}
			if tentative := du + float64(e.weight); tentative < distances[e.to] {
				distances[e.to] = tentative
				previous[e.to] = e.from
				updated = true

				steps = append(steps, Step{
					Type:         StepUpdateDist,
					Node:         WireID(e.to),
					NewDist:      float(tentative),
					From:         WireID(e.from),
					AllDistances: snapshot(distances, SentinelInf),
					Message:      fmt.Sprintf("Relaxing edge (%s->%s). New cost for %s is %s.", e.from, e.to, e.to, formatNum(tentative)),
				})
			}
		}
		if !updated {
			break
		}
	}

	for _, e := range edges {
		du := distances[e.from]
		if !math.IsInf(du, 1) && du+float64(e.weight) < distances[e.to] {
			return append(steps, Step{
				Type:    StepNegativeCycle,
				Message: "Error: Negative weight cycle detected!",
			}), nil
		}
	}

	final := Step{
		Type:         StepFinal,
		Path:         reconstructPath(previous, start, end),
		NodesVisited: len(nodes),
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
