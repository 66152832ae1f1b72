package solver

import (
	"fmt"
	"math"
)

// Bidirectional runs Dijkstra from both endpoints at once. Unlike the other
// algorithms it does not explore the whole graph: the search stops once the
// frontiers cannot improve on the best meeting cost µ.
func Bidirectional(g *GraphPayload, start, end string) ([]Step, error) {
	if start == end {
		return []Step{{
			Type:         StepFinal,
			Path:         []WireID{WireID(start)},
			Cost:         value(Number(0)),
			NodesVisited: 1,
			AllDistances: map[string]Value{start: Number(0)},
		}}, nil
	}

	steps := []Step{{Type: StepInit, Message: "Initializing Bidirectional Search..."}}

	adj := buildAdjacency(g)
	nodes := nodeSet(g)

	distFwd := make(map[string]float64, len(nodes))
	distBwd := make(map[string]float64, len(nodes))
	prevFwd := make(map[string]string, len(nodes))
	prevBwd := make(map[string]string, len(nodes))
	for _, n := range nodes {
		distFwd[n] = math.Inf(1)
		distBwd[n] = math.Inf(1)
	}
	distFwd[start] = 0
	distBwd[end] = 0

	pqFwd := &priorityQueue{{dist: 0, node: start}}
	pqBwd := &priorityQueue{{dist: 0, node: end}}
	visitedFwd := make(map[string]bool)
	visitedBwd := make(map[string]bool)

	mu := math.Inf(1)
	meetNode := ""

	tryMeet := func(v string, visitedOther map[string]bool) {
		if visitedOther[v] && distFwd[v]+distBwd[v] < mu {
			mu = distFwd[v] + distBwd[v]
			meetNode = v
			steps = append(steps, Step{
				Type:    StepMeet,
				Node:    WireID(v),
				Cost:    value(Number(mu)),
				Message: fmt.Sprintf("Searches met at %s! Best cost now %s", v, formatNum(mu)),
			})
		}
	}

	for pqFwd.Len() > 0 && pqBwd.Len() > 0 {
		if (*pqFwd)[0].dist+(*pqBwd)[0].dist >= mu {
			break
		}

		if pqFwd.Len() <= pqBwd.Len() {
			item := pqPop(pqFwd)
			u := item.node
			if visitedFwd[u] {
				continue
			}
			visitedFwd[u] = true
			steps = append(steps, Step{
				Type:      StepVisit,
				Node:      WireID(u),
				Direction: DirForward,
				Cost:      value(Number(item.dist)),
				Message:   fmt.Sprintf("Fwd search visiting %s", u),
			})
			for _, edge := range adj[u] {
				if tentative := distFwd[u] + float64(edge.weight); tentative < distFwd[edge.node] {
					distFwd[edge.node] = tentative
					prevFwd[edge.node] = u
					pqPush(pqFwd, tentative, edge.node)
					tryMeet(edge.node, visitedBwd)
				}
			}
		} else {
			item := pqPop(pqBwd)
			u := item.node
			if visitedBwd[u] {
				continue
			}
			visitedBwd[u] = true
			steps = append(steps, Step{
				Type:      StepVisit,
				Node:      WireID(u),
				Direction: DirBackward,
				Cost:      value(Number(item.dist)),
				Message:   fmt.Sprintf("Bwd search visiting %s", u),
			})
			for _, edge := range adj[u] {
				if tentative := distBwd[u] + float64(edge.weight); tentative < distBwd[edge.node] {
					distBwd[edge.node] = tentative
					prevBwd[edge.node] = u
					pqPush(pqBwd, tentative, edge.node)
					tryMeet(edge.node, visitedFwd)
				}
			}
		}
	}

	var path []WireID
	finalDists := make(map[string]Value, len(nodes))
	for _, n := range nodes {
		finalDists[n] = Sentinel(SentinelNA)
	}
	if meetNode != "" {
		path = reconstructPath(prevFwd, start, meetNode)
		for current := prevBwd[meetNode]; current != ""; current = prevBwd[current] {
			path = append(path, WireID(current))
		}
		finalDists[end] = Number(mu)
	}

	visitedCount := len(visitedFwd)
	for n := range visitedBwd {
		if !visitedFwd[n] {
			visitedCount++
		}
	}

	final := Step{
		Type:         StepFinal,
		Path:         path,
		NodesVisited: visitedCount,
		AllDistances: finalDists,
		Message:      "Algorithm Finished.",
	}
	if math.IsInf(mu, 1) {
		final.Cost = value(Sentinel(SentinelNA))
	} else {
		final.Cost = value(Number(mu))
	}
	return append(steps, final), nil
}
