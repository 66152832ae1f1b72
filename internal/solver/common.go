package solver

import (
	"container/heap"
	"math"
	"strconv"
)

type neighbor struct {
	node   string
	weight int
}

// buildAdjacency expands the request edges into per-node neighbor lists.
// Invalid weight labels default to 1. Unless the graph is marked directed,
// every edge also contributes the reverse traversal.
func buildAdjacency(g *GraphPayload) map[string][]neighbor {
	adj := make(map[string][]neighbor, len(g.Nodes))
	for _, n := range g.Nodes {
		adj[n.ID.String()] = nil
	}
	for _, e := range g.Edges {
		u, v := e.From.String(), e.To.String()
		weight, err := strconv.Atoi(e.Label)
		if err != nil {
			weight = 1
		}
		adj[u] = append(adj[u], neighbor{node: v, weight: weight})
		if !g.Directed {
			adj[v] = append(adj[v], neighbor{node: u, weight: weight})
		}
	}
	return adj
}

func nodeSet(g *GraphPayload) []string {
	out := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		out = append(out, n.ID.String())
	}
	return out
}

// heuristic is the A* straight-line estimate, scaled down to keep it
// comparable with typical edge weights.
func heuristic(a, b *NodePayload) float64 {
	if a == nil || b == nil {
		return 0
	}
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx+dy*dy) / 100
}

// reconstructPath backtracks through the predecessor map. The result is
// valid only if it actually starts at the start node.
func reconstructPath(previous map[string]string, start, end string) []WireID {
	var rev []string
	for current := end; current != ""; current = previous[current] {
		rev = append(rev, current)
	}
	if len(rev) == 0 || rev[len(rev)-1] != start {
		return nil
	}
	path := make([]WireID, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, WireID(rev[i]))
	}
	return path
}

// snapshot projects a distance map onto wire values, replacing +Inf with the
// given sentinel.
func snapshot(dists map[string]float64, sentinel string) map[string]Value {
	out := make(map[string]Value, len(dists))
	for k, v := range dists {
		if math.IsInf(v, 1) {
			out[k] = Sentinel(sentinel)
		} else {
			out[k] = Number(v)
		}
	}
	return out
}

func allInf(nodes []string) map[string]Value {
	out := make(map[string]Value, len(nodes))
	for _, n := range nodes {
		out[n] = Sentinel(SentinelInf)
	}
	return out
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// pqItem orders by distance, then node id, matching a (distance, node)
// tuple comparison.
type pqItem struct {
	dist float64
	node string
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].node < pq[j].node
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) { *pq = append(*pq, x.(pqItem)) }

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func pqPush(pq *priorityQueue, dist float64, node string) {
	heap.Push(pq, pqItem{dist: dist, node: node})
}

func pqPop(pq *priorityQueue) pqItem {
	return heap.Pop(pq).(pqItem)
}
