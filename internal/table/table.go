// Package table is the live distance table: a pure projection of the step
// sequence consumed so far. Column schema depends on the algorithm; exactly
// one row is highlighted at a time.
package table

import (
	"sync"

	"github.com/vk/pathlab/internal/graph"
)

// Row is one node's line in the table. For generic algorithms only Cost and
// Prev are populated; A* fills the g/h/f scores instead of Cost.
type Row struct {
	Node graph.NodeID
	Cost string
	G    string
	H    string
	F    string
	Prev string
}

// Table is the live distance table for one replay.
type Table struct {
	mu          sync.RWMutex
	algorithm   string
	rows        map[graph.NodeID]*Row
	order       []graph.NodeID
	highlighted graph.NodeID
}

// New creates an empty table.
func New() *Table {
	return &Table{rows: make(map[graph.NodeID]*Row)}
}

// Reset clears everything and binds the table to an algorithm's schema.
func (t *Table) Reset(algorithm string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.algorithm = algorithm
	t.rows = make(map[graph.NodeID]*Row)
	t.order = nil
	t.highlighted = graph.None
}

// Clear empties the table keeping no schema. Used by resetVisuals.
func (t *Table) Clear() {
	t.Reset("")
}

// Columns returns the header schema for the bound algorithm.
func (t *Table) Columns() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.algorithm == "a_star" {
		return []string{"Node", "g(n)", "h(n)", "f(n)", "Previous"}
	}
	return []string{"Node", "Cost", "Previous"}
}

func (t *Table) row(id graph.NodeID) *Row {
	r, ok := t.rows[id]
	if !ok {
		r = &Row{Node: id}
		t.rows[id] = r
		t.order = append(t.order, id)
	}
	return r
}

// SetCost updates a node's cost and predecessor.
func (t *Table) SetCost(id graph.NodeID, cost, prev string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.row(id)
	r.Cost = cost
	if prev != "" {
		r.Prev = prev
	}
}

// SetScores updates a node's g/h/f scores and predecessor (A* schema).
func (t *Table) SetScores(id graph.NodeID, g, h, f, prev string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.row(id)
	r.G, r.H, r.F = g, h, f
	if prev != "" {
		r.Prev = prev
	}
}

// Highlight marks a row as the most recently touched one. The highlight is
// exclusive: it is cleared from the previous row before being applied.
func (t *Table) Highlight(id graph.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.highlighted = id
}

// Highlighted returns the currently highlighted row's node, or graph.None.
func (t *Table) Highlighted() graph.NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.highlighted
}

// Rows returns the rows in first-touched order.
func (t *Table) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Row, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.rows[id])
	}
	return out
}

// Row returns a copy of one node's row.
func (t *Table) RowOf(id graph.NodeID) (Row, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rows[id]
	if !ok {
		return Row{}, false
	}
	return *r, true
}

// Len reports the number of rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
