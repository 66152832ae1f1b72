// Package history is the append-only record of completed runs, kept for
// cross-algorithm comparison. Records are immutable once appended and are
// never reordered.
package history

import "sync"

// Record summarizes one completed replay. Cost is the display string the
// replay derived from the final step ("7.0", "N/A", ...).
type Record struct {
	Algorithm    string
	Cost         string
	NodesVisited int
	Succeeded    bool
}

// History is the run-ordered record list.
type History struct {
	mu      sync.RWMutex
	records []Record
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Append adds a record at the end.
func (h *History) Append(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
}

// Records returns a copy of all records in run order.
func (h *History) Records() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len reports the number of completed runs.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
