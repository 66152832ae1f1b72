// Package testutil holds shared test fixtures: a thread-safe log buffer,
// graph builders and canned collaborators for the editor and replay tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/pathlab/internal/graph"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// LineGraph builds the canonical three-node fixture 1-2-3 with weights 3 and
// 4, so the shortest path from 1 to 3 costs 7.
func LineGraph(t *testing.T) *graph.Model {
	t.Helper()
	m := graph.New()
	m.AddNode(&graph.Position{X: 0, Y: 0})
	m.AddNode(&graph.Position{X: 100, Y: 0})
	m.AddNode(&graph.Position{X: 200, Y: 0})
	_, err := m.AddOrReplaceEdge(1, 2, 3)
	require.NoError(t, err)
	_, err = m.AddOrReplaceEdge(2, 3, 4)
	require.NoError(t, err)
	return m
}

// NoSleep is a replay sleep function that returns immediately, letting tests
// replay full timelines at zero wall-clock cost.
func NoSleep(context.Context, time.Duration) error { return nil }

// StubPrompter answers every weight prompt with a canned response.
type StubPrompter struct {
	Weight    int
	Cancelled bool
	Err       error

	mu    sync.Mutex
	calls int
}

// AskWeight implements the editor's prompter interface.
func (p *StubPrompter) AskWeight(context.Context, graph.NodeID, graph.NodeID) (int, bool, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.Weight, !p.Cancelled, p.Err
}

// Calls reports how many prompts were asked.
func (p *StubPrompter) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// StubGate is an editor gate with a settable in-flight state.
type StubGate struct {
	mu     sync.Mutex
	active bool
}

// Set switches the gate.
func (g *StubGate) Set(active bool) {
	g.mu.Lock()
	g.active = active
	g.mu.Unlock()
}

// InFlight implements the editor's gate interface.
func (g *StubGate) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Notices records notifications in order.
type Notices struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements the notifier interfaces of replay and run.
func (n *Notices) Notify(_ context.Context, message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

// Messages returns the recorded notifications.
func (n *Notices) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// WriteConfigFile writes an HCL config file into a temp dir and returns its
// path. The file is removed with the test.
func WriteConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pathlab.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
