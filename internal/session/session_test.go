package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pathlab/internal/graph"
)

func TestSetRole_DisplacesPreviousHolder(t *testing.T) {
	m := graph.New()
	s := New(m)

	displaced := s.SetRole(1, RoleStart)
	assert.Equal(t, graph.None, displaced, "first designation displaces nobody")
	assert.Equal(t, graph.NodeID(1), s.Start())

	displaced = s.SetRole(2, RoleStart)
	assert.Equal(t, graph.NodeID(1), displaced)
	assert.Equal(t, graph.NodeID(2), s.Start())
}

func TestSetRole_SameNodeAgain(t *testing.T) {
	s := New(graph.New())
	s.SetRole(3, RoleEnd)
	displaced := s.SetRole(3, RoleEnd)
	assert.Equal(t, graph.None, displaced)
}

func TestSetRole_KeepsDualRoleNodeColored(t *testing.T) {
	s := New(graph.New())

	// Node 1 holds both roles; moving start away must not report it as
	// displaced because it still renders as the end node.
	s.SetRole(1, RoleStart)
	s.SetRole(1, RoleEnd)
	displaced := s.SetRole(2, RoleStart)
	assert.Equal(t, graph.None, displaced)

	isStart, isEnd := s.RoleOf(1)
	assert.False(t, isStart)
	assert.True(t, isEnd)
}

func TestRoleOf_BothRoles(t *testing.T) {
	s := New(graph.New())
	s.SetRole(4, RoleStart)
	s.SetRole(4, RoleEnd)

	isStart, isEnd := s.RoleOf(4)
	assert.True(t, isStart)
	assert.True(t, isEnd)
}

func TestInvalidate_OnNodeRemoval(t *testing.T) {
	m := graph.New()
	s := New(m)

	m.AddNode(nil)
	m.AddNode(nil)
	s.Select(1)
	s.SetRole(1, RoleStart)
	s.SetRole(2, RoleEnd)

	_, err := m.RemoveNode(1)
	require.NoError(t, err)

	assert.Equal(t, graph.None, s.Selected())
	assert.Equal(t, graph.None, s.Start())
	assert.Equal(t, graph.NodeID(2), s.End(), "unrelated references survive")
}

func TestReset_OnGraphClear(t *testing.T) {
	m := graph.New()
	s := New(m)

	m.AddNode(nil)
	s.Select(1)
	s.SetRole(1, RoleStart)
	s.SetMode(ModeAddingEdge)
	s.SetPending(1)

	m.Clear()

	assert.Equal(t, graph.None, s.Selected())
	assert.Equal(t, graph.None, s.Start())
	mode, pending := s.Mode()
	assert.Equal(t, ModeIdle, mode)
	assert.Equal(t, graph.None, pending)
}

func TestSetMode_ClearsPendingEndpoint(t *testing.T) {
	s := New(graph.New())
	s.SetMode(ModeAddingEdge)
	s.SetPending(5)

	s.SetMode(ModeAddingNode)
	mode, pending := s.Mode()
	assert.Equal(t, ModeAddingNode, mode)
	assert.Equal(t, graph.None, pending)
}
