package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pathlab/internal/graph"
)

func TestColumns_FollowAlgorithmSchema(t *testing.T) {
	tbl := New()

	tbl.Reset("dijkstra")
	assert.Equal(t, []string{"Node", "Cost", "Previous"}, tbl.Columns())

	tbl.Reset("a_star")
	assert.Equal(t, []string{"Node", "g(n)", "h(n)", "f(n)", "Previous"}, tbl.Columns())
}

func TestRows_KeepFirstTouchedOrder(t *testing.T) {
	tbl := New()
	tbl.Reset("dijkstra")

	tbl.SetCost(3, "∞", "")
	tbl.SetCost(1, "0", "")
	tbl.SetCost(3, "5", "1")

	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, graph.NodeID(3), rows[0].Node)
	assert.Equal(t, "5", rows[0].Cost)
	assert.Equal(t, "1", rows[0].Prev)
	assert.Equal(t, graph.NodeID(1), rows[1].Node)
}

func TestSetCost_KeepsPreviousOnEmpty(t *testing.T) {
	tbl := New()
	tbl.SetCost(2, "4", "1")
	tbl.SetCost(2, "3", "")

	row, ok := tbl.RowOf(2)
	require.True(t, ok)
	assert.Equal(t, "3", row.Cost)
	assert.Equal(t, "1", row.Prev, "an empty predecessor must not erase the known one")
}

func TestHighlight_IsExclusive(t *testing.T) {
	tbl := New()
	tbl.Highlight(1)
	tbl.Highlight(2)
	assert.Equal(t, graph.NodeID(2), tbl.Highlighted())
}

func TestReset_ClearsEverything(t *testing.T) {
	tbl := New()
	tbl.SetCost(1, "0", "")
	tbl.Highlight(1)

	tbl.Reset("a_star")
	assert.Zero(t, tbl.Len())
	assert.Equal(t, graph.None, tbl.Highlighted())

	tbl.Clear()
	assert.Equal(t, []string{"Node", "Cost", "Previous"}, tbl.Columns(), "clearing drops the schema binding")
}

func TestSetScores(t *testing.T) {
	tbl := New()
	tbl.Reset("a_star")
	tbl.SetScores(2, "3.0", "1.4", "4.4", "1")

	row, ok := tbl.RowOf(2)
	require.True(t, ok)
	assert.Equal(t, "3.0", row.G)
	assert.Equal(t, "1.4", row.H)
	assert.Equal(t, "4.4", row.F)
	assert.Equal(t, "1", row.Prev)
}
