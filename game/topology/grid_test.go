package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distinct(topo Topology, ps []Position) map[int]Position {
	out := make(map[int]Position)
	for _, p := range ps {
		out[topo.CellIndex(p)] = p
	}
	return out
}

func TestGrid(t *testing.T) {
	t.Run("interior and corner neighbors", func(t *testing.T) {
		g, err := NewGrid(3, 3)
		require.NoError(t, err)

		assert.Len(t, g.Adjacent(RowCol(1, 1)), 8)
		assert.ElementsMatch(t,
			[]Position{RowCol(0, 1), RowCol(1, 0), RowCol(1, 1)},
			g.Adjacent(RowCol(0, 0)))
	})

	t.Run("names are zero padded", func(t *testing.T) {
		g, err := NewGrid(12, 10)
		require.NoError(t, err)

		assert.Equal(t, "3-07", g.CellName(RowCol(3, 7)))
		assert.Equal(t, "9-11", g.CellName(RowCol(9, 11)))
	})

	t.Run("increment clamps", func(t *testing.T) {
		g, err := NewGrid(3, 3)
		require.NoError(t, err)

		assert.Equal(t, RowCol(0, 0), g.Increment(RowCol(0, 0), AxisX, -1))
		assert.Equal(t, RowCol(2, 2), g.Increment(RowCol(2, 2), AxisY, 1))
		assert.Equal(t, RowCol(1, 2), g.Increment(RowCol(1, 1), AxisX, 1))
		assert.Equal(t, RowCol(1, 1), g.Increment(RowCol(1, 1), AxisZ, 1))
	})

	t.Run("custom neighborhood", func(t *testing.T) {
		g, err := NewGrid(3, 3, WithNeighborhood(func(dr, dc int) bool {
			return dr == 0 || dc == 0
		}))
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]Position{RowCol(0, 1), RowCol(1, 0), RowCol(1, 2), RowCol(2, 1)},
			g.Adjacent(RowCol(1, 1)))
	})

	t.Run("asymmetric neighborhood is rejected", func(t *testing.T) {
		_, err := NewGrid(3, 3, WithNeighborhood(func(dr, dc int) bool {
			return dr > 0
		}))
		assert.ErrorIs(t, err, ErrAsymmetricNeighbors)
	})

	t.Run("radius two", func(t *testing.T) {
		g, err := NewGrid(7, 7, WithRadius(2))
		require.NoError(t, err)
		assert.Len(t, g.Adjacent(RowCol(3, 3)), 24)
	})
}

func TestTorus(t *testing.T) {
	t.Run("corner wraps to the opposite sides", func(t *testing.T) {
		g, err := NewGrid(4, 4, WithWrap())
		require.NoError(t, err)
		assert.Equal(t, KindTorus, g.Kind())

		adj := g.Adjacent(RowCol(0, 0))
		for _, want := range []Position{RowCol(3, 3), RowCol(3, 0), RowCol(0, 3)} {
			count := 0
			for _, p := range adj {
				if p == want {
					count++
				}
			}
			assert.Equal(t, 1, count, "%v", want)
		}
		assert.Len(t, distinct(g, adj), 8)
	})

	t.Run("narrow torus repeats neighbors", func(t *testing.T) {
		g, err := NewGrid(2, 2, WithWrap())
		require.NoError(t, err)

		adj := g.Adjacent(RowCol(0, 0))
		assert.Greater(t, len(adj), 3)
		assert.Len(t, distinct(g, adj), 3)
	})

	t.Run("increment wraps", func(t *testing.T) {
		g, err := NewGrid(4, 3, WithWrap())
		require.NoError(t, err)

		assert.Equal(t, RowCol(0, 3), g.Increment(RowCol(0, 0), AxisX, -1))
		assert.Equal(t, RowCol(0, 1), g.Increment(RowCol(2, 1), AxisY, 1))
	})
}

func TestHexGrid(t *testing.T) {
	h, err := NewHexGrid(5, 5)
	require.NoError(t, err)

	t.Run("even rows reach right", func(t *testing.T) {
		assert.ElementsMatch(t, []Position{
			RowCol(1, 2), RowCol(1, 3),
			RowCol(2, 1), RowCol(2, 3),
			RowCol(3, 2), RowCol(3, 3),
		}, h.Adjacent(RowCol(2, 2)))
	})

	t.Run("odd rows reach left", func(t *testing.T) {
		assert.ElementsMatch(t, []Position{
			RowCol(0, 1), RowCol(0, 2),
			RowCol(1, 1), RowCol(1, 3),
			RowCol(2, 1), RowCol(2, 2),
		}, h.Adjacent(RowCol(1, 2)))
	})

	t.Run("edges clip", func(t *testing.T) {
		assert.ElementsMatch(t, []Position{RowCol(0, 1), RowCol(1, 0), RowCol(1, 1)}, h.Adjacent(RowCol(0, 0)))
		assert.ElementsMatch(t, []Position{
			RowCol(0, 3), RowCol(0, 4), RowCol(1, 3), RowCol(2, 3), RowCol(2, 4),
		}, h.Adjacent(RowCol(1, 4)))
	})
}

func TestCubeVolume(t *testing.T) {
	v, err := NewCubeVolume(3, 3, 3)
	require.NoError(t, err)

	assert.Len(t, v.Adjacent(Position{X: 1, Y: 1, Z: 1}), 26)
	assert.Len(t, v.Adjacent(Position{}), 7)
	assert.Equal(t, "2-0-1", v.CellName(Position{X: 1, Y: 0, Z: 2}))
	assert.Equal(t, Position{X: 1, Y: 1, Z: 2}, v.Increment(Position{X: 1, Y: 1, Z: 2}, AxisZ, 1))
}
