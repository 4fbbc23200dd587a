package presets

import (
	"testing"

	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()
	require.NotEmpty(t, c.All())

	for _, p := range c.All() {
		t.Run(p.Name, func(t *testing.T) {
			topo, err := topology.New(p.Topology)
			require.NoError(t, err)
			assert.Less(t, p.Mines, topo.NumCells())
		})
	}

	expert, err := c.Get("expert")
	require.NoError(t, err)
	assert.Equal(t, 99, expert.Mines)
	assert.Equal(t, topology.KindGrid, expert.Topology.Kind)

	_, err = c.Get("nightmare")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestParse(t *testing.T) {
	t.Run("both mining modes", func(t *testing.T) {
		_, err := Parse([]byte(`
- name: odd
  topology: {kind: grid, width: 3, height: 3}
  mines: 2
  mine_prob: 0.5
`))
		assert.ErrorIs(t, err, ErrInvalidPreset)
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := Parse([]byte(`
- {name: a, topology: {kind: grid, width: 3, height: 3}, mines: 1}
- {name: a, topology: {kind: grid, width: 4, height: 4}, mines: 1}
`))
		assert.Error(t, err)
	})

	t.Run("geodesic fields", func(t *testing.T) {
		c, err := Parse([]byte(`
- {name: g, topology: {kind: geodesic, frequency: 3, skew: 1, tiling: hex}, mine_prob: 0.1}
`))
		require.NoError(t, err)
		p, err := c.Get("g")
		require.NoError(t, err)
		assert.Equal(t, topology.Spec{Kind: topology.KindGeodesic, Frequency: 3, Skew: 1, Tiling: topology.TilingHex}, p.Topology)
		assert.Equal(t, 0.1, p.MineProb)
	})
}
