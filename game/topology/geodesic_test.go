package topology

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeodesicCounts(t *testing.T) {
	for freq := 1; freq <= 4; freq++ {
		for skew := 0; skew < freq; skew++ {
			tri := freq*freq - freq*skew + skew*skew

			t.Run(fmt.Sprintf("hex N=%d c=%d", freq, skew), func(t *testing.T) {
				g, err := NewGeodesic(freq, skew, TilingHex)
				require.NoError(t, err)
				assert.Equal(t, tri, g.Triangles())
				assert.Equal(t, 10*tri+2, g.NumCells())

				stats := g.Stats()
				assert.Equal(t, 2, stats.Euler(), "%+v", stats)
				assert.Equal(t, 20*tri, stats.Vertices)
				assert.Equal(t, 30*tri, stats.Edges)
			})

			t.Run(fmt.Sprintf("triangle N=%d c=%d", freq, skew), func(t *testing.T) {
				g, err := NewGeodesic(freq, skew, TilingTriangle)
				require.NoError(t, err)
				assert.Equal(t, 20*tri, g.NumCells())

				stats := g.Stats()
				assert.Equal(t, 2, stats.Euler(), "%+v", stats)
				assert.Equal(t, 10*tri+2, stats.Vertices)
			})
		}
	}
}

func TestGeodesicPentagons(t *testing.T) {
	t.Run("N=1 is twelve pentagons", func(t *testing.T) {
		g, err := NewGeodesic(1, 0, TilingHex)
		require.NoError(t, err)

		pentagons := g.Pentagons()
		assert.Len(t, pentagons, 12)
		assert.Equal(t, g.NumCells(), len(pentagons))
		for _, p := range pentagons {
			assert.Len(t, distinct(g, g.Adjacent(p)), 5)
			anchor, ok := g.Anchor(p)
			assert.True(t, ok)
			assert.GreaterOrEqual(t, anchor, 0.0)
			assert.Less(t, anchor, 6.0)
		}
	})

	for _, params := range [][2]int{{2, 1}, {3, 0}, {3, 2}, {4, 1}} {
		t.Run(fmt.Sprintf("N=%d c=%d", params[0], params[1]), func(t *testing.T) {
			g, err := NewGeodesic(params[0], params[1], TilingHex)
			require.NoError(t, err)

			pentagons := make(map[Position]bool)
			for _, p := range g.Pentagons() {
				pentagons[p] = true
			}
			assert.Len(t, pentagons, 12)

			g.ForEach(func(p Position) {
				want := 6
				if pentagons[p] {
					want = 5
				}
				assert.Len(t, distinct(g, g.Adjacent(p)), want, "%s", g.CellName(p))
			})
		})
	}

	t.Run("triangle tiling has none", func(t *testing.T) {
		g, err := NewGeodesic(2, 0, TilingTriangle)
		require.NoError(t, err)
		assert.Empty(t, g.Pentagons())
	})
}

func TestCircularMean(t *testing.T) {
	tests := []struct {
		dirs []int
		want float64
	}{
		{[]int{5, 0}, 5.5},
		{[]int{0, 1, 2}, 1},
		{[]int{4, 5, 0, 1}, 5.5},
		{[]int{3}, 3},
		{[]int{1, 3}, 2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, circularMean(tt.dirs), 1e-9, "%v", tt.dirs)
	}
}

func TestGeodesicFaces(t *testing.T) {
	t.Run("unskewed triangles split evenly over faces", func(t *testing.T) {
		for freq := 1; freq <= 3; freq++ {
			g, err := NewGeodesic(freq, 0, TilingTriangle)
			require.NoError(t, err)

			perFace := make(map[int]int)
			g.ForEach(func(p Position) {
				face, ok := g.Face(p)
				require.True(t, ok)
				perFace[face]++
			})
			assert.Len(t, perFace, 20)
			for face, n := range perFace {
				assert.Equal(t, freq*freq, n, "face %d", face)
			}
		}
	})

	t.Run("classification is stable", func(t *testing.T) {
		a, err := NewGeodesic(3, 1, TilingHex)
		require.NoError(t, err)
		b, err := NewGeodesic(3, 1, TilingHex)
		require.NoError(t, err)

		a.ForEach(func(p Position) {
			fa, _ := a.Face(p)
			fb, _ := b.Face(p)
			assert.Equal(t, fa, fb)
			assert.GreaterOrEqual(t, fa, 0)
			assert.Less(t, fa, 20)
			assert.Equal(t, a.CellName(p), b.CellName(p))
		})
	})
}

func TestGeodesicNames(t *testing.T) {
	g, err := NewGeodesic(2, 0, TilingTriangle)
	require.NoError(t, err)

	first, ok := g.At(0)
	require.True(t, ok)
	name := g.CellName(first)
	assert.Regexp(t, `^\d+-\d+[ab]$`, name)

	h, err := NewGeodesic(2, 0, TilingHex)
	require.NoError(t, err)
	first, ok = h.At(0)
	require.True(t, ok)
	assert.Regexp(t, `^\d+-\d+$`, h.CellName(first))
}

func TestClassifyDistance(t *testing.T) {
	assert.Equal(t, inside, classifyDistance(0.25))
	assert.Equal(t, onEdge, classifyDistance(Epsilon/2))
	assert.Equal(t, onEdge, classifyDistance(-Epsilon/2))
	assert.Equal(t, outside, classifyDistance(-2*Epsilon))
}
