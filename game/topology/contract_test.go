package topology

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractCase struct {
	name string
	topo Topology
	axes []Axis
}

func contractCases(t *testing.T) []contractCase {
	t.Helper()
	must := func(topo Topology, err error) Topology {
		require.NoError(t, err)
		return topo
	}
	planar := []Axis{AxisX, AxisY}
	spatial := []Axis{AxisX, AxisY, AxisZ}
	return []contractCase{
		{"grid 5x3", must(NewGrid(5, 3)), planar},
		{"grid radius 2", must(NewGrid(6, 6, WithRadius(2))), planar},
		{"torus 4x4", must(NewGrid(4, 4, WithWrap())), planar},
		{"torus 2x3", must(NewGrid(2, 3, WithWrap())), planar},
		{"hex 5x4", must(NewHexGrid(5, 4)), planar},
		{"cube surface 2x2x2", must(NewCubeSurface(2, 2, 2)), spatial},
		{"cube surface 3x4x5", must(NewCubeSurface(3, 4, 5)), planar},
		{"cube surface 1x2x3", must(NewCubeSurface(1, 2, 3)), planar},
		{"cube volume 3x2x4", must(NewCubeVolume(3, 2, 4)), spatial},
		{"geodesic hex N=1", must(NewGeodesic(1, 0, TilingHex)), spatial},
		{"geodesic hex N=3 c=1", must(NewGeodesic(3, 1, TilingHex)), spatial},
		{"geodesic triangle N=2 c=1", must(NewGeodesic(2, 1, TilingTriangle)), spatial},
		{"geodesic triangle N=3 c=0", must(NewGeodesic(3, 0, TilingTriangle)), spatial},
	}
}

func positions(topo Topology) []Position {
	var out []Position
	topo.ForEach(func(p Position) {
		out = append(out, p)
	})
	return out
}

func TestTopologyContract(t *testing.T) {
	for _, tc := range contractCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			all := positions(tc.topo)
			require.Len(t, all, tc.topo.NumCells())

			t.Run("index is a bijection", func(t *testing.T) {
				seen := make(map[int]bool)
				for _, p := range all {
					idx := tc.topo.CellIndex(p)
					assert.GreaterOrEqual(t, idx, 0)
					assert.Less(t, idx, tc.topo.NumCells())
					assert.False(t, seen[idx], "index %d reused by %v", idx, p)
					seen[idx] = true

					back, ok := tc.topo.At(idx)
					assert.True(t, ok)
					assert.Equal(t, p, back)
				}
				assert.Len(t, seen, tc.topo.NumCells())

				_, ok := tc.topo.At(tc.topo.NumCells())
				assert.False(t, ok)
				_, ok = tc.topo.At(-1)
				assert.False(t, ok)
			})

			t.Run("names are unique", func(t *testing.T) {
				names := make(map[string]Position)
				for _, p := range all {
					name := tc.topo.CellName(p)
					prev, dup := names[name]
					assert.False(t, dup, "%s names both %v and %v", name, prev, p)
					names[name] = p
				}
			})

			t.Run("adjacency is symmetric", func(t *testing.T) {
				for _, p := range all {
					for _, q := range tc.topo.Adjacent(p) {
						require.True(t, tc.topo.Contains(q), "%v lists invalid neighbor %v", p, q)
						assert.NotEqual(t, p, q, "self loop at %v", p)
						assert.Contains(t, tc.topo.Adjacent(q), p, "%v -> %v is one way", p, q)
					}
				}
			})

			t.Run("increment round trips", func(t *testing.T) {
				for _, p := range all {
					for _, axis := range tc.axes {
						q := tc.topo.Increment(p, axis, 1)
						require.True(t, tc.topo.Contains(q))
						if q == p {
							continue
						}
						assert.Equal(t, p, tc.topo.Increment(q, axis, -1), "%v along %s", p, axis)
					}
				}
			})
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		spec  Spec
		kind  Kind
		cells int
	}{
		{Spec{Kind: KindGrid, Width: 9, Height: 9}, KindGrid, 81},
		{Spec{Kind: KindTorus, Width: 4, Height: 5}, KindTorus, 20},
		{Spec{Kind: KindHex, Width: 6, Height: 3}, KindHex, 18},
		{Spec{Kind: KindCubeSurface, Width: 2, Height: 2, Depth: 2}, KindCubeSurface, 24},
		{Spec{Kind: KindCubeVolume, Width: 3, Height: 3, Depth: 3}, KindCubeVolume, 27},
		{Spec{Kind: KindGeodesic, Frequency: 2, Tiling: TilingHex}, KindGeodesic, 42},
		{Spec{Kind: KindGeodesic, Frequency: 2}, KindGeodesic, 80},
	}

	for _, tt := range tests {
		t.Run(tt.spec.String(), func(t *testing.T) {
			topo, err := New(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, topo.Kind())
			assert.Equal(t, tt.cells, topo.NumCells())
		})
	}

	t.Run("rejects bad specs", func(t *testing.T) {
		for _, spec := range []Spec{
			{Kind: "moebius", Width: 3, Height: 3},
			{Kind: KindGrid, Width: 0, Height: 3},
			{Kind: KindCubeSurface, Width: 2, Height: 2},
			{Kind: KindGeodesic, Frequency: 2, Skew: 2},
			{Kind: KindGeodesic, Frequency: 2, Tiling: "square"},
		} {
			_, err := New(spec)
			assert.Error(t, err, fmt.Sprint(spec))
		}
	})

	t.Run("rejects oversized boards", func(t *testing.T) {
		for _, spec := range []Spec{
			{Kind: KindGrid, Width: 100000, Height: 100000},
			{Kind: KindTorus, Width: 1 << 30, Height: 1 << 30},
			{Kind: KindHex, Width: 1024, Height: 1024},
			{Kind: KindCubeSurface, Width: 300, Height: 300, Depth: 300},
			{Kind: KindCubeVolume, Width: 100, Height: 100, Depth: 100},
			{Kind: KindGeodesic, Frequency: 5000, Tiling: TilingHex},
			{Kind: KindGrid, Width: 9, Height: 9, Radius: 1000},
		} {
			_, err := New(spec)
			assert.ErrorIs(t, err, ErrInvalidDimensions, fmt.Sprint(spec))
		}

		topo, err := New(Spec{Kind: KindGrid, Width: 512, Height: 512})
		require.NoError(t, err)
		assert.Equal(t, MaxCells, topo.NumCells())
	})
}
