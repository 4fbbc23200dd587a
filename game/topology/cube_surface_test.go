package topology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embed places the center of a surface cell in box coordinates.
func embed(s *CubeSurface, p Position) [3]float64 {
	w, h, d := float64(s.width), float64(s.height), float64(s.depth)
	r, c := float64(p.Y)+0.5, float64(p.X)+0.5
	switch p.Z {
	case 0:
		return [3]float64{c, h, r}
	case 1:
		return [3]float64{c, h - r, d}
	case 2:
		return [3]float64{c, 0, d - r}
	case 3:
		return [3]float64{c, r, 0}
	case 4:
		return [3]float64{0, h - r, c}
	}
	return [3]float64{w, h - r, d - c}
}

func TestCubeSurface(t *testing.T) {
	t.Run("2x2x2 has 24 cells", func(t *testing.T) {
		s, err := NewCubeSurface(2, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 24, s.NumCells())
	})

	t.Run("front bottom edge continues on the bottom face unrotated", func(t *testing.T) {
		s, err := NewCubeSurface(2, 2, 2)
		require.NoError(t, err)

		for c := 0; c < 2; c++ {
			assert.Contains(t, s.Adjacent(FaceRowCol(1, 1, c)), FaceRowCol(2, 0, c))
		}
		assert.Equal(t, FaceRowCol(2, 0, 1), s.cross(1, 2, 1))
	})

	t.Run("rotated seams", func(t *testing.T) {
		s, err := NewCubeSurface(3, 4, 5)
		require.NoError(t, err)

		// Top face left edge runs along the top edge of the left face.
		assert.Equal(t, FaceRowCol(4, 0, 2), s.cross(0, 2, -1))
		// Top face right edge runs backwards along the top of the right face.
		assert.Equal(t, FaceRowCol(5, 0, 2), s.cross(0, 2, 3))
		// Back and left faces meet back to back.
		assert.Equal(t, FaceRowCol(4, 2, 0), s.cross(3, 1, -1))
	})

	t.Run("box corners have seven neighbors", func(t *testing.T) {
		s, err := NewCubeSurface(3, 3, 3)
		require.NoError(t, err)

		adj := s.Adjacent(FaceRowCol(1, 0, 0))
		assert.Len(t, adj, 7)
		assert.Len(t, distinct(s, adj), 7)
		assert.Len(t, s.Adjacent(FaceRowCol(1, 1, 1)), 8)
	})

	t.Run("neighbors are close in space", func(t *testing.T) {
		for _, dims := range [][3]int{{2, 2, 2}, {3, 4, 5}, {1, 2, 3}, {4, 1, 2}, {1, 1, 1}} {
			s, err := NewCubeSurface(dims[0], dims[1], dims[2])
			require.NoError(t, err)

			s.ForEach(func(p Position) {
				a := embed(s, p)
				for _, q := range s.Adjacent(p) {
					b := embed(s, q)
					dist := math.Sqrt((a[0]-b[0])*(a[0]-b[0]) + (a[1]-b[1])*(a[1]-b[1]) + (a[2]-b[2])*(a[2]-b[2]))
					assert.LessOrEqual(t, dist, 1.6, "%v %v -> %v", dims, p, q)
				}
			})
		}
	})

	t.Run("z cycles faces", func(t *testing.T) {
		s, err := NewCubeSurface(2, 3, 4)
		require.NoError(t, err)

		assert.Equal(t, FaceRowCol(0, 2, 1), s.Increment(FaceRowCol(5, 2, 3), AxisZ, 1))
		assert.Equal(t, FaceRowCol(5, 0, 0), s.Increment(FaceRowCol(0, 0, 0), AxisZ, -1))
	})

	t.Run("names carry the face", func(t *testing.T) {
		s, err := NewCubeSurface(2, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, "f3-1-0", s.CellName(FaceRowCol(3, 1, 0)))
	})
}
