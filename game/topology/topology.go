// Package topology describes the shapes a minesweeper board can take.
//
// A Topology owns indexing, naming and adjacency for one board shape. Boards
// never interpret a Position themselves; they ask the topology.
package topology

import (
	"errors"
	"fmt"
)

// Topology related errors.
var (
	ErrInvalidDimensions     = errors.New("invalid topology dimensions")
	ErrAsymmetricNeighbors   = errors.New("neighborhood predicate is not symmetric")
	ErrUnknownKind           = errors.New("unknown topology kind")
	ErrInvalidGeodesicParams = errors.New("geodesic frequency must be positive and skew in [0, frequency)")
)

// Kind names a topology variant.
type Kind string

const (
	KindGrid        Kind = "grid"
	KindTorus       Kind = "torus"
	KindHex         Kind = "hex"
	KindCubeSurface Kind = "cube_surface"
	KindCubeVolume  Kind = "cube_volume"
	KindGeodesic    Kind = "geodesic"
)

// Axis selects the coordinate stepped by Increment.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Position is a topology specific coordinate. It is a plain value and can be
// used as a map key.
//
//   - Grid, Torus, Hex: X is the column, Y the row.
//   - CubeSurface: Z is the face, Y the row and X the column inside the face.
//   - CubeVolume: X, Y, Z.
//   - Geodesic: X, Y are lattice coordinates, Z the triangle half (0 for hex tiling).
type Position struct {
	X, Y, Z int
}

// RowCol builds a planar position.
func RowCol(row, col int) Position {
	return Position{X: col, Y: row}
}

// FaceRowCol builds a cube surface position.
func FaceRowCol(face, row, col int) Position {
	return Position{X: col, Y: row, Z: face}
}

// Topology is the contract every board shape satisfies.
//
// Adjacency is symmetric: if q is in Adjacent(p) then p is in Adjacent(q).
// Adjacent may list the same position more than once on small wrapping
// shapes; callers that count neighbors deduplicate by index.
type Topology interface {
	Kind() Kind

	// NumCells returns the number of addressable positions.
	NumCells() int

	// CellIndex maps a valid position onto [0, NumCells()). The position must
	// satisfy Contains.
	CellIndex(p Position) int

	// CellName returns a stable unique name, used as the solver wire key.
	CellName(p Position) string

	// Contains reports whether p addresses a cell.
	Contains(p Position) bool

	// At is the inverse of CellIndex.
	At(index int) (Position, bool)

	Adjacent(p Position) []Position

	// ForEach visits every position once in a deterministic order.
	ForEach(fn func(p Position))

	// Increment steps one unit along axis in direction dir (+1 or -1) and
	// returns the new position. Out of range steps clamp or wrap.
	Increment(p Position, axis Axis, dir int) Position
}

func digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func sign(dir int) int {
	switch {
	case dir > 0:
		return 1
	case dir < 0:
		return -1
	}
	return 0
}
