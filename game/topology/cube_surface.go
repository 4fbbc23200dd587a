package topology

import "fmt"

type cubeEdge int

const (
	edgeTop cubeEdge = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// cubeSeam glues edgeA of face a to face b. orient is the clockwise rotation
// of b when it is unfolded next to a.
type cubeSeam struct {
	a      int
	edgeA  cubeEdge
	b      int
	orient int
}

// Faces: 0 top, 1 front, 2 bottom, 3 back, 4 left, 5 right. Faces 0-3 form a
// loop walking down through their bottom edges.
var cubeSeams = [12]cubeSeam{
	{a: 0, edgeA: edgeBottom, b: 1, orient: 0},
	{a: 1, edgeA: edgeBottom, b: 2, orient: 0},
	{a: 2, edgeA: edgeBottom, b: 3, orient: 0},
	{a: 3, edgeA: edgeBottom, b: 0, orient: 0},
	{a: 1, edgeA: edgeLeft, b: 4, orient: 0},
	{a: 1, edgeA: edgeRight, b: 5, orient: 0},
	{a: 0, edgeA: edgeLeft, b: 4, orient: 270},
	{a: 0, edgeA: edgeRight, b: 5, orient: 90},
	{a: 2, edgeA: edgeLeft, b: 4, orient: 90},
	{a: 2, edgeA: edgeRight, b: 5, orient: 270},
	{a: 3, edgeA: edgeLeft, b: 4, orient: 180},
	{a: 3, edgeA: edgeRight, b: 5, orient: 180},
}

type cubeLink struct {
	face   int
	orient int
}

// CubeSurface is the outside of a width x height x depth box. Each face is a
// small grid; stepping off a face continues on the glued face, rotated.
type CubeSurface struct {
	width, height, depth int
	links                [6][4]cubeLink
	offsets              [7]int
	rowDigits            int
	colDigits            int
}

// NewCubeSurface creates the surface of a width x height x depth box.
func NewCubeSurface(width, height, depth int) (*CubeSurface, error) {
	if width < 1 || height < 1 || depth < 1 {
		return nil, ErrInvalidDimensions
	}

	s := &CubeSurface{width: width, height: height, depth: depth}
	for _, seam := range cubeSeams {
		edgeB := cubeEdge((int(seam.edgeA) + seam.orient/90 + 2) % 4)
		s.links[seam.a][seam.edgeA] = cubeLink{face: seam.b, orient: seam.orient}
		s.links[seam.b][edgeB] = cubeLink{face: seam.a, orient: (360 - seam.orient) % 360}
	}

	maxRows, maxCols := 0, 0
	for f := 0; f < 6; f++ {
		rows, cols := s.dims(f)
		s.offsets[f+1] = s.offsets[f] + rows*cols
		maxRows, maxCols = max(maxRows, rows), max(maxCols, cols)
	}
	s.rowDigits = digits(maxRows - 1)
	s.colDigits = digits(maxCols - 1)
	return s, nil
}

// dims returns the rows and columns of a face.
func (s *CubeSurface) dims(face int) (int, int) {
	switch face {
	case 0, 2:
		return s.depth, s.width
	case 1, 3:
		return s.height, s.width
	}
	return s.height, s.depth
}

func (s *CubeSurface) Kind() Kind    { return KindCubeSurface }
func (s *CubeSurface) NumCells() int { return s.offsets[6] }

func (s *CubeSurface) Contains(p Position) bool {
	if p.Z < 0 || p.Z >= 6 {
		return false
	}
	rows, cols := s.dims(p.Z)
	return p.Y >= 0 && p.Y < rows && p.X >= 0 && p.X < cols
}

func (s *CubeSurface) CellIndex(p Position) int {
	_, cols := s.dims(p.Z)
	return s.offsets[p.Z] + p.Y*cols + p.X
}

func (s *CubeSurface) At(index int) (Position, bool) {
	if index < 0 || index >= s.NumCells() {
		return Position{}, false
	}
	face := 0
	for index >= s.offsets[face+1] {
		face++
	}
	_, cols := s.dims(face)
	local := index - s.offsets[face]
	return FaceRowCol(face, local/cols, local%cols), true
}

func (s *CubeSurface) CellName(p Position) string {
	return fmt.Sprintf("f%d-%0*d-%0*d", p.Z, s.rowDigits, p.Y, s.colDigits, p.X)
}

// Adjacent returns the eight surrounding cells, following seams onto the
// neighboring faces. Diagonal steps through a corner of the box have no
// neighbor, so corner cells have seven.
func (s *CubeSurface) Adjacent(p Position) []Position {
	rows, cols := s.dims(p.Z)
	out := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := p.Y+dr, p.X+dc
			rowOut := r < 0 || r >= rows
			colOut := c < 0 || c >= cols
			switch {
			case rowOut && colOut:
				continue
			case rowOut || colOut:
				out = append(out, s.cross(p.Z, r, c))
			default:
				out = append(out, FaceRowCol(p.Z, r, c))
			}
		}
	}
	return out
}

// cross maps a coordinate that overflows exactly one side of face onto the
// glued face.
func (s *CubeSurface) cross(face, r, c int) Position {
	rows, cols := s.dims(face)

	var edge cubeEdge
	switch {
	case r < 0:
		edge = edgeTop
	case r >= rows:
		edge = edgeBottom
	case c < 0:
		edge = edgeLeft
	default:
		edge = edgeRight
	}

	link := s.links[face][edge]
	rowsB, colsB := s.dims(link.face)

	// Footprint of the neighbor face once unfolded next to this one.
	placedRows, placedCols := rowsB, colsB
	if link.orient == 90 || link.orient == 270 {
		placedRows, placedCols = colsB, rowsB
	}

	switch edge {
	case edgeTop:
		r += placedRows
	case edgeBottom:
		r -= rows
	case edgeLeft:
		c += placedCols
	case edgeRight:
		c -= cols
	}

	switch link.orient {
	case 90:
		r, c = c, colsB-1-r
	case 180:
		r, c = rowsB-1-r, colsB-1-c
	case 270:
		r, c = rowsB-1-c, r
	}
	return FaceRowCol(link.face, r, c)
}

func (s *CubeSurface) ForEach(fn func(p Position)) {
	for f := 0; f < 6; f++ {
		rows, cols := s.dims(f)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				fn(FaceRowCol(f, r, c))
			}
		}
	}
}

// Increment moves inside the current face on X and Y and cycles through the
// faces on Z, clamping the row and column to the new face.
func (s *CubeSurface) Increment(p Position, axis Axis, dir int) Position {
	step := sign(dir)
	rows, cols := s.dims(p.Z)
	switch axis {
	case AxisX:
		p.X = clamp(p.X+step, 0, cols-1)
	case AxisY:
		p.Y = clamp(p.Y+step, 0, rows-1)
	case AxisZ:
		p.Z = mod(p.Z+step, 6)
		rows, cols = s.dims(p.Z)
		p.Y = clamp(p.Y, 0, rows-1)
		p.X = clamp(p.X, 0, cols-1)
	}
	return p
}
