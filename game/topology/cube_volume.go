package topology

import "fmt"

// CubeVolume is a dense three dimensional lattice with 26 neighbors per
// interior cell. It does not wrap.
type CubeVolume struct {
	width, height, depth int
	xDigits              int
	yDigits              int
	zDigits              int
}

// NewCubeVolume creates a width x height x depth lattice.
func NewCubeVolume(width, height, depth int) (*CubeVolume, error) {
	if width < 1 || height < 1 || depth < 1 {
		return nil, ErrInvalidDimensions
	}
	return &CubeVolume{
		width:   width,
		height:  height,
		depth:   depth,
		xDigits: digits(width - 1),
		yDigits: digits(height - 1),
		zDigits: digits(depth - 1),
	}, nil
}

func (v *CubeVolume) Kind() Kind    { return KindCubeVolume }
func (v *CubeVolume) NumCells() int { return v.width * v.height * v.depth }

func (v *CubeVolume) Contains(p Position) bool {
	return p.X >= 0 && p.X < v.width && p.Y >= 0 && p.Y < v.height && p.Z >= 0 && p.Z < v.depth
}

func (v *CubeVolume) CellIndex(p Position) int {
	return (p.Z*v.height+p.Y)*v.width + p.X
}

func (v *CubeVolume) At(index int) (Position, bool) {
	if index < 0 || index >= v.NumCells() {
		return Position{}, false
	}
	layer := v.width * v.height
	return Position{
		X: index % v.width,
		Y: (index % layer) / v.width,
		Z: index / layer,
	}, true
}

// CellName is layer-row-column.
func (v *CubeVolume) CellName(p Position) string {
	return fmt.Sprintf("%0*d-%0*d-%0*d", v.zDigits, p.Z, v.yDigits, p.Y, v.xDigits, p.X)
}

func (v *CubeVolume) Adjacent(p Position) []Position {
	out := make([]Position, 0, 26)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				q := Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
				if v.Contains(q) {
					out = append(out, q)
				}
			}
		}
	}
	return out
}

func (v *CubeVolume) ForEach(fn func(p Position)) {
	for z := 0; z < v.depth; z++ {
		for y := 0; y < v.height; y++ {
			for x := 0; x < v.width; x++ {
				fn(Position{X: x, Y: y, Z: z})
			}
		}
	}
}

func (v *CubeVolume) Increment(p Position, axis Axis, dir int) Position {
	step := sign(dir)
	switch axis {
	case AxisX:
		p.X = clamp(p.X+step, 0, v.width-1)
	case AxisY:
		p.Y = clamp(p.Y+step, 0, v.height-1)
	case AxisZ:
		p.Z = clamp(p.Z+step, 0, v.depth-1)
	}
	return p
}
