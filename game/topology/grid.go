package topology

import "fmt"

// Grid is a rectangular board. With wrapping enabled it is a torus.
type Grid struct {
	width, height int
	wrap          bool
	radius        int
	neighborhood  func(dr, dc int) bool
	offsets       [][2]int
	rowDigits     int
	colDigits     int
}

// GridOption configures a Grid.
type GridOption func(*Grid)

// WithWrap joins opposite edges, turning the grid into a torus.
func WithWrap() GridOption {
	return func(g *Grid) {
		g.wrap = true
	}
}

// WithRadius widens adjacency to every cell within Chebyshev distance r.
func WithRadius(r int) GridOption {
	return func(g *Grid) {
		g.radius = r
	}
}

// WithNeighborhood restricts adjacency to offsets accepted by fn, evaluated
// inside the current radius.
func WithNeighborhood(fn func(dr, dc int) bool) GridOption {
	return func(g *Grid) {
		g.neighborhood = fn
	}
}

// NewGrid creates a width x height grid.
func NewGrid(width, height int, opts ...GridOption) (*Grid, error) {
	g := &Grid{
		width:  width,
		height: height,
		radius: 1,
	}
	for _, opt := range opts {
		opt(g)
	}

	if width < 1 || height < 1 || g.radius < 1 {
		return nil, ErrInvalidDimensions
	}

	for dr := -g.radius; dr <= g.radius; dr++ {
		for dc := -g.radius; dc <= g.radius; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.neighborhood != nil {
				if g.neighborhood(dr, dc) != g.neighborhood(-dr, -dc) {
					return nil, ErrAsymmetricNeighbors
				}
				if !g.neighborhood(dr, dc) {
					continue
				}
			}
			g.offsets = append(g.offsets, [2]int{dr, dc})
		}
	}

	g.rowDigits = digits(height - 1)
	g.colDigits = digits(width - 1)
	return g, nil
}

func (g *Grid) Kind() Kind {
	if g.wrap {
		return KindTorus
	}
	return KindGrid
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) NumCells() int {
	return g.width * g.height
}

func (g *Grid) Contains(p Position) bool {
	return p.Z == 0 && p.Y >= 0 && p.Y < g.height && p.X >= 0 && p.X < g.width
}

func (g *Grid) CellIndex(p Position) int {
	return p.Y*g.width + p.X
}

func (g *Grid) At(index int) (Position, bool) {
	if index < 0 || index >= g.NumCells() {
		return Position{}, false
	}
	return RowCol(index/g.width, index%g.width), true
}

func (g *Grid) CellName(p Position) string {
	return fmt.Sprintf("%0*d-%0*d", g.rowDigits, p.Y, g.colDigits, p.X)
}

// Adjacent returns the neighbors of p. On a torus the list can contain p's
// neighbors more than once when the grid is narrower than the neighborhood.
func (g *Grid) Adjacent(p Position) []Position {
	out := make([]Position, 0, len(g.offsets))
	for _, off := range g.offsets {
		r, c := p.Y+off[0], p.X+off[1]
		if g.wrap {
			r, c = mod(r, g.height), mod(c, g.width)
			if r == p.Y && c == p.X {
				continue
			}
		} else if r < 0 || r >= g.height || c < 0 || c >= g.width {
			continue
		}
		out = append(out, RowCol(r, c))
	}
	return out
}

func (g *Grid) ForEach(fn func(p Position)) {
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			fn(RowCol(r, c))
		}
	}
}

func (g *Grid) Increment(p Position, axis Axis, dir int) Position {
	step := sign(dir)
	switch axis {
	case AxisX:
		if g.wrap {
			p.X = mod(p.X+step, g.width)
		} else {
			p.X = clamp(p.X+step, 0, g.width-1)
		}
	case AxisY:
		if g.wrap {
			p.Y = mod(p.Y+step, g.height)
		} else {
			p.Y = clamp(p.Y+step, 0, g.height-1)
		}
	}
	return p
}
