package topology

import "fmt"

// HexGrid packs hexagons in offset rows. Even rows reach right into their
// neighboring rows, odd rows reach left.
type HexGrid struct {
	width, height int
	rowDigits     int
	colDigits     int
}

// NewHexGrid creates a width x height offset hex board.
func NewHexGrid(width, height int) (*HexGrid, error) {
	if width < 1 || height < 1 {
		return nil, ErrInvalidDimensions
	}
	return &HexGrid{
		width:     width,
		height:    height,
		rowDigits: digits(height - 1),
		colDigits: digits(width - 1),
	}, nil
}

func (h *HexGrid) Kind() Kind    { return KindHex }
func (h *HexGrid) Width() int    { return h.width }
func (h *HexGrid) Height() int   { return h.height }
func (h *HexGrid) NumCells() int { return h.width * h.height }

func (h *HexGrid) Contains(p Position) bool {
	return p.Z == 0 && p.Y >= 0 && p.Y < h.height && p.X >= 0 && p.X < h.width
}

func (h *HexGrid) CellIndex(p Position) int {
	return p.Y*h.width + p.X
}

func (h *HexGrid) At(index int) (Position, bool) {
	if index < 0 || index >= h.NumCells() {
		return Position{}, false
	}
	return RowCol(index/h.width, index%h.width), true
}

func (h *HexGrid) CellName(p Position) string {
	return fmt.Sprintf("%0*d-%0*d", h.rowDigits, p.Y, h.colDigits, p.X)
}

func (h *HexGrid) Adjacent(p Position) []Position {
	r, c := p.Y, p.X
	lo, hi := c, c+1
	if r%2 == 1 {
		lo, hi = c-1, c
	}

	out := make([]Position, 0, 6)
	add := func(r, c int) {
		if r >= 0 && r < h.height && c >= 0 && c < h.width {
			out = append(out, RowCol(r, c))
		}
	}
	for _, rr := range []int{r - 1, r + 1} {
		add(rr, lo)
		add(rr, hi)
	}
	add(r, c-1)
	add(r, c+1)
	return out
}

func (h *HexGrid) ForEach(fn func(p Position)) {
	for r := 0; r < h.height; r++ {
		for c := 0; c < h.width; c++ {
			fn(RowCol(r, c))
		}
	}
}

func (h *HexGrid) Increment(p Position, axis Axis, dir int) Position {
	switch axis {
	case AxisX:
		p.X = clamp(p.X+sign(dir), 0, h.width-1)
	case AxisY:
		p.Y = clamp(p.Y+sign(dir), 0, h.height-1)
	}
	return p
}
