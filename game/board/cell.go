package board

// Mine marks a cell holding a mine. Other states are the number of adjacent
// mines.
const Mine = -1

// Cell is one square (or hexagon, or triangle) of a board.
type Cell struct {
	Name    string `json:"name"`
	State   int    `json:"-"`
	Visible bool   `json:"visible"`
	Flagged bool   `json:"flagged"`
}

// IsMine reports whether the cell holds a mine.
func (c Cell) IsMine() bool {
	return c.State == Mine
}

// Symbol renders the cell as the player sees it.
func (c Cell) Symbol() string {
	switch {
	case c.Flagged && !c.Visible:
		return "F"
	case !c.Visible:
		return "."
	case c.IsMine():
		return "*"
	case c.State == 0:
		return " "
	}
	if c.State < 10 {
		return string(rune('0' + c.State))
	}
	return string(rune('a' + c.State - 10))
}
