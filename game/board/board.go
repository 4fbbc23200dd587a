// Package board implements the minesweeper engine on top of any topology:
// mine placement, reveal cascades, flags and constraint extraction.
package board

import (
	"errors"

	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// Board related errors.
var (
	ErrNoSafeCell         = errors.New("board has no safe cell")
	ErrInvalidPosition    = errors.New("position is not on the board")
	ErrInvalidProbability = errors.New("mine probability must be in [0, 1]")
)

// Outcome is the result of uncovering cells.
type Outcome int

const (
	NoEffect Outcome = iota
	Survived
	Died
)

func (o Outcome) String() string {
	switch o {
	case Survived:
		return "survived"
	case Died:
		return "died"
	}
	return "no effect"
}

// FlagAction selects how Flag changes a cell.
type FlagAction int

const (
	FlagToggle FlagAction = iota
	FlagSet
	FlagClear
)

// Rand is the randomness a board draws on for mine placement.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type cryptoRand struct{}

func (cryptoRand) Intn(n int) int   { return frand.Intn(n) }
func (cryptoRand) Float64() float64 { return frand.Float64() }

// Option configures a Board.
type Option func(*Board)

// WithRand replaces the default crypto RNG, mostly for reproducible tests.
func WithRand(r Rand) Option {
	return func(b *Board) {
		b.rng = r
	}
}

// Board owns one cell per topology index. A board is not safe for
// concurrent use; its session serializes access.
type Board struct {
	topology  topology.Topology
	cells     []Cell
	positions []topology.Position
	neighbors [][]int
	names     map[string]int
	rng       Rand

	mines       int
	mineProb    float64
	probability bool
}

// New creates an empty board, all cells hidden and safe.
func New(t topology.Topology, opts ...Option) *Board {
	n := t.NumCells()
	b := &Board{
		topology:  t,
		cells:     make([]Cell, n),
		positions: make([]topology.Position, n),
		neighbors: make([][]int, n),
		names:     make(map[string]int, n),
		rng:       cryptoRand{},
	}
	for _, opt := range opts {
		opt(b)
	}

	t.ForEach(func(p topology.Position) {
		i := t.CellIndex(p)
		name := t.CellName(p)
		b.cells[i] = Cell{Name: name}
		b.positions[i] = p
		b.names[name] = i
		// Wrapping shapes may list a neighbor twice; counts need each once.
		b.neighbors[i] = lo.Uniq(lo.Map(t.Adjacent(p), func(q topology.Position, _ int) int {
			return t.CellIndex(q)
		}))
	})
	return b
}

func (b *Board) Topology() topology.Topology {
	return b.topology
}

func (b *Board) NumCells() int {
	return len(b.cells)
}

// PlaceMines puts exactly n mines on the board, clamped to the cell count,
// and returns how many were placed.
func (b *Board) PlaceMines(n int) int {
	n = max(0, min(n, len(b.cells)))

	mined := make([]bool, len(b.cells))
	for i := 0; i < n; i++ {
		mined[i] = true
	}
	for i := len(mined) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		mined[i], mined[j] = mined[j], mined[i]
	}

	b.probability = false
	b.applyMines(mined)
	return n
}

// PlaceMinesWithProbability mines every cell independently with probability p.
func (b *Board) PlaceMinesWithProbability(p float64) error {
	if p < 0 || p > 1 {
		return ErrInvalidProbability
	}

	mined := make([]bool, len(b.cells))
	for i := range mined {
		mined[i] = b.rng.Float64() < p
	}

	b.probability = true
	b.mineProb = p
	b.applyMines(mined)
	return nil
}

// SetMines places mines exactly at the given positions.
func (b *Board) SetMines(ps ...topology.Position) error {
	mined := make([]bool, len(b.cells))
	for _, p := range ps {
		i, ok := b.index(p)
		if !ok {
			return ErrInvalidPosition
		}
		mined[i] = true
	}

	b.probability = false
	b.applyMines(mined)
	return nil
}

func (b *Board) applyMines(mined []bool) {
	b.mines = 0
	for i, m := range mined {
		b.cells[i].State = 0
		if m {
			b.cells[i].State = Mine
			b.mines++
		}
	}
	for i := range b.cells {
		b.recount(i)
	}
}

// recount refreshes the adjacent mine count of a safe cell.
func (b *Board) recount(i int) {
	if b.cells[i].IsMine() {
		return
	}
	b.cells[i].State = lo.CountBy(b.neighbors[i], func(k int) bool {
		return b.cells[k].IsMine()
	})
}

// EnsureSafety moves a mine away from p, to a uniformly chosen safe cell,
// so a first click never loses.
func (b *Board) EnsureSafety(p topology.Position) error {
	i, ok := b.index(p)
	if !ok {
		return ErrInvalidPosition
	}
	if !b.cells[i].IsMine() {
		return nil
	}

	safe := make([]int, 0, len(b.cells)-b.mines)
	for k, c := range b.cells {
		if k != i && !c.IsMine() {
			safe = append(safe, k)
		}
	}
	if len(safe) == 0 {
		return ErrNoSafeCell
	}

	j := safe[b.rng.Intn(len(safe))]
	b.cells[j].State = Mine
	b.cells[i].State = 0
	for _, k := range []int{i, j} {
		b.recount(k)
		for _, n := range b.neighbors[k] {
			b.recount(n)
		}
	}
	return nil
}

// Uncover reveals the cell at p and cascades through zero cells. Flagged
// cells are left alone unless force is set, which trusts automatic play to
// clear wrong flags.
func (b *Board) Uncover(p topology.Position, force bool) Outcome {
	i, ok := b.index(p)
	if !ok {
		return NoEffect
	}
	c := &b.cells[i]
	if c.Visible || (c.Flagged && !force) {
		return NoEffect
	}

	c.Visible, c.Flagged = true, false
	if c.IsMine() {
		return Died
	}

	// Cells are marked visible when pushed, so each is expanded once.
	stack := []int{i}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.cells[k].State != 0 {
			continue
		}
		for _, n := range b.neighbors[k] {
			nc := &b.cells[n]
			if nc.Visible || (nc.Flagged && !force) {
				continue
			}
			nc.Visible, nc.Flagged = true, false
			stack = append(stack, n)
		}
	}
	return Survived
}

// UncoverNeighbors reveals every unflagged neighbor of a visible number once
// the number of flags around it matches.
func (b *Board) UncoverNeighbors(p topology.Position) Outcome {
	i, ok := b.index(p)
	if !ok {
		return NoEffect
	}
	c := b.cells[i]
	if !c.Visible || c.IsMine() {
		return NoEffect
	}

	flags := lo.CountBy(b.neighbors[i], func(k int) bool {
		return b.cells[k].Flagged
	})
	if flags != c.State {
		return NoEffect
	}

	result := NoEffect
	for _, k := range b.neighbors[i] {
		switch b.Uncover(b.positions[k], false) {
		case Died:
			result = Died
		case Survived:
			if result == NoEffect {
				result = Survived
			}
		}
	}
	return result
}

// Flag changes the flag on a hidden cell and reports whether it changed.
func (b *Board) Flag(p topology.Position, action FlagAction) bool {
	i, ok := b.index(p)
	if !ok || b.cells[i].Visible {
		return false
	}

	c := &b.cells[i]
	before := c.Flagged
	switch action {
	case FlagToggle:
		c.Flagged = !c.Flagged
	case FlagSet:
		c.Flagged = true
	case FlagClear:
		c.Flagged = false
	}
	return c.Flagged != before
}

// Complete reports whether every safe cell is visible. Strict mode also
// requires every mine to be flagged.
func (b *Board) Complete(strict bool) bool {
	for _, c := range b.cells {
		if c.IsMine() {
			if strict && !c.Flagged {
				return false
			}
			continue
		}
		if !c.Visible {
			return false
		}
	}
	return true
}

// RevealMines shows every mine, for the end of a game.
func (b *Board) RevealMines() {
	for i := range b.cells {
		if b.cells[i].IsMine() {
			b.cells[i].Visible = true
		}
	}
}

func (b *Board) index(p topology.Position) (int, bool) {
	if !b.topology.Contains(p) {
		return 0, false
	}
	return b.topology.CellIndex(p), true
}

// Cell returns a copy of the cell at p.
func (b *Board) Cell(p topology.Position) (Cell, bool) {
	i, ok := b.index(p)
	if !ok {
		return Cell{}, false
	}
	return b.cells[i], true
}

// Cells returns a copy of every cell in index order.
func (b *Board) Cells() []Cell {
	return append([]Cell(nil), b.cells...)
}

// Find looks a cell up by name.
func (b *Board) Find(name string) (topology.Position, bool) {
	i, ok := b.names[name]
	if !ok {
		return topology.Position{}, false
	}
	return b.positions[i], true
}

// Neighbors returns the distinct neighbors of p.
func (b *Board) Neighbors(p topology.Position) []topology.Position {
	i, ok := b.index(p)
	if !ok {
		return nil
	}
	return lo.Map(b.neighbors[i], func(k int, _ int) topology.Position {
		return b.positions[k]
	})
}

// MineCount is the number of mines on the board.
func (b *Board) MineCount() int {
	return b.mines
}

// MineProbability returns the placement probability when mines were placed
// per cell.
func (b *Board) MineProbability() (float64, bool) {
	return b.mineProb, b.probability
}

func (b *Board) FlagCount() int {
	return lo.CountBy(b.cells, func(c Cell) bool {
		return c.Flagged
	})
}

// HiddenCount is the number of cells not yet visible.
func (b *Board) HiddenCount() int {
	return lo.CountBy(b.cells, func(c Cell) bool {
		return !c.Visible
	})
}
