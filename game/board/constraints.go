package board

// OtherKey is the solution entry covering hidden cells that no rule names.
const OtherKey = "_other"

// certainty is how close to 0 or 1 a probability must be to count as decided.
const certainty = 1e-9

// Rule states that exactly NumMines of Cells are mines.
type Rule struct {
	NumMines int      `json:"num_mines"`
	Cells    []string `json:"cells"`
}

// ConstraintSet is the request body understood by the solver.
type ConstraintSet struct {
	Rules      []Rule   `json:"rules"`
	TotalCells int      `json:"total_cells"`
	TotalMines *int     `json:"total_mines,omitempty"`
	MineProb   *float64 `json:"mine_prob,omitempty"`
}

// Solution is the solver response. Error is set instead of Probabilities
// when the constraints are inconsistent.
type Solution struct {
	Probabilities  map[string]float64 `json:"solution,omitempty"`
	ProcessingTime float64            `json:"processing_time,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// Probability returns the mine probability of a hidden cell, falling back to
// the shared probability of unnamed cells.
func (s *Solution) Probability(name string) (float64, bool) {
	if p, ok := s.Probabilities[name]; ok {
		return p, true
	}
	p, ok := s.Probabilities[OtherKey]
	return p, ok
}

// CertainMines returns the cells the solver proved to be mines.
func (s *Solution) CertainMines() []string {
	var out []string
	for name, p := range s.Probabilities {
		if name != OtherKey && p >= 1-certainty {
			out = append(out, name)
		}
	}
	return out
}

// CertainSafe returns the named cells the solver proved to be safe.
func (s *Solution) CertainSafe() []string {
	var out []string
	for name, p := range s.Probabilities {
		if name != OtherKey && p <= certainty {
			out = append(out, name)
		}
	}
	return out
}

// ExtractOptions tunes GameState.
type ExtractOptions struct {
	// Everything describes the whole board instead of the frontier only.
	Everything bool

	// IgnoreFlags stops flags from counting as known mines.
	IgnoreFlags bool

	// KnownMines names cells deduced to be mines by an earlier solution.
	KnownMines map[string]bool
}

// GameState describes what the player can see as a constraint set.
//
// Each visible number with a hidden or known mine neighbor yields a rule
// over those neighbors, so a number surrounded only by flags still checks
// them. Known mines touching such a rule
// get a singleton rule; the rest are dropped and taken out of the totals so
// the solver only works on the frontier.
func (b *Board) GameState(opts ExtractOptions) ConstraintSet {
	known := func(i int) bool {
		c := b.cells[i]
		if c.Visible {
			return c.IsMine()
		}
		return (c.Flagged && !opts.IgnoreFlags) || opts.KnownMines[c.Name]
	}

	var (
		rules    = []Rule{}
		clear    []string
		relevant = make(map[int]bool)
		zeroAdj  = make(map[int]bool)
		numKnown int
	)

	for i, c := range b.cells {
		if known(i) {
			numKnown++
			if opts.Everything {
				relevant[i] = true
			}
			continue
		}
		if !c.Visible {
			continue
		}

		clear = append(clear, c.Name)
		if c.State == 0 {
			for _, k := range b.neighbors[i] {
				zeroAdj[k] = true
			}
			continue
		}

		var (
			cells []string
			mines []int
		)
		for _, k := range b.neighbors[i] {
			switch {
			case known(k):
				cells = append(cells, b.cells[k].Name)
				mines = append(mines, k)
			case !b.cells[k].Visible:
				cells = append(cells, b.cells[k].Name)
			}
		}
		if len(cells) == 0 {
			continue
		}

		rules = append(rules, Rule{NumMines: c.State, Cells: cells})
		for _, k := range mines {
			relevant[k] = true
		}
	}

	for i := range b.cells {
		if relevant[i] {
			rules = append(rules, Rule{NumMines: 1, Cells: []string{b.cells[i].Name}})
		}
	}

	irrelevant := numKnown - len(relevant)
	totalCells := len(b.cells) - len(clear) - irrelevant
	totalMines := b.mines - irrelevant

	if opts.Everything {
		if len(clear) > 0 {
			rules = append(rules, Rule{NumMines: 0, Cells: clear})
		}
		var around []string
		for i := range b.cells {
			if zeroAdj[i] {
				around = append(around, b.cells[i].Name)
			}
		}
		if len(around) > 0 {
			rules = append(rules, Rule{NumMines: 0, Cells: around})
		}
		totalCells, totalMines = len(b.cells), b.mines
	}

	cs := ConstraintSet{Rules: rules, TotalCells: totalCells}
	if b.probability {
		p := b.mineProb
		cs.MineProb = &p
	} else {
		cs.TotalMines = &totalMines
	}
	return cs
}
