package i

import (
	"context"

	"github.com/beka-birhanu/vinom-sweeper/game/board"
)

// Solver computes mine probabilities for a constraint set.
type Solver interface {
	Solve(ctx context.Context, cs board.ConstraintSet) (*board.Solution, error)
}
