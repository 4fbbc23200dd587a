package i

import (
	"github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/beka-birhanu/vinom-sweeper/game"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/google/uuid"
)

// NewGameRequest describes a game either by preset name or by an explicit
// topology with exactly one of Mines and MineProb.
type NewGameRequest struct {
	Preset    string
	Topology  *topology.Spec
	Mines     int
	MineProb  float64
	StrictWin bool
}

// GameSessionManager owns the running games of all players.
type GameSessionManager interface {
	NewSession(playerID uuid.UUID, req NewGameRequest) (game.Snapshot, error)
	Session(playerID, id uuid.UUID) (game.Snapshot, error)

	Uncover(playerID, id uuid.UUID, cell string) (game.Result, error)
	Chord(playerID, id uuid.UUID, cell string) (game.Result, error)
	Flag(playerID, id uuid.UUID, cell string, action board.FlagAction) (game.Result, error)

	// RequestSolve starts an asynchronous solver run and returns the board
	// version it was computed for.
	RequestSolve(playerID, id uuid.UUID) (uint64, error)
	ApplyHints(playerID, id uuid.UUID) (game.Result, error)
	Rules(playerID, id uuid.UUID, everything bool) (board.ConstraintSet, error)

	End(playerID, id uuid.UUID) error
	History(playerID uuid.UUID, limit int) ([]*domain.GameRecord, error)
}
