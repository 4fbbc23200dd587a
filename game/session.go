// Package game runs single player minesweeper sessions.
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/google/uuid"
)

// Session related errors.
var (
	ErrGameOver      = errors.New("game is over")
	ErrUnknownCell   = errors.New("unknown cell")
	ErrNoSolution    = errors.New("no solution available")
	ErrInvalidMining = errors.New("set exactly one of mines, mine probability and mine layout")
)

// Status is the lifecycle of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// SolutionState tells whether the solver answer matches the current board.
type SolutionState string

const (
	SolutionIdle        SolutionState = "idle"
	SolutionComputing   SolutionState = "computing"
	SolutionReady       SolutionState = "ready"
	SolutionUnavailable SolutionState = "unavailable"
)

// Config describes a new session.
type Config struct {
	ID       uuid.UUID
	PlayerID uuid.UUID
	Preset   string
	Topology topology.Topology
	Mines    int
	MineProb float64
	Layout   []topology.Position
	Rand     board.Rand

	// StrictWin requires every mine flagged before the game is won.
	StrictWin bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Result reports what a move did.
type Result struct {
	Outcome board.Outcome
	Status  Status
	Version uint64

	// Finished is set on the move that ended the game.
	Finished bool
}

// Session owns one board. The version is bumped by every move that changes
// the board; solver answers computed for an older version are dropped.
type Session struct {
	id        uuid.UUID
	playerID  uuid.UUID
	preset    string
	board     *board.Board
	strictWin bool
	now       func() time.Time

	version   uint64
	moves     int
	status    Status
	opened    bool
	started   bool
	startedAt time.Time
	endedAt   time.Time
	lastMove  time.Time

	solutionState SolutionState
	solution      *board.Solution
	knownMines    map[string]bool

	sync.RWMutex
}

// NewSession creates a session and mines its board.
func NewSession(c Config) (*Session, error) {
	modes := 0
	for _, set := range []bool{c.Mines > 0, c.MineProb > 0, len(c.Layout) > 0} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return nil, ErrInvalidMining
	}

	var opts []board.Option
	if c.Rand != nil {
		opts = append(opts, board.WithRand(c.Rand))
	}
	b := board.New(c.Topology, opts...)
	switch {
	case c.MineProb > 0:
		if err := b.PlaceMinesWithProbability(c.MineProb); err != nil {
			return nil, err
		}
	case len(c.Layout) > 0:
		if err := b.SetMines(c.Layout...); err != nil {
			return nil, err
		}
	default:
		b.PlaceMines(c.Mines)
	}

	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		id:            id,
		playerID:      c.PlayerID,
		preset:        c.Preset,
		board:         b,
		strictWin:     c.StrictWin,
		now:           now,
		status:        StatusPlaying,
		solutionState: SolutionIdle,
		knownMines:    make(map[string]bool),
	}, nil
}

func (s *Session) ID() uuid.UUID       { return s.id }
func (s *Session) PlayerID() uuid.UUID { return s.playerID }
func (s *Session) Preset() string      { return s.preset }

// Version returns the current board sequence number.
func (s *Session) Version() uint64 {
	s.RLock()
	defer s.RUnlock()
	return s.version
}

func (s *Session) locate(name string) (topology.Position, error) {
	if s.status != StatusPlaying {
		return topology.Position{}, ErrGameOver
	}
	p, ok := s.board.Find(name)
	if !ok {
		return topology.Position{}, ErrUnknownCell
	}
	return p, nil
}

// Uncover reveals a cell. The first reveal of a session never hits a mine.
func (s *Session) Uncover(name string) (Result, error) {
	s.Lock()
	defer s.Unlock()

	p, err := s.locate(name)
	if err != nil {
		return Result{}, err
	}
	if !s.opened {
		if err := s.board.EnsureSafety(p); err != nil && !errors.Is(err, board.ErrNoSafeCell) {
			return Result{}, err
		}
	}
	outcome := s.board.Uncover(p, false)
	if outcome != board.NoEffect {
		s.opened = true
	}
	return s.afterMove(outcome), nil
}

// Chord reveals the neighbors of a satisfied number.
func (s *Session) Chord(name string) (Result, error) {
	s.Lock()
	defer s.Unlock()

	p, err := s.locate(name)
	if err != nil {
		return Result{}, err
	}
	return s.afterMove(s.board.UncoverNeighbors(p)), nil
}

// Flag changes a flag.
func (s *Session) Flag(name string, action board.FlagAction) (Result, error) {
	s.Lock()
	defer s.Unlock()

	p, err := s.locate(name)
	if err != nil {
		return Result{}, err
	}
	outcome := board.NoEffect
	if s.board.Flag(p, action) {
		outcome = board.Survived
	}
	return s.afterMove(outcome), nil
}

// ApplyHints plays the current solution: proven mines are flagged and
// proven safe cells are opened, overriding the player's flags.
func (s *Session) ApplyHints() (Result, error) {
	s.Lock()
	defer s.Unlock()

	if s.status != StatusPlaying {
		return Result{}, ErrGameOver
	}
	if s.solutionState != SolutionReady {
		return Result{}, ErrNoSolution
	}

	outcome := board.NoEffect
	for _, name := range s.solution.CertainMines() {
		if p, ok := s.board.Find(name); ok && s.board.Flag(p, board.FlagSet) {
			outcome = board.Survived
		}
	}
	for _, name := range s.solution.CertainSafe() {
		p, ok := s.board.Find(name)
		if !ok {
			continue
		}
		switch s.board.Uncover(p, true) {
		case board.Died:
			outcome = board.Died
		case board.Survived:
			if outcome == board.NoEffect {
				outcome = board.Survived
			}
		}
	}
	return s.afterMove(outcome), nil
}

// afterMove bumps the version for effective moves and settles the status.
func (s *Session) afterMove(outcome board.Outcome) Result {
	if outcome != board.NoEffect {
		if !s.started {
			s.started = true
			s.startedAt = s.now()
		}
		s.lastMove = s.now()
		s.version++
		s.moves++
		s.solutionState = SolutionIdle
		s.solution = nil
	}

	finished := false
	switch {
	case outcome == board.Died:
		s.status = StatusLost
		finished = true
	case outcome != board.NoEffect && s.board.Complete(s.strictWin):
		s.status = StatusWon
		finished = true
	}
	if finished {
		s.endedAt = s.now()
		s.board.RevealMines()
	}

	return Result{Outcome: outcome, Status: s.status, Version: s.version, Finished: finished}
}

// SolveRequest snapshots the board for the solver and tags it with the
// current version.
func (s *Session) SolveRequest() (uint64, board.ConstraintSet, error) {
	s.Lock()
	defer s.Unlock()

	if s.status != StatusPlaying {
		return 0, board.ConstraintSet{}, ErrGameOver
	}
	s.solutionState = SolutionComputing
	return s.version, s.board.GameState(board.ExtractOptions{KnownMines: s.knownMines}), nil
}

// ApplySolution stores a solver answer computed for version. It reports
// false and changes nothing when the board moved on in the meantime.
func (s *Session) ApplySolution(version uint64, sol *board.Solution, err error) bool {
	s.Lock()
	defer s.Unlock()

	if version != s.version || s.status != StatusPlaying {
		return false
	}
	if err != nil || sol == nil || sol.Error != "" {
		s.solutionState = SolutionUnavailable
		s.solution = nil
		return true
	}

	s.solutionState = SolutionReady
	s.solution = sol
	for _, name := range sol.CertainMines() {
		s.knownMines[name] = true
	}
	return true
}

// Rules returns the constraint set the solver would receive.
func (s *Session) Rules(everything bool) board.ConstraintSet {
	s.RLock()
	defer s.RUnlock()
	return s.board.GameState(board.ExtractOptions{Everything: everything, KnownMines: s.knownMines})
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID            uuid.UUID
	PlayerID      uuid.UUID
	Preset        string
	Kind          topology.Kind
	Status        Status
	Version       uint64
	Moves         int
	Cells         []board.Cell
	Mines         int
	MineProb      float64
	Flags         int
	StartedAt     time.Time
	EndedAt       time.Time
	LastMoveAt    time.Time
	Solution      SolutionState
	Probabilities map[string]float64
	Board         string
}

// Duration is the play time of a finished game.
func (s Snapshot) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

func (s *Session) Snapshot() Snapshot {
	s.RLock()
	defer s.RUnlock()

	prob, byProbability := s.board.MineProbability()
	snap := Snapshot{
		ID:         s.id,
		PlayerID:   s.playerID,
		Preset:     s.preset,
		Kind:       s.board.Topology().Kind(),
		Status:     s.status,
		Version:    s.version,
		Moves:      s.moves,
		Cells:      s.board.Cells(),
		MineProb:   prob,
		Flags:      s.board.FlagCount(),
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
		LastMoveAt: s.lastMove,
		Solution:   s.solutionState,
		Board:      s.board.String(),
	}
	if !byProbability {
		snap.Mines = s.board.MineCount()
	}
	if s.solution != nil {
		snap.Probabilities = make(map[string]float64, len(s.solution.Probabilities))
		for k, v := range s.solution.Probabilities {
			snap.Probabilities[k] = v
		}
	}
	return snap
}
