package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/beka-birhanu/vinom-sweeper/game"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/beka-birhanu/vinom-sweeper/game/presets"
	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/google/uuid"
)

const (
	defaultSolveTimeout = 10 * time.Second
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	defaultSessionTTL   = time.Hour

	// GameFinishedSubject is the event subject for finished games.
	GameFinishedSubject = "game.finished"
)

var (
	ErrSessionNotFound   = errors.New("game session not found")
	ErrInvalidGame       = errors.New("a game needs a preset or a topology")
	ErrSolverUnavailable = errors.New("no solver configured")
)

type sessionEntry struct {
	session  *game.Session
	topology string
	created  time.Time
}

type GameSessionManager struct {
	sessions     map[uuid.UUID]*sessionEntry
	catalog      *presets.Catalog
	solver       i.Solver
	records      i.GameRecordRepo
	players      i.PlayerRepo
	leaderboard  i.Leaderboard
	events       i.EventPublisher
	logger       i.Logger
	newRand      func() board.Rand
	now          func() time.Time
	solveTimeout time.Duration
	sessionTTL   time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	solving sync.WaitGroup
	sync.RWMutex
}

// Config wires a GameSessionManager. Solver, Records, Players, Leaderboard
// and Events are optional; the matching feature is skipped when nil.
type Config struct {
	Catalog      *presets.Catalog
	Solver       i.Solver
	Records      i.GameRecordRepo
	Players      i.PlayerRepo
	Leaderboard  i.Leaderboard
	Events       i.EventPublisher
	Logger       i.Logger
	NewRand      func() board.Rand
	Now          func() time.Time
	SolveTimeout time.Duration
	SessionTTL   time.Duration
}

func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c.Logger == nil {
		return nil, errors.New("game session manager needs a logger")
	}
	catalog := c.Catalog
	if catalog == nil {
		catalog = presets.Builtin()
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	gsm := &GameSessionManager{
		sessions:     make(map[uuid.UUID]*sessionEntry),
		catalog:      catalog,
		solver:       c.Solver,
		records:      c.Records,
		players:      c.Players,
		leaderboard:  c.Leaderboard,
		events:       c.Events,
		logger:       c.Logger,
		newRand:      c.NewRand,
		now:          now,
		solveTimeout: c.SolveTimeout,
		sessionTTL:   c.SessionTTL,
		ctx:          ctx,
		cancel:       cancel,
	}
	if gsm.solveTimeout <= 0 {
		gsm.solveTimeout = defaultSolveTimeout
	}
	if gsm.sessionTTL <= 0 {
		gsm.sessionTTL = defaultSessionTTL
	}
	return gsm, nil
}

func (g *GameSessionManager) NewSession(playerID uuid.UUID, req i.NewGameRequest) (game.Snapshot, error) {
	c := game.Config{
		PlayerID:  playerID,
		StrictWin: req.StrictWin,
		Now:       g.now,
	}
	var spec topology.Spec
	switch {
	case req.Preset != "":
		p, err := g.catalog.Get(req.Preset)
		if err != nil {
			return game.Snapshot{}, err
		}
		spec, c.Preset, c.Mines, c.MineProb = p.Topology, p.Name, p.Mines, p.MineProb
	case req.Topology != nil:
		spec, c.Mines, c.MineProb = *req.Topology, req.Mines, req.MineProb
	default:
		return game.Snapshot{}, ErrInvalidGame
	}

	t, err := topology.New(spec)
	if err != nil {
		return game.Snapshot{}, err
	}
	c.Topology = t
	if g.newRand != nil {
		c.Rand = g.newRand()
	}

	s, err := game.NewSession(c)
	if err != nil {
		return game.Snapshot{}, err
	}

	g.Lock()
	g.sessions[s.ID()] = &sessionEntry{session: s, topology: spec.String(), created: g.now()}
	g.Unlock()

	g.logger.Info(fmt.Sprintf("started game %s (%s) for player %s", s.ID(), spec, playerID))
	return s.Snapshot(), nil
}

// session finds a session owned by playerID. Sessions of other players are
// reported as missing.
func (g *GameSessionManager) session(playerID, id uuid.UUID) (*sessionEntry, error) {
	g.RLock()
	defer g.RUnlock()
	e, ok := g.sessions[id]
	if !ok || e.session.PlayerID() != playerID {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (g *GameSessionManager) Session(playerID, id uuid.UUID) (game.Snapshot, error) {
	e, err := g.session(playerID, id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return e.session.Snapshot(), nil
}

func (g *GameSessionManager) Uncover(playerID, id uuid.UUID, cell string) (game.Result, error) {
	return g.move(playerID, id, func(s *game.Session) (game.Result, error) { return s.Uncover(cell) })
}

func (g *GameSessionManager) Chord(playerID, id uuid.UUID, cell string) (game.Result, error) {
	return g.move(playerID, id, func(s *game.Session) (game.Result, error) { return s.Chord(cell) })
}

func (g *GameSessionManager) Flag(playerID, id uuid.UUID, cell string, action board.FlagAction) (game.Result, error) {
	return g.move(playerID, id, func(s *game.Session) (game.Result, error) { return s.Flag(cell, action) })
}

func (g *GameSessionManager) ApplyHints(playerID, id uuid.UUID) (game.Result, error) {
	return g.move(playerID, id, (*game.Session).ApplyHints)
}

func (g *GameSessionManager) move(playerID, id uuid.UUID, play func(*game.Session) (game.Result, error)) (game.Result, error) {
	e, err := g.session(playerID, id)
	if err != nil {
		return game.Result{}, err
	}
	res, err := play(e.session)
	if err != nil {
		return res, err
	}
	if res.Finished {
		g.finish(e, e.session.Snapshot())
	}
	return res, nil
}

func (g *GameSessionManager) RequestSolve(playerID, id uuid.UUID) (uint64, error) {
	if g.solver == nil {
		return 0, ErrSolverUnavailable
	}
	e, err := g.session(playerID, id)
	if err != nil {
		return 0, err
	}
	s := e.session
	version, cs, err := s.SolveRequest()
	if err != nil {
		return 0, err
	}

	g.solving.Add(1)
	go func() {
		defer g.solving.Done()
		ctx, cancel := context.WithTimeout(g.ctx, g.solveTimeout)
		defer cancel()

		sol, err := g.solver.Solve(ctx, cs)
		if err != nil {
			g.logger.Warning(fmt.Sprintf("solving game %s at version %d: %s", id, version, err))
		}
		if !s.ApplySolution(version, sol, err) {
			g.logger.Info(fmt.Sprintf("dropped stale solution for game %s at version %d", id, version))
		}
	}()
	return version, nil
}

func (g *GameSessionManager) Rules(playerID, id uuid.UUID, everything bool) (board.ConstraintSet, error) {
	e, err := g.session(playerID, id)
	if err != nil {
		return board.ConstraintSet{}, err
	}
	return e.session.Rules(everything), nil
}

// End removes a session. A game abandoned after the first move counts as lost.
func (g *GameSessionManager) End(playerID, id uuid.UUID) error {
	g.Lock()
	e, ok := g.sessions[id]
	if !ok || e.session.PlayerID() != playerID {
		g.Unlock()
		return ErrSessionNotFound
	}
	delete(g.sessions, id)
	g.Unlock()

	g.abandon(e)
	g.logger.Info(fmt.Sprintf("ended game %s", id))
	return nil
}

// abandon records a loss for a removed game that was started but not
// finished.
func (g *GameSessionManager) abandon(e *sessionEntry) {
	snap := e.session.Snapshot()
	if snap.Status != game.StatusPlaying || snap.Moves == 0 {
		return
	}
	snap.Status = game.StatusLost
	snap.EndedAt = g.now()
	g.finish(e, snap)
}

func (g *GameSessionManager) History(playerID uuid.UUID, limit int) ([]*dmn.GameRecord, error) {
	if g.records == nil {
		return []*dmn.GameRecord{}, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return g.records.ByPlayer(playerID, limit)
}

// finish stores the outcome of a game. Failures are logged; the game result
// itself already stands.
func (g *GameSessionManager) finish(e *sessionEntry, snap game.Snapshot) {
	won := snap.Status == game.StatusWon
	record := &dmn.GameRecord{
		ID:         snap.ID,
		PlayerID:   snap.PlayerID,
		Preset:     snap.Preset,
		Topology:   e.topology,
		Kind:       string(snap.Kind),
		Cells:      len(snap.Cells),
		Mines:      snap.Mines,
		Won:        won,
		Moves:      snap.Moves,
		StartedAt:  snap.StartedAt,
		EndedAt:    snap.EndedAt,
		DurationMs: snap.Duration().Milliseconds(),
	}
	if record.Mines == 0 {
		for _, c := range snap.Cells {
			if c.IsMine() {
				record.Mines++
			}
		}
	}
	g.logger.Info(fmt.Sprintf("game %s finished: won=%t moves=%d", snap.ID, won, snap.Moves))

	if g.records != nil {
		if err := g.records.Save(record); err != nil {
			g.logger.Error(fmt.Sprintf("saving record of game %s: %s", snap.ID, err))
		}
	}

	if g.players != nil {
		player, err := g.players.ByID(snap.PlayerID)
		if err == nil {
			player.Record(won)
			err = g.players.Save(player)
		}
		if err != nil {
			g.logger.Error(fmt.Sprintf("updating stats of player %s: %s", snap.PlayerID, err))
		}
	}

	ctx, cancel := context.WithTimeout(g.ctx, time.Second)
	defer cancel()

	if won && snap.Preset != "" && g.leaderboard != nil {
		if err := g.leaderboard.Record(ctx, snap.Preset, snap.PlayerID, record.DurationMs); err != nil {
			g.logger.Error(fmt.Sprintf("recording leaderboard time of game %s: %s", snap.ID, err))
		}
	}

	if g.events != nil {
		err := g.events.Publish(ctx, GameFinishedSubject, map[string]interface{}{
			"game_id":     snap.ID.String(),
			"player_id":   snap.PlayerID.String(),
			"preset":      snap.Preset,
			"kind":        string(snap.Kind),
			"won":         won,
			"moves":       snap.Moves,
			"duration_ms": record.DurationMs,
		})
		if err != nil {
			g.logger.Error(fmt.Sprintf("publishing end of game %s: %s", snap.ID, err))
		}
	}
}

// Run evicts finished and idle sessions until ctx is done.
func (g *GameSessionManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.sessionTTL / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			g.prune()
		}
	}
}

// prune evicts sessions without a move for longer than the session TTL.
// Started games that were left unfinished are recorded as lost.
func (g *GameSessionManager) prune() {
	cutoff := g.now().Add(-g.sessionTTL)

	var evicted []*sessionEntry
	g.Lock()
	for id, e := range g.sessions {
		if lastActivity(e).Before(cutoff) {
			delete(g.sessions, id)
			evicted = append(evicted, e)
		}
	}
	g.Unlock()

	for _, e := range evicted {
		g.abandon(e)
		g.logger.Info(fmt.Sprintf("evicted idle game %s", e.session.ID()))
	}
}

func lastActivity(e *sessionEntry) time.Time {
	snap := e.session.Snapshot()
	last := e.created
	for _, t := range []time.Time{snap.LastMoveAt, snap.EndedAt} {
		if t.After(last) {
			last = t
		}
	}
	return last
}

// StopAll cancels pending solver calls and waits for them to return.
func (g *GameSessionManager) StopAll() {
	g.cancel()
	g.solving.Wait()
}
