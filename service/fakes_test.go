package service

import (
	"context"
	"errors"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/google/uuid"
)

type memLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *memLogger) Info(msg string)    { l.log(msg) }
func (l *memLogger) Warning(msg string) { l.log(msg) }
func (l *memLogger) Error(msg string)   { l.log(msg) }

type memPlayers struct {
	mu      sync.Mutex
	players map[uuid.UUID]dmn.Player
}

func newMemPlayers() *memPlayers {
	return &memPlayers{players: make(map[uuid.UUID]dmn.Player)}
}

func (r *memPlayers) Save(p *dmn.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.ID] = *p
	return nil
}

func (r *memPlayers) ByID(id uuid.UUID) (*dmn.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, errors.New("player not found")
	}
	return &p, nil
}

func (r *memPlayers) ByUsername(username string) (*dmn.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, errors.New("player not found")
}

type memRecords struct {
	mu      sync.Mutex
	records []*dmn.GameRecord
}

func (r *memRecords) Save(rec *dmn.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *memRecords) ByPlayer(playerID uuid.UUID, limit int) ([]*dmn.GameRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dmn.GameRecord
	for j := len(r.records) - 1; j >= 0 && len(out) < limit; j-- {
		if r.records[j].PlayerID == playerID {
			out = append(out, r.records[j])
		}
	}
	return out, nil
}

type memLeaderboard struct {
	mu      sync.Mutex
	entries map[string][]i.LeaderboardEntry
}

func (l *memLeaderboard) Record(_ context.Context, preset string, playerID uuid.UUID, ms int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.entries == nil {
		l.entries = make(map[string][]i.LeaderboardEntry)
	}
	l.entries[preset] = append(l.entries[preset], i.LeaderboardEntry{PlayerID: playerID, DurationMs: ms})
	return nil
}

func (l *memLeaderboard) Top(_ context.Context, preset string, n int64) ([]i.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[preset], nil
}

type memEvents struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (e *memEvents) Publish(_ context.Context, subject string, payload map[string]interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	payload["subject"] = subject
	e.events = append(e.events, payload)
	return nil
}

func (e *memEvents) Close() {}

// gatedSolver answers once release is closed.
type gatedSolver struct {
	started chan struct{}
	release chan struct{}
	answer  *board.Solution
	err     error
}

func newGatedSolver(answer *board.Solution, err error) *gatedSolver {
	return &gatedSolver{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		answer:  answer,
		err:     err,
	}
}

func (s *gatedSolver) Solve(ctx context.Context, _ board.ConstraintSet) (*board.Solution, error) {
	s.started <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.answer, s.err
}

type stubTokenizer struct{}

func (stubTokenizer) Generate(claims map[string]interface{}, _ time.Duration) (string, error) {
	return "token-" + claims["username"].(string), nil
}

func (stubTokenizer) Decode(token string) (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
