// Package gameapi exposes game sessions over HTTP.
package gameapi

import (
	"time"

	"github.com/beka-birhanu/vinom-sweeper/game"
	"github.com/beka-birhanu/vinom-sweeper/game/topology"
)

// NewGameRequest starts a game from a preset or from an explicit topology.
type NewGameRequest struct {
	Preset    string         `json:"preset"`
	Topology  *topology.Spec `json:"topology"`
	Mines     int            `json:"mines" binding:"gte=0"`
	MineProb  float64        `json:"mine_prob" binding:"gte=0,lte=1"`
	StrictWin bool           `json:"strict_win"`
}

// CellRequest names the cell a move applies to.
type CellRequest struct {
	Cell string `json:"cell" binding:"required"`
}

// FlagRequest changes a flag. Action is toggle (default), set or clear.
type FlagRequest struct {
	Cell   string `json:"cell" binding:"required"`
	Action string `json:"action" binding:"omitempty,oneof=toggle set clear"`
}

// CellResponse is a cell as the player sees it. State is only present for
// visible cells.
type CellResponse struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Flagged bool   `json:"flagged,omitempty"`
	State   *int   `json:"state,omitempty"`
}

// GameResponse describes a game session.
type GameResponse struct {
	ID         string         `json:"id"`
	Preset     string         `json:"preset,omitempty"`
	Kind       topology.Kind  `json:"kind"`
	Status     game.Status    `json:"status"`
	Version    uint64         `json:"version"`
	Moves      int            `json:"moves"`
	Mines      int            `json:"mines,omitempty"`
	MineProb   float64        `json:"mine_prob,omitempty"`
	Flags      int            `json:"flags"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	EndedAt    *time.Time     `json:"ended_at,omitempty"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	Solution   string         `json:"solution"`
	Board      string         `json:"board"`
	Cells      []CellResponse `json:"cells"`
}

// MoveResponse reports the effect of a move.
type MoveResponse struct {
	Outcome  string      `json:"outcome"`
	Status   game.Status `json:"status"`
	Version  uint64      `json:"version"`
	Finished bool        `json:"finished"`
}

// SolveResponse acknowledges a solve request.
type SolveResponse struct {
	Version uint64 `json:"version"`
}

// SolutionResponse carries the latest solver answer, if any.
type SolutionResponse struct {
	State         string             `json:"state"`
	Version       uint64             `json:"version"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

func newGameResponse(s game.Snapshot) *GameResponse {
	r := &GameResponse{
		ID:         s.ID.String(),
		Preset:     s.Preset,
		Kind:       s.Kind,
		Status:     s.Status,
		Version:    s.Version,
		Moves:      s.Moves,
		Mines:      s.Mines,
		MineProb:   s.MineProb,
		Flags:      s.Flags,
		DurationMs: s.Duration().Milliseconds(),
		Solution:   string(s.Solution),
		Board:      s.Board,
		Cells:      make([]CellResponse, len(s.Cells)),
	}
	if !s.StartedAt.IsZero() {
		r.StartedAt = &s.StartedAt
	}
	if !s.EndedAt.IsZero() {
		r.EndedAt = &s.EndedAt
	}
	for j, c := range s.Cells {
		r.Cells[j] = CellResponse{Name: c.Name, Visible: c.Visible, Flagged: c.Flagged}
		if c.Visible {
			state := c.State
			r.Cells[j].State = &state
		}
	}
	return r
}

func newMoveResponse(r game.Result) *MoveResponse {
	return &MoveResponse{
		Outcome:  r.Outcome.String(),
		Status:   r.Status,
		Version:  r.Version,
		Finished: r.Finished,
	}
}
