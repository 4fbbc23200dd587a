package i

import (
	"context"

	"github.com/google/uuid"
)

// LeaderboardEntry is a player's best winning time on a preset.
type LeaderboardEntry struct {
	PlayerID   uuid.UUID
	DurationMs int64
}

// Leaderboard keeps the fastest wins per preset.
type Leaderboard interface {
	// Record submits a winning time. Only the player's best time is kept.
	Record(ctx context.Context, preset string, playerID uuid.UUID, durationMs int64) error

	// Top returns up to n entries, fastest first.
	Top(ctx context.Context, preset string, n int64) ([]LeaderboardEntry, error)
}
