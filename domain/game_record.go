package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameRecord is the stored summary of a finished game.
type GameRecord struct {
	ID         uuid.UUID `bson:"_id" json:"id"`
	PlayerID   uuid.UUID `bson:"playerId" json:"player_id"`
	Preset     string    `bson:"preset" json:"preset"`
	Topology   string    `bson:"topology" json:"topology"`
	Kind       string    `bson:"kind" json:"kind"`
	Cells      int       `bson:"cells" json:"cells"`
	Mines      int       `bson:"mines" json:"mines"`
	Won        bool      `bson:"won" json:"won"`
	Moves      int       `bson:"moves" json:"moves"`
	StartedAt  time.Time `bson:"startedAt" json:"started_at"`
	EndedAt    time.Time `bson:"endedAt" json:"ended_at"`
	DurationMs int64     `bson:"durationMs" json:"duration_ms"`
}

// Duration is the recorded play time.
func (r *GameRecord) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}
