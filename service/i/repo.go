package i

import (
	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/google/uuid"
)

// PlayerRepo defines the interface for player persistence operations.
type PlayerRepo interface {
	// Save inserts or updates a player in the repository.
	// If the player already exists, it updates the record. Otherwise, it creates a new one.
	Save(player *dmn.Player) error

	// ByID retrieves a player by their unique ID.
	// Returns an error if the player is not found or in case of an unexpected error.
	ByID(id uuid.UUID) (*dmn.Player, error)

	// ByUsername retrieves a player by their username.
	// Returns an error if the player is not found or in case of an unexpected error.
	ByUsername(username string) (*dmn.Player, error)
}

// GameRecordRepo stores finished games.
type GameRecordRepo interface {
	Save(record *dmn.GameRecord) error

	// ByPlayer returns the most recent records of a player, newest first.
	ByPlayer(playerID uuid.UUID, limit int) ([]*dmn.GameRecord, error)
}
