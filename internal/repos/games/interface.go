package games

import (
	"context"
	"database/sql"
	"errors"
)

var ErrGameNotFound = errors.New("game not found")

// Config is the per-game-type parameter tuple. Multiplier is in basis
// points (10000 = 1.0x). MinBet <= MaxBet is NOT validated on write; an
// inverted range simply makes the game unplayable at play-time.
type Config struct {
	MinBet        uint64
	MaxBet        uint64
	MultiplierBPS uint64
	IsActive      bool
	DisplayName   string
}

type Games interface {
	Get(ctx context.Context, gameType string) (Config, error)
	// LockAndGet reads the config under the current transaction.
	LockAndGet(tx *sql.Tx, gameType string) (Config, error)
	// Set replaces the tuple wholesale, creating the row if needed.
	Set(tx *sql.Tx, gameType string, cfg Config) error
}
