package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/stakehouse/internal/repos/games"
)

type gamesRepo struct{ db *sql.DB }

func New(db *sql.DB) *gamesRepo {
	return &gamesRepo{db: db}
}

const selectCols = `min_bet, max_bet, multiplier_bps, is_active, display_name`

func scanConfig(row *sql.Row) (games.Config, error) {
	var (
		cfg                     games.Config
		minBet, maxBet, multBPS int64
	)

	err := row.Scan(&minBet, &maxBet, &multBPS, &cfg.IsActive, &cfg.DisplayName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return games.Config{}, games.ErrGameNotFound
		}

		return games.Config{}, fmt.Errorf("scan config: %w", err)
	}

	cfg.MinBet = uint64(minBet)
	cfg.MaxBet = uint64(maxBet)
	cfg.MultiplierBPS = uint64(multBPS)

	return cfg, nil
}

func (r *gamesRepo) Get(ctx context.Context, gameType string) (games.Config, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+selectCols+`
		FROM game_configs
		WHERE game_type = $1
	`, gameType)

	return scanConfig(row)
}

func (r *gamesRepo) LockAndGet(tx *sql.Tx, gameType string) (games.Config, error) {
	row := tx.QueryRow(`
		SELECT `+selectCols+`
		FROM game_configs
		WHERE game_type = $1
		FOR UPDATE
	`, gameType)

	return scanConfig(row)
}

func (r *gamesRepo) Set(tx *sql.Tx, gameType string, cfg games.Config) error {
	_, err := tx.Exec(`
		INSERT INTO game_configs (game_type, min_bet, max_bet, multiplier_bps, is_active, display_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_type) DO UPDATE SET
			min_bet        = EXCLUDED.min_bet,
			max_bet        = EXCLUDED.max_bet,
			multiplier_bps = EXCLUDED.multiplier_bps,
			is_active      = EXCLUDED.is_active,
			display_name   = EXCLUDED.display_name
	`, gameType, int64(cfg.MinBet), int64(cfg.MaxBet), int64(cfg.MultiplierBPS), cfg.IsActive, cfg.DisplayName)
	if err != nil {
		return fmt.Errorf("set game config: %w", err)
	}

	return nil
}
