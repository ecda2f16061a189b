package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

type eventsRepo struct{ db *sql.DB }

func New(db *sql.DB) *eventsRepo {
	return &eventsRepo{db: db}
}

func (r *eventsRepo) Append(tx *sql.Tx, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO events (kind, payload)
		VALUES ($1, $2)
	`, kind, raw)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}
