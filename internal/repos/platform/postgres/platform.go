package platform

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/stakehouse/internal/repos/platform"
)

type platformRepo struct{ db *sql.DB }

func New(db *sql.DB) *platformRepo {
	return &platformRepo{db: db}
}

const selectCols = `
	games_played, volume_wagered, total_payouts,
	fees_accrued, fees_collected, native_reserve, pegged_custody`

func scanSnapshot(scan func(...any) error) (platform.Snapshot, error) {
	var raw [7]int64

	err := scan(&raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5], &raw[6])
	if err != nil {
		return platform.Snapshot{}, fmt.Errorf("scan platform row: %w", err)
	}

	return platform.Snapshot{
		GamesPlayed:   uint64(raw[0]),
		VolumeWagered: uint64(raw[1]),
		TotalPayouts:  uint64(raw[2]),
		FeesAccrued:   uint64(raw[3]),
		FeesCollected: uint64(raw[4]),
		NativeReserve: uint64(raw[5]),
		PeggedCustody: uint64(raw[6]),
	}, nil
}

func (r *platformRepo) Get(ctx context.Context) (platform.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectCols+` FROM platform WHERE id = 1`)

	return scanSnapshot(row.Scan)
}

func (r *platformRepo) LockAndGet(tx *sql.Tx) (platform.Snapshot, error) {
	row := tx.QueryRow(`SELECT ` + selectCols + ` FROM platform WHERE id = 1 FOR UPDATE`)

	return scanSnapshot(row.Scan)
}

func (r *platformRepo) AddReserve(tx *sql.Tx, amount uint64) error {
	_, err := tx.Exec(`
		UPDATE platform
		SET native_reserve = native_reserve + $1
		WHERE id = 1
	`, int64(amount))
	if err != nil {
		return fmt.Errorf("add reserve: %w", err)
	}

	return nil
}

func (r *platformRepo) SubReserve(tx *sql.Tx, amount uint64) error {
	res, err := tx.Exec(`
		UPDATE platform
		SET native_reserve = native_reserve - $1
		WHERE id = 1
		  AND native_reserve >= $1
	`, int64(amount))
	if err != nil {
		return fmt.Errorf("sub reserve: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return platform.ErrReserveShortfall
	}

	return nil
}

func (r *platformRepo) AddCustody(tx *sql.Tx, amount uint64) error {
	_, err := tx.Exec(`
		UPDATE platform
		SET pegged_custody = pegged_custody + $1
		WHERE id = 1
	`, int64(amount))
	if err != nil {
		return fmt.Errorf("add custody: %w", err)
	}

	return nil
}

func (r *platformRepo) SubCustody(tx *sql.Tx, amount uint64) error {
	res, err := tx.Exec(`
		UPDATE platform
		SET pegged_custody = pegged_custody - $1
		WHERE id = 1
		  AND pegged_custody >= $1
	`, int64(amount))
	if err != nil {
		return fmt.Errorf("sub custody: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return platform.ErrCustodyShortfall
	}

	return nil
}

func (r *platformRepo) RecordSettlement(tx *sql.Tx, bet, fee, payout uint64) error {
	_, err := tx.Exec(`
		UPDATE platform
		SET games_played   = games_played + 1,
		    volume_wagered = volume_wagered + $1,
		    fees_accrued   = fees_accrued + $2,
		    total_payouts  = total_payouts + $3
		WHERE id = 1
	`, int64(bet), int64(fee), int64(payout))
	if err != nil {
		return fmt.Errorf("record settlement: %w", err)
	}

	return nil
}

func (r *platformRepo) CollectFees(tx *sql.Tx, accrued uint64) error {
	res, err := tx.Exec(`
		UPDATE platform
		SET fees_accrued   = fees_accrued - $1,
		    fees_collected = fees_collected + $1
		WHERE id = 1
		  AND fees_accrued >= $1
	`, int64(accrued))
	if err != nil {
		return fmt.Errorf("collect fees: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return platform.ErrFeeShortfall
	}

	return nil
}
