package platform

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrReserveShortfall = errors.New("native reserve shortfall")
	ErrCustodyShortfall = errors.New("custody pool shortfall")
	ErrFeeShortfall     = errors.New("accrued fee shortfall")
)

// Snapshot is the singleton platform row: lifetime counters plus the two
// solvency quantities (native reserve held by the engine, pegged units in
// custody backing all balances).
type Snapshot struct {
	GamesPlayed   uint64
	VolumeWagered uint64
	TotalPayouts  uint64
	FeesAccrued   uint64
	FeesCollected uint64
	NativeReserve uint64
	PeggedCustody uint64
}

type Platform interface {
	Get(ctx context.Context) (Snapshot, error)
	// LockAndGet locks the singleton row for the transaction, serializing
	// all money-moving requests at the database level.
	LockAndGet(tx *sql.Tx) (Snapshot, error)

	AddReserve(tx *sql.Tx, amount uint64) error
	SubReserve(tx *sql.Tx, amount uint64) error // ErrReserveShortfall when short
	AddCustody(tx *sql.Tx, amount uint64) error
	SubCustody(tx *sql.Tx, amount uint64) error // ErrCustodyShortfall when short

	// RecordSettlement bumps the wager counters for one settled game.
	RecordSettlement(tx *sql.Tx, bet, fee, payout uint64) error
	// CollectFees zeroes the accrued counter and adds it to the lifetime
	// fees-collected total. ErrFeeShortfall when accrued exceeds the counter.
	CollectFees(tx *sql.Tx, accrued uint64) error
}
