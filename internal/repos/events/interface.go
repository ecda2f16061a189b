package events

import "database/sql"

// Event kinds. One row per emitted record; rows are append-only facts.
const (
	KindDeposit       = "deposit"
	KindWithdrawal    = "withdrawal"
	KindSettlement    = "settlement"
	KindFeeCollected  = "fee_collected"
	KindConfigUpdated = "config_updated"
	KindTreasury      = "treasury_updated"
	KindLinked        = "linked"
)

type Events interface {
	// Append writes one event inside the caller's transaction, so the
	// record commits or rolls back with the mutation it describes.
	Append(tx *sql.Tx, kind string, payload any) error
}
