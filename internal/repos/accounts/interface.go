package accounts

import (
	"context"
	"database/sql"
	"errors"
)

var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrAccountNotFound = errors.New("account not found")

// Accounts is the balance store: identity -> pegged-asset balance.
// Rows are created implicitly on first credit and never deleted.
type Accounts interface {
	// Ensure creates a zero-balance row for identity if none exists.
	Ensure(tx *sql.Tx, identity string) error
	GetBalance(ctx context.Context, identity string) (uint64, error)
	LockAndGetBalance(tx *sql.Tx, identity string) (uint64, error)
	// SumBalances returns the total of all balances as seen by the
	// current transaction: the outstanding claims against custody.
	SumBalances(tx *sql.Tx) (uint64, error)
	Credit(tx *sql.Tx, identity string, amount uint64) error
	Debit(tx *sql.Tx, identity string, amount uint64) error
}
