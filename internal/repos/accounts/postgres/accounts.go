package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/stakehouse/internal/repos/accounts"
)

type accountsRepo struct{ db *sql.DB }

func New(db *sql.DB) *accountsRepo {
	return &accountsRepo{db: db}
}

func (r *accountsRepo) Ensure(tx *sql.Tx, identity string) error {
	_, err := tx.Exec(`
		INSERT INTO accounts (identity, balance)
		VALUES ($1, 0)
		ON CONFLICT (identity) DO NOTHING
	`, identity)
	if err != nil {
		return fmt.Errorf("ensure account: %w", err)
	}

	return nil
}

func (r *accountsRepo) GetBalance(ctx context.Context, identity string) (uint64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM accounts
		WHERE identity = $1
	`, identity).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, accounts.ErrAccountNotFound
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return uint64(balance), nil
}

func (r *accountsRepo) LockAndGetBalance(tx *sql.Tx, identity string) (uint64, error) {
	var balance int64

	err := tx.QueryRow(`
		SELECT balance
		FROM accounts
		WHERE identity = $1
		FOR UPDATE
	`, identity).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, accounts.ErrAccountNotFound
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return uint64(balance), nil
}

func (r *accountsRepo) SumBalances(tx *sql.Tx) (uint64, error) {
	var sum int64

	// SUM over BIGINT yields NUMERIC; cast back for the driver.
	err := tx.QueryRow(`SELECT COALESCE(SUM(balance), 0)::BIGINT FROM accounts`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}

	return uint64(sum), nil
}

func (r *accountsRepo) Credit(tx *sql.Tx, identity string, amount uint64) error {
	_, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance + $2
		WHERE identity = $1
	`, identity, int64(amount))
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}

	return nil
}

func (r *accountsRepo) Debit(tx *sql.Tx, identity string, amount uint64) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance - $2
		WHERE identity = $1
		  AND balance >= $2
	`, identity, int64(amount))
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrInsufficientFunds
	}

	return nil
}
