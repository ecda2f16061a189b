package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/stakehouse/internal/infra/pgtestutil"
	"github.com/fastprodman/stakehouse/internal/repos/accounts"
)

func seedAccount(t *testing.T, db *sql.DB, identity string, balance int64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO accounts (identity, balance) VALUES ($1, $2)
		ON CONFLICT (identity) DO UPDATE SET balance = EXCLUDED.balance
	`, identity, balance)
	if err != nil {
		t.Fatalf("seed account %q: %v", identity, err)
	}
}

func TestAccounts_Debit_Table(t *testing.T) {
	t.Parallel()

	type tc struct {
		name          string
		seedBalance   int64
		seed          bool
		identity      string
		amount        uint64
		wantBalance   uint64
		wantErr       bool
		checkFinalBal bool
	}

	tests := []tc{
		{
			name:          "sufficient_funds",
			seed:          true,
			seedBalance:   1_000,
			identity:      "alice",
			amount:        250,
			wantBalance:   750,
			checkFinalBal: true,
		},
		{
			name:          "exact_to_zero",
			seed:          true,
			seedBalance:   300,
			identity:      "bob",
			amount:        300,
			wantBalance:   0,
			checkFinalBal: true,
		},
		{
			name:          "insufficient_balance_unchanged",
			seed:          true,
			seedBalance:   200,
			identity:      "carol",
			amount:        300,
			wantBalance:   200,
			wantErr:       true,
			checkFinalBal: true,
		},
		{
			name:     "missing_account_treated_as_insufficient",
			identity: "ghost",
			amount:   100,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed {
				seedAccount(t, db, tt.identity, tt.seedBalance)
			}

			repo := New(db)

			ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
			defer cancel()

			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			err = repo.Debit(tx, tt.identity, tt.amount)

			if tt.wantErr {
				if !errors.Is(err, accounts.ErrInsufficientFunds) {
					t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("debit: %v", err)
				}
				if err := tx.Commit(); err != nil {
					t.Fatalf("commit: %v", err)
				}
			}

			if tt.checkFinalBal {
				got, gerr := repo.GetBalance(ctx, tt.identity)
				if gerr != nil {
					t.Fatalf("get balance after debit: %v", gerr)
				}
				if got != tt.wantBalance {
					t.Fatalf("final balance mismatch: want %d, got %d", tt.wantBalance, got)
				}
			}
		})
	}
}

func TestAccounts_EnsureAndCredit(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	// First touch zero-initializes.
	err = repo.Ensure(tx, "dave")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	bal, err := repo.LockAndGetBalance(tx, "dave")
	if err != nil {
		t.Fatalf("lock/get: %v", err)
	}
	if bal != 0 {
		t.Fatalf("fresh account balance: want 0, got %d", bal)
	}

	err = repo.Credit(tx, "dave", 500)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}

	// Ensure again must not reset an existing row.
	err = repo.Ensure(tx, "dave")
	if err != nil {
		t.Fatalf("re-ensure: %v", err)
	}

	bal, err = repo.LockAndGetBalance(tx, "dave")
	if err != nil {
		t.Fatalf("lock/get: %v", err)
	}
	if bal != 500 {
		t.Fatalf("balance after credit + re-ensure: want 500, got %d", bal)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestAccounts_SumBalances(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	defer cancel()

	sum := func() uint64 {
		t.Helper()

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("begin tx: %v", err)
		}
		defer func() { _ = tx.Rollback() }()

		got, err := repo.SumBalances(tx)
		if err != nil {
			t.Fatalf("sum balances: %v", err)
		}

		return got
	}

	if got := sum(); got != 0 {
		t.Fatalf("empty table sum: want 0, got %d", got)
	}

	seedAccount(t, db, "alice", 1_000)
	seedAccount(t, db, "bob", 250)

	if got := sum(); got != 1_250 {
		t.Fatalf("sum: want 1250, got %d", got)
	}
}

func TestAccounts_GetBalance_NotFound(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	defer cancel()

	_, err := repo.GetBalance(ctx, "nobody")
	if !errors.Is(err, accounts.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
