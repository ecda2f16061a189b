// Package engine is the ledger/settlement core. It owns account balances,
// the per-game configuration, the platform counters and the accrued fee
// pot, and gates every money-moving entry point behind pause, identity and
// role checks plus a non-reentrant guard.
//
// Money state lives in Postgres and mutates only inside a single
// transaction per entry point: a failed precondition anywhere rolls the
// whole request back, so no operation can leave partial effects.
// Administrative state (owner, pause flag, capability set, treasury sink,
// collaborator links) lives in memory and mutates only through the
// owner-only operations below.
package engine

import (
	"context"
	"database/sql"
	"sync"

	"github.com/fastprodman/stakehouse/internal/infra/pgutils"
	"github.com/fastprodman/stakehouse/internal/minter"
	"github.com/fastprodman/stakehouse/internal/registry"
	"github.com/fastprodman/stakehouse/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/stakehouse/internal/repos/accounts/postgres"
	"github.com/fastprodman/stakehouse/internal/repos/events"
	pgevents "github.com/fastprodman/stakehouse/internal/repos/events/postgres"
	"github.com/fastprodman/stakehouse/internal/repos/games"
	pggames "github.com/fastprodman/stakehouse/internal/repos/games/postgres"
	"github.com/fastprodman/stakehouse/internal/repos/platform"
	pgplatform "github.com/fastprodman/stakehouse/internal/repos/platform/postgres"
)

// CustodyHolder is the minter-side account all pegged units are issued
// to. Balances are claims against this single pool, so settlement is a
// counter mutation, never an asset transfer.
const CustodyHolder = "stakehouse:custody"

type Engine struct {
	db       *sql.DB
	accounts accounts.Accounts
	games    games.Games
	platform platform.Platform
	events   events.Events

	// busy is the non-reentrant guard: one token for all state-mutating
	// entry points, taken with TryLock so a collaborator callback that
	// re-enters gets ErrReentrantCall instead of deadlocking.
	busy sync.Mutex

	gate     *gate
	minter   minter.Minter
	registry registry.Registry
}

func New(db *sql.DB, owner string) *Engine {
	return &Engine{
		db:       db,
		accounts: pgaccounts.New(db),
		games:    pggames.New(db),
		platform: pgplatform.New(db),
		events:   pgevents.New(db),
		gate:     newGate(owner),
	}
}

func (e *Engine) acquire() error {
	if !e.busy.TryLock() {
		return ErrReentrantCall
	}

	return nil
}

func (e *Engine) release() {
	e.busy.Unlock()
}

// withTx runs fn in one database transaction after locking the platform
// row, which serializes money-moving requests at the database level too.
func (e *Engine) withTx(ctx context.Context, fn func(tx *sql.Tx, snap platform.Snapshot) error) error {
	return pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		snap, err := e.platform.LockAndGet(tx)
		if err != nil {
			return err
		}

		return fn(tx, snap)
	})
}
