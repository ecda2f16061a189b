package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/stakehouse/internal/repos/accounts"
	"github.com/fastprodman/stakehouse/internal/repos/events"
	"github.com/fastprodman/stakehouse/internal/repos/games"
	"github.com/fastprodman/stakehouse/internal/repos/platform"
)

// PlayGame settles one wager: the stake is debited unconditionally, the
// house fee accrues regardless of outcome, and on a win the payout is
// credited from the custody pool.
//
// Trust boundary: the outcome is an input. The engine does not derive
// wins; whoever submits the request (the player itself, or an identity
// holding the game-manager capability on its behalf) decides `won`.
// Fairness of that decision lives outside this component.
func (e *Engine) PlayGame(ctx context.Context, caller, identity, gameType string, betAmount uint64, won bool) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	if e.gate.isPaused() {
		return ErrPaused
	}

	err = e.gate.requireActor(caller, identity)
	if err != nil {
		return err
	}

	err = checkAmount(betAmount)
	if err != nil {
		return err
	}

	if e.registry != nil && !e.registry.IsValid(ctx, identity) {
		return ErrInvalidIdentity
	}

	// Fee and payout are computed up front so arithmetic failures abort
	// before any row is touched.
	fee, err := mulBPS(betAmount, HouseEdgeBPS)
	if err != nil {
		return err
	}

	err = e.withTx(ctx, func(tx *sql.Tx, snap platform.Snapshot) error {
		cfg, err := e.games.LockAndGet(tx, gameType)
		if err != nil {
			if errors.Is(err, games.ErrGameNotFound) {
				return ErrUnknownGame
			}

			return fmt.Errorf("load game config: %w", err)
		}

		if !cfg.IsActive {
			return ErrGameInactive
		}

		// An inverted min/max range is storable and simply makes this
		// unsatisfiable.
		if betAmount < cfg.MinBet || betAmount > cfg.MaxBet {
			return ErrBetOutOfBounds
		}

		balance, err := e.accounts.LockAndGetBalance(tx, identity)
		if err != nil {
			if errors.Is(err, accounts.ErrAccountNotFound) {
				return accounts.ErrInsufficientFunds
			}

			return fmt.Errorf("lock balance: %w", err)
		}

		if balance < betAmount {
			return accounts.ErrInsufficientFunds
		}

		// Stake is always taken first, win or lose.
		err = e.accounts.Debit(tx, identity, betAmount)
		if err != nil {
			return fmt.Errorf("debit stake: %w", err)
		}

		var payout uint64

		if won {
			payout, err = mulBPS(betAmount, cfg.MultiplierBPS)
			if err != nil {
				return err
			}

			// Custody must cover every claim that survives this
			// settlement: the remaining balances (stake already
			// debited), the fee pot including this wager's fee, and
			// the payout about to be credited. Wins draw only on the
			// surplus that earlier losses left behind.
			claims, err := e.accounts.SumBalances(tx)
			if err != nil {
				return fmt.Errorf("sum balances: %w", err)
			}

			liabilities := claims + snap.FeesAccrued + fee
			if liabilities > snap.PeggedCustody || payout > snap.PeggedCustody-liabilities {
				return platform.ErrCustodyShortfall
			}

			err = e.accounts.Credit(tx, identity, payout)
			if err != nil {
				return fmt.Errorf("credit payout: %w", err)
			}
		}

		err = e.platform.RecordSettlement(tx, betAmount, fee, payout)
		if err != nil {
			return fmt.Errorf("record settlement: %w", err)
		}

		return e.events.Append(tx, events.KindSettlement, SettlementRecord{
			Identity:  identity,
			GameType:  gameType,
			BetAmount: betAmount,
			Won:       won,
			Payout:    payout,
			Fee:       fee,
		})
	})
	if err != nil {
		return fmt.Errorf("play game: %w", err)
	}

	if e.registry != nil {
		e.registry.RecordGameStat(ctx, identity, won, betAmount)
	}

	return nil
}
