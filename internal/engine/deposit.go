package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/stakehouse/internal/repos/accounts"
	"github.com/fastprodman/stakehouse/internal/repos/events"
	"github.com/fastprodman/stakehouse/internal/repos/platform"
)

// Deposit converts nativeAmount into pegged units at the fixed ratio and
// credits them to identity's balance. The pegged units are minted into the
// engine's custody pool, never to the end identity.
func (e *Engine) Deposit(ctx context.Context, caller, identity string, nativeAmount uint64) error {
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

	err = checkAmount(nativeAmount)
	if err != nil {
		return err
	}

	if e.minter == nil {
		return ErrMinterNotLinked
	}

	if e.registry != nil && !e.registry.IsValid(ctx, identity) {
		return ErrInvalidIdentity
	}

	peggedAmount, err := e.minter.NativeToGameUnits(nativeAmount)
	if err != nil {
		return fmt.Errorf("convert to game units: %w", err)
	}

	if peggedAmount > maxAmount {
		return ErrAmountOverflow
	}

	err = e.withTx(ctx, func(tx *sql.Tx, _ platform.Snapshot) error {
		err := e.accounts.Ensure(tx, identity)
		if err != nil {
			return fmt.Errorf("ensure account: %w", err)
		}

		err = e.platform.AddReserve(tx, nativeAmount)
		if err != nil {
			return fmt.Errorf("add reserve: %w", err)
		}

		err = e.platform.AddCustody(tx, peggedAmount)
		if err != nil {
			return fmt.Errorf("add custody: %w", err)
		}

		err = e.accounts.Credit(tx, identity, peggedAmount)
		if err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}

		err = e.events.Append(tx, events.KindDeposit, DepositRecord{
			Identity:     identity,
			NativeAmount: nativeAmount,
			PeggedAmount: peggedAmount,
		})
		if err != nil {
			return fmt.Errorf("append deposit event: %w", err)
		}

		// Mint after every row mutation: a mint failure rolls the whole
		// request back, and only a failed commit can leave minted supply
		// against rolled-back rows. Startup re-issues custody from the
		// persisted counter, which also bounds that window.
		err = e.minter.Mint(ctx, CustodyHolder, peggedAmount)
		if err != nil {
			return fmt.Errorf("mint custody: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	if e.registry != nil {
		e.registry.RecordDepositStat(ctx, identity, peggedAmount, true)
	}

	return nil
}

// Withdraw converts peggedAmount back to native units. The amount must be
// an exact multiple of the peg ratio so the round trip loses nothing.
func (e *Engine) Withdraw(ctx context.Context, caller, identity string, peggedAmount uint64) error {
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

	err = checkAmount(peggedAmount)
	if err != nil {
		return err
	}

	if peggedAmount%Ratio != 0 {
		return ErrNotMultipleOfRatio
	}

	if e.minter == nil {
		return ErrMinterNotLinked
	}

	if e.registry != nil && !e.registry.IsValid(ctx, identity) {
		return ErrInvalidIdentity
	}

	nativeAmount := e.minter.GameUnitsToNative(peggedAmount)

	err = e.withTx(ctx, func(tx *sql.Tx, _ platform.Snapshot) error {
		balance, err := e.accounts.LockAndGetBalance(tx, identity)
		if err != nil {
			if errors.Is(err, accounts.ErrAccountNotFound) {
				return accounts.ErrInsufficientFunds
			}

			return fmt.Errorf("lock balance: %w", err)
		}

		if balance < peggedAmount {
			return accounts.ErrInsufficientFunds
		}

		err = e.accounts.Debit(tx, identity, peggedAmount)
		if err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		err = e.platform.SubCustody(tx, peggedAmount)
		if err != nil {
			return fmt.Errorf("sub custody: %w", err)
		}

		err = e.platform.SubReserve(tx, nativeAmount)
		if err != nil {
			return fmt.Errorf("sub reserve: %w", err)
		}

		err = e.minter.Burn(ctx, CustodyHolder, peggedAmount)
		if err != nil {
			return fmt.Errorf("burn custody: %w", err)
		}

		return e.events.Append(tx, events.KindWithdrawal, WithdrawalRecord{
			Identity:     identity,
			PeggedAmount: peggedAmount,
			NativeAmount: nativeAmount,
		})
	})
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}

	if e.registry != nil {
		e.registry.RecordDepositStat(ctx, identity, peggedAmount, false)
	}

	return nil
}
