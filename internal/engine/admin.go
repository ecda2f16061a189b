package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/stakehouse/internal/minter"
	"github.com/fastprodman/stakehouse/internal/registry"
	"github.com/fastprodman/stakehouse/internal/repos/events"
	"github.com/fastprodman/stakehouse/internal/repos/games"
	"github.com/fastprodman/stakehouse/internal/repos/platform"
)

// SetGameConfig replaces the tuple for gameType wholesale. No cross-field
// validation happens here: minBet > maxBet is stored as-is and rejects
// every bet at play-time. Callable while paused.
func (e *Engine) SetGameConfig(ctx context.Context, caller, gameType string, cfg games.Config) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	if cfg.MinBet > maxAmount || cfg.MaxBet > maxAmount || cfg.MultiplierBPS > maxAmount {
		return ErrAmountOverflow
	}

	err = e.withTx(ctx, func(tx *sql.Tx, _ platform.Snapshot) error {
		err := e.games.Set(tx, gameType, cfg)
		if err != nil {
			return err
		}

		return e.events.Append(tx, events.KindConfigUpdated, ConfigUpdatedRecord{
			GameType: gameType,
			Config:   cfg,
		})
	})
	if err != nil {
		return fmt.Errorf("set game config: %w", err)
	}

	return nil
}

// Authorize grants role to identity. Owner-only.
func (e *Engine) Authorize(caller string, role Role, identity string) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	e.gate.grant(role, identity)

	return nil
}

// Revoke removes role from identity. Owner-only.
func (e *Engine) Revoke(caller string, role Role, identity string) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	e.gate.revoke(role, identity)

	return nil
}

// Pause flips the admission gate: deposit, withdraw and play reject until
// Unpause. Configuration and fee withdrawal stay callable.
func (e *Engine) Pause(caller string) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	e.gate.setPaused(true)

	return nil
}

func (e *Engine) Unpause(caller string) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	e.gate.setPaused(false)

	return nil
}

// SetTreasury points fee disbursement at a new sink identity. Owner-only.
func (e *Engine) SetTreasury(ctx context.Context, caller, sink string) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	old := e.gate.treasurySink()
	e.gate.setTreasury(sink)

	err = e.withTx(ctx, func(tx *sql.Tx, _ platform.Snapshot) error {
		return e.events.Append(tx, events.KindTreasury, TreasuryUpdatedRecord{Old: old, New: sink})
	})
	if err != nil {
		e.gate.setTreasury(old)
		return fmt.Errorf("set treasury: %w", err)
	}

	return nil
}

// Link attaches the external collaborators. Either may be nil: an unlinked
// minter blocks deposits and withdrawals, an unlinked registry skips
// identity and statistics calls entirely.
func (e *Engine) Link(ctx context.Context, caller string, m minter.Minter, r registry.Registry) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	e.minter = m
	e.registry = r

	err = e.withTx(ctx, func(tx *sql.Tx, _ platform.Snapshot) error {
		return e.events.Append(tx, events.KindLinked, LinkedRecord{
			MinterLinked:   m != nil,
			RegistryLinked: r != nil,
		})
	})
	if err != nil {
		return fmt.Errorf("link collaborators: %w", err)
	}

	return nil
}

// WithdrawFees converts the accrued fee pot to native units and disburses
// it to the treasury sink, zeroing the counter. A reserve shortfall aborts
// the whole request with the counter untouched. Callable while paused.
func (e *Engine) WithdrawFees(ctx context.Context, caller string) error {
	err := e.acquire()
	if err != nil {
		return err
	}
	defer e.release()

	err = e.gate.requireOwner(caller)
	if err != nil {
		return err
	}

	if e.gate.treasurySink() == "" {
		return ErrNoTreasury
	}

	if e.minter == nil {
		return ErrMinterNotLinked
	}

	sink := e.gate.treasurySink()

	err = e.withTx(ctx, func(tx *sql.Tx, snap platform.Snapshot) error {
		if snap.FeesAccrued == 0 {
			return ErrNoAccruedFees
		}

		nativeAmount := e.minter.GameUnitsToNative(snap.FeesAccrued)

		err := e.platform.SubReserve(tx, nativeAmount)
		if err != nil {
			return fmt.Errorf("sub reserve: %w", err)
		}

		err = e.platform.CollectFees(tx, snap.FeesAccrued)
		if err != nil {
			return fmt.Errorf("collect fees: %w", err)
		}

		return e.events.Append(tx, events.KindFeeCollected, FeeCollectedRecord{
			PeggedAmount: snap.FeesAccrued,
			NativeAmount: nativeAmount,
			Sink:         sink,
		})
	})
	if err != nil {
		return fmt.Errorf("withdraw fees: %w", err)
	}

	return nil
}
