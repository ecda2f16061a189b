package engine

import (
	"context"
	"fmt"

	"github.com/fastprodman/stakehouse/internal/repos/games"
	"github.com/fastprodman/stakehouse/internal/repos/platform"
)

// Views take no reentrancy guard and no row locks; they read whatever the
// last committed request left behind.

func (e *Engine) Balance(ctx context.Context, identity string) (uint64, error) {
	balance, err := e.accounts.GetBalance(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func (e *Engine) GameConfig(ctx context.Context, gameType string) (games.Config, error) {
	cfg, err := e.games.Get(ctx, gameType)
	if err != nil {
		return games.Config{}, fmt.Errorf("get game config: %w", err)
	}

	return cfg, nil
}

func (e *Engine) Stats(ctx context.Context) (platform.Snapshot, error) {
	snap, err := e.platform.Get(ctx)
	if err != nil {
		return platform.Snapshot{}, fmt.Errorf("get platform stats: %w", err)
	}

	return snap, nil
}

func (e *Engine) Paused() bool {
	return e.gate.isPaused()
}

func (e *Engine) Owner() string {
	return e.gate.owner
}

func (e *Engine) Treasury() string {
	return e.gate.treasurySink()
}

func (e *Engine) HasCapability(identity string, role Role) bool {
	return e.gate.hasCapability(identity, role)
}
