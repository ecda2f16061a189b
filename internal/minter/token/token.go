// Package token is an in-process pegged token: a mutex-guarded
// holder->balance map with 1:100 conversion. It backs cmd/api and the
// engine tests; a production deployment would link a real issuer instead.
package token

import (
	"context"
	"math"
	"sync"

	"github.com/fastprodman/stakehouse/internal/minter"
)

const ratio = 100

type Token struct {
	mu       sync.Mutex
	balances map[string]uint64
	supply   uint64
}

func New() *Token {
	return &Token{balances: make(map[string]uint64)}
}

func (t *Token) Mint(_ context.Context, holder string, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.supply > math.MaxUint64-amount || t.balances[holder] > math.MaxUint64-amount {
		return minter.ErrAmountOverflow
	}

	t.balances[holder] += amount
	t.supply += amount

	return nil
}

func (t *Token) Burn(_ context.Context, holder string, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[holder] < amount {
		return minter.ErrInsufficientSupply
	}

	t.balances[holder] -= amount
	t.supply -= amount

	return nil
}

func (t *Token) BalanceOf(_ context.Context, holder string) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.balances[holder], nil
}

func (t *Token) TotalSupply() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.supply
}

func (t *Token) NativeToGameUnits(amount uint64) (uint64, error) {
	if amount > math.MaxUint64/ratio {
		return 0, minter.ErrAmountOverflow
	}

	return amount * ratio, nil
}

func (t *Token) GameUnitsToNative(amount uint64) uint64 {
	return amount / ratio
}
