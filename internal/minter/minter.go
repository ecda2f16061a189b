// Package minter declares the pegged-asset issuance contract the engine
// consumes. Issuance itself (supply accounting, mint/burn authority) lives
// outside the engine; the engine only asks for units to be created into or
// destroyed from its custody, plus the two conversion functions.
package minter

import (
	"context"
	"errors"
)

var (
	ErrInsufficientSupply = errors.New("insufficient pegged balance to burn")
	ErrAmountOverflow     = errors.New("conversion overflows")
)

type Minter interface {
	Mint(ctx context.Context, holder string, amount uint64) error
	Burn(ctx context.Context, holder string, amount uint64) error
	BalanceOf(ctx context.Context, holder string) (uint64, error)

	// NativeToGameUnits scales a native amount by the fixed peg ratio.
	// Must be exact integer multiply-by-100.
	NativeToGameUnits(amount uint64) (uint64, error)
	// GameUnitsToNative is the inverse: floor divide-by-100.
	GameUnitsToNative(amount uint64) uint64
}
