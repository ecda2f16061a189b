package engine

import (
	"errors"
	"math"

	"github.com/fastprodman/stakehouse/internal/repos/games"
)

// Fixed economic constants. RATIO is the native->pegged peg scale,
// HouseEdgeBPS the fee fraction taken on every wager regardless of outcome.
const (
	Ratio            uint64 = 100
	HouseEdgeBPS     uint64 = 250
	BasisPointsDenom uint64 = 10000
)

// Storage is signed 64-bit, so amounts above MaxInt64 are rejected at the
// boundary instead of wrapping.
const maxAmount = uint64(math.MaxInt64)

type Role string

const (
	RoleGameManager Role = "game-manager"
	RoleMinter      Role = "minter"
)

var (
	ErrPaused             = errors.New("engine is paused")
	ErrReentrantCall      = errors.New("reentrant call rejected")
	ErrNotOwner           = errors.New("caller is not the owner")
	ErrNotAuthorized      = errors.New("caller not authorized")
	ErrInvalidIdentity    = errors.New("identity not valid")
	ErrMinterNotLinked    = errors.New("minter not linked")
	ErrZeroAmount         = errors.New("amount must be positive")
	ErrNotMultipleOfRatio = errors.New("amount must be a multiple of the peg ratio")
	ErrUnknownGame        = errors.New("unknown game type")
	ErrGameInactive       = errors.New("game is not active")
	ErrBetOutOfBounds     = errors.New("bet outside game bounds")
	ErrNoAccruedFees      = errors.New("no fees accrued")
	ErrNoTreasury         = errors.New("treasury sink not configured")
	ErrAmountOverflow     = errors.New("amount overflows")
)

// Emitted record payloads, appended to the event log inside the same
// transaction as the mutation they describe.

type DepositRecord struct {
	Identity     string `json:"identity"`
	NativeAmount uint64 `json:"nativeAmount"`
	PeggedAmount uint64 `json:"peggedAmount"`
}

type WithdrawalRecord struct {
	Identity     string `json:"identity"`
	PeggedAmount uint64 `json:"peggedAmount"`
	NativeAmount uint64 `json:"nativeAmount"`
}

type SettlementRecord struct {
	Identity  string `json:"identity"`
	GameType  string `json:"gameType"`
	BetAmount uint64 `json:"betAmount"`
	Won       bool   `json:"won"`
	Payout    uint64 `json:"payout"`
	Fee       uint64 `json:"fee"`
}

type FeeCollectedRecord struct {
	PeggedAmount uint64 `json:"peggedAmount"`
	NativeAmount uint64 `json:"nativeAmount"`
	Sink         string `json:"sink"`
}

type ConfigUpdatedRecord struct {
	GameType string       `json:"gameType"`
	Config   games.Config `json:"config"`
}

type TreasuryUpdatedRecord struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type LinkedRecord struct {
	MinterLinked   bool `json:"minterLinked"`
	RegistryLinked bool `json:"registryLinked"`
}

func checkAmount(amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	if amount > maxAmount {
		return ErrAmountOverflow
	}

	return nil
}

// mulBPS computes amount*bps/10000 with floor division, aborting on
// multiply overflow rather than wrapping.
func mulBPS(amount, bps uint64) (uint64, error) {
	if bps != 0 && amount > math.MaxUint64/bps {
		return 0, ErrAmountOverflow
	}

	return amount * bps / BasisPointsDenom, nil
}
