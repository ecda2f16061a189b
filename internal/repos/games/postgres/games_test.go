package games

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/stakehouse/internal/infra/pgtestutil"
	"github.com/fastprodman/stakehouse/internal/repos/games"
)

func TestGames_SetAndGet(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	defer cancel()

	want := games.Config{
		MinBet:        100,
		MaxBet:        5000,
		MultiplierBPS: 19500,
		IsActive:      true,
		DisplayName:   "High Card",
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	err = repo.Set(tx, "highcard", want)
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := repo.Get(ctx, "highcard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != want {
		t.Fatalf("config mismatch: want %+v, got %+v", want, got)
	}
}

func TestGames_SetReplacesWholesale(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	defer cancel()

	apply := func(cfg games.Config) {
		t.Helper()

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("begin tx: %v", err)
		}
		if err := repo.Set(tx, "coinflip", cfg); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	apply(games.Config{MinBet: 100, MaxBet: 1000, MultiplierBPS: 19500, IsActive: true, DisplayName: "Coin Flip"})

	// The whole tuple is replaced, including an inverted range: no
	// cross-field validation happens on write.
	inverted := games.Config{MinBet: 9000, MaxBet: 10, MultiplierBPS: 100, IsActive: false, DisplayName: ""}
	apply(inverted)

	got, err := repo.Get(ctx, "coinflip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != inverted {
		t.Fatalf("config not replaced wholesale: want %+v, got %+v", inverted, got)
	}
}

func TestGames_Get_NotFound(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	defer cancel()

	_, err := repo.Get(ctx, "no-such-game")
	if !errors.Is(err, games.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}
