package memory

import (
	"context"
	"testing"
)

func TestRegistry_Validity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := New()

	if !reg.IsValid(ctx, "alice") {
		t.Fatal("fresh identity should be valid")
	}

	if reg.IsValid(ctx, "") {
		t.Fatal("empty identity should be invalid")
	}

	reg.Ban("alice")

	if reg.IsValid(ctx, "alice") {
		t.Fatal("banned identity should be invalid")
	}

	reg.Unban("alice")

	if !reg.IsValid(ctx, "alice") {
		t.Fatal("unbanned identity should be valid again")
	}
}

func TestRegistry_StatAccumulation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := New()

	reg.RecordGameStat(ctx, "alice", true, 100)
	reg.RecordGameStat(ctx, "alice", false, 50)
	reg.RecordDepositStat(ctx, "alice", 1000, true)
	reg.RecordDepositStat(ctx, "alice", 400, false)

	got := reg.StatsFor("alice")

	if got.GamesPlayed != 2 || got.GamesWon != 1 || got.AmountWagered != 150 {
		t.Fatalf("game stats: %+v", got)
	}

	if got.TotalDeposited != 1000 || got.TotalWithdrawn != 400 {
		t.Fatalf("deposit stats: %+v", got)
	}

	// Other identities are untouched.
	if other := reg.StatsFor("bob"); other != (Stats{}) {
		t.Fatalf("unrelated identity has stats: %+v", other)
	}
}
