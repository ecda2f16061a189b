// Package memory is an in-process identity registry: every identity is
// valid unless banned, and stat deltas accumulate per identity. Backs
// cmd/api and tests.
package memory

import (
	"context"
	"sync"
)

type Stats struct {
	GamesPlayed    uint64
	GamesWon       uint64
	AmountWagered  uint64
	TotalDeposited uint64
	TotalWithdrawn uint64
}

type Registry struct {
	mu     sync.Mutex
	banned map[string]bool
	stats  map[string]*Stats
}

func New() *Registry {
	return &Registry{
		banned: make(map[string]bool),
		stats:  make(map[string]*Stats),
	}
}

func (r *Registry) Ban(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.banned[identity] = true
}

func (r *Registry) Unban(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.banned, identity)
}

func (r *Registry) IsValid(_ context.Context, identity string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return identity != "" && !r.banned[identity]
}

func (r *Registry) RecordGameStat(_ context.Context, identity string, won bool, amount uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.statsFor(identity)
	s.GamesPlayed++
	s.AmountWagered += amount

	if won {
		s.GamesWon++
	}
}

func (r *Registry) RecordDepositStat(_ context.Context, identity string, amount uint64, isDeposit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.statsFor(identity)
	if isDeposit {
		s.TotalDeposited += amount
	} else {
		s.TotalWithdrawn += amount
	}
}

// StatsFor returns a copy of the accumulated stats for identity.
func (r *Registry) StatsFor(identity string) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return *r.statsFor(identity)
}

func (r *Registry) statsFor(identity string) *Stats {
	s, ok := r.stats[identity]
	if !ok {
		s = &Stats{}
		r.stats[identity] = s
	}

	return s
}
