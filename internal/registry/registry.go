// Package registry declares the identity service contract the engine
// consumes. Registration, ban management and the statistics store are
// external; the engine only asks "may this identity transact" and pushes
// stat deltas after settled requests.
package registry

import "context"

type Registry interface {
	IsValid(ctx context.Context, identity string) bool
	RecordGameStat(ctx context.Context, identity string, won bool, amount uint64)
	RecordDepositStat(ctx context.Context, identity string, amount uint64, isDeposit bool)
}
