package games

import (
	"context"
	"testing"
)

// testContext mirrors testing.T.Context (Go 1.24+): a context cancelled
// when the test finishes, before Cleanup functions run in this toolchain.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
