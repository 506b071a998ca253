// Package throttle slows down in-memory tables so they behave like a remote store.
package throttle

import (
	"context"
	"math/rand/v2"
	"time"
)

// Sleep waits a random duration in [0, maxDelay) or until ctx is done.
// A maxDelay <= 0 only checks ctx.
func Sleep(ctx context.Context, maxDelay time.Duration) error {
	if maxDelay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(rand.N(maxDelay))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
