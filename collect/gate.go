package collect

import (
	"context"

	"golang.org/x/time/rate"
)

// Gate is a permit gate in front of the upstream source.
//
// Acquire blocks the calling goroutine until one permit is available; permits
// replenish at a fixed rate. The gate is the backpressure point that keeps the
// orchestrator from exceeding the configured upstream call rate. There is no
// queuing priority; waiters are served roughly first-blocked-first-served.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a permit gate replenishing at permitsPerSecond.
//
// Burst is fixed at 1: every call waits for its own permit, so calls are
// spaced evenly rather than allowed to burst after an idle period.
//
// Parameters:
//   - permitsPerSecond: Replenishment rate (e.g. 5 for 5 calls/s)
//
// Returns:
//   - *Gate: Initialized gate
func NewGate(permitsPerSecond float64) *Gate {
	return &Gate{limiter: rate.NewLimiter(rate.Limit(permitsPerSecond), 1)}
}

// Acquire blocks until one permit is available or the context is done.
//
// Returns:
//   - error: Context cancellation or deadline; nil once a permit is held
func (g *Gate) Acquire(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
