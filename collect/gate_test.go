package collect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	t.Run("acquire succeeds when permits are available", func(t *testing.T) {
		gate := NewGate(1000)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		require.NoError(t, gate.Acquire(ctx))
		require.NoError(t, gate.Acquire(ctx))
	})

	t.Run("acquire spaces calls at the permit rate", func(t *testing.T) {
		gate := NewGate(100) // one permit every 10ms

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		start := time.Now()
		for range 3 {
			require.NoError(t, gate.Acquire(ctx))
		}

		// First permit is free, the next two wait roughly 10ms each.
		require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	})

	t.Run("acquire honors context cancellation", func(t *testing.T) {
		gate := NewGate(0.001)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		require.NoError(t, gate.Acquire(ctx))
		require.Error(t, gate.Acquire(ctx))
	})
}
