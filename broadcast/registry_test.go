package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSubscriber records sends and can be programmed to fail.
type fakeSubscriber struct {
	mu       sync.Mutex
	payloads [][]byte
	sendErr  error
	closed   atomic.Int32
}

func (f *fakeSubscriber) Send(_ context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return f.sendErr
	}

	f.payloads = append(f.payloads, append([]byte(nil), payload...))

	return nil
}

func (f *fakeSubscriber) Close() error {
	f.closed.Add(1)

	return nil
}

func (f *fakeSubscriber) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([][]byte(nil), f.payloads...)
}

func TestRegistry(t *testing.T) {
	t.Run("join assigns distinct ids", func(t *testing.T) {
		r := NewRegistry()

		id1 := r.Join(&fakeSubscriber{})
		id2 := r.Join(&fakeSubscriber{})

		require.NotEqual(t, id1, id2)
		require.Equal(t, 2, r.Count())
	})

	t.Run("leave removes exactly one membership", func(t *testing.T) {
		r := NewRegistry()

		id := r.Join(&fakeSubscriber{})
		require.Equal(t, 1, r.Count())

		require.True(t, r.Leave(id))
		require.Equal(t, 0, r.Count())

		// Double leave is a no-op.
		require.False(t, r.Leave(id))
	})

	t.Run("close all closes every subscriber", func(t *testing.T) {
		r := NewRegistry()

		subs := []*fakeSubscriber{{}, {}, {}}
		for _, sub := range subs {
			r.Join(sub)
		}

		require.Equal(t, 3, r.CloseAll())
		require.Equal(t, 0, r.Count())
		for _, sub := range subs {
			require.Equal(t, int32(1), sub.closed.Load())
		}
	})

	t.Run("concurrent joins and leaves keep the count consistent", func(t *testing.T) {
		r := NewRegistry()

		const n = 50
		ids := make([]uint64, n)

		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ids[i] = r.Join(&fakeSubscriber{})
			}()
		}
		wg.Wait()
		require.Equal(t, n, r.Count())

		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				require.True(t, r.Leave(ids[i]))
			}()
		}
		wg.Wait()
		require.Equal(t, 0, r.Count())
	})
}

func TestBroadcaster(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		r := NewRegistry()
		subs := []*fakeSubscriber{{}, {}}
		for _, sub := range subs {
			r.Join(sub)
		}

		b := newTestBroadcaster(r)

		delivered := b.Broadcast(context.Background(), []byte(`{"a":1}`))
		require.Equal(t, 2, delivered)
		for _, sub := range subs {
			require.Equal(t, [][]byte{[]byte(`{"a":1}`)}, sub.received())
		}
	})

	t.Run("prunes and closes failing subscribers", func(t *testing.T) {
		r := NewRegistry()
		healthy := &fakeSubscriber{}
		dead := &fakeSubscriber{sendErr: errors.New("broken pipe")}
		r.Join(healthy)
		r.Join(dead)

		b := newTestBroadcaster(r)

		delivered := b.Broadcast(context.Background(), []byte(`x`))
		require.Equal(t, 1, delivered)
		require.Equal(t, 1, r.Count())
		require.Equal(t, int32(1), dead.closed.Load())

		// The pruned subscriber is gone from subsequent broadcasts.
		delivered = b.Broadcast(context.Background(), []byte(`y`))
		require.Equal(t, 1, delivered)
		require.Len(t, healthy.received(), 2)
	})

	t.Run("broadcast to an empty registry delivers nothing", func(t *testing.T) {
		b := newTestBroadcaster(NewRegistry())

		require.Equal(t, 0, b.Broadcast(context.Background(), []byte(`x`)))
	})
}
