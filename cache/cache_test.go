package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bedwatch/types"
)

func snapshot(t *testing.T, collectedAt time.Time, facilities ...types.FacilityStatus) *types.Snapshot {
	t.Helper()

	snap, err := types.NewSnapshot(facilities, collectedAt)
	require.NoError(t, err)

	return snap
}

func TestCache(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("cold cache reads as absent", func(t *testing.T) {
		c := New()

		snap, ok := c.Read()
		require.False(t, ok)
		require.Nil(t, snap)
	})

	t.Run("first publish always changes the cache", func(t *testing.T) {
		c := New()

		snap := snapshot(t, now, types.FacilityStatus{FacilityID: "A1", ERBeds: 5})
		require.True(t, c.Publish(snap))

		got, ok := c.Read()
		require.True(t, ok)
		require.Same(t, snap, got)
	})

	t.Run("byte-identical snapshot from a distinct instance is suppressed", func(t *testing.T) {
		c := New()

		first := snapshot(t, now, types.FacilityStatus{FacilityID: "A1", ERBeds: 5})
		require.True(t, c.Publish(first))

		// Same content, different instance and different pass time.
		second := snapshot(t, now.Add(time.Minute), types.FacilityStatus{FacilityID: "A1", ERBeds: 5})
		require.False(t, c.Publish(second))

		// The suppressed snapshot does not replace the cached one.
		got, ok := c.Read()
		require.True(t, ok)
		require.Same(t, first, got)
	})

	t.Run("changed snapshot replaces the cache", func(t *testing.T) {
		c := New()

		require.True(t, c.Publish(snapshot(t, now, types.FacilityStatus{FacilityID: "A1", ERBeds: 5})))

		changed := snapshot(t, now.Add(time.Minute), types.FacilityStatus{FacilityID: "A1", ERBeds: 3})
		require.True(t, c.Publish(changed))

		got, ok := c.Read()
		require.True(t, ok)
		require.Same(t, changed, got)
	})

	t.Run("clear returns the cache to cold", func(t *testing.T) {
		c := New()

		snap := snapshot(t, now, types.FacilityStatus{FacilityID: "A1"})
		require.True(t, c.Publish(snap))

		c.Clear()

		_, ok := c.Read()
		require.False(t, ok)

		// After a clear the same content publishes as a change again.
		require.True(t, c.Publish(snap))
	})
}
