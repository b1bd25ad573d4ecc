package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/bedwatch/types"
)

func TestPrometheusCollector(t *testing.T) {
	t.Run("records pipeline metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewPrometheus(reg, "")

		c.RecordSchedulerTransition(types.StateRunning)
		c.RecordSubscriberCount(3)
		c.RecordPassDuration(1.5, "scheduled")
		c.RecordPageFetch("seoul", "ok")
		c.RecordPageFetch("seoul", "empty")
		c.RecordPartitionResult("seoul", true)
		c.RecordRecordsProcessed(42)
		c.RecordSnapshotPublish(true)
		c.RecordSnapshotPublish(false)
		c.RecordChangedFacilities(7)
		c.RecordBroadcast(5, 1)

		require.Equal(t, 1.0, testutil.ToFloat64(c.schedulerRunning))
		require.Equal(t, 3.0, testutil.ToFloat64(c.subscribers))
		require.Equal(t, 42.0, testutil.ToFloat64(c.recordsProcessed))
		require.Equal(t, 1.0, testutil.ToFloat64(c.pageFetches.WithLabelValues("seoul", "ok")))
		require.Equal(t, 1.0, testutil.ToFloat64(c.snapshotPublish.WithLabelValues("changed")))
		require.Equal(t, 1.0, testutil.ToFloat64(c.snapshotPublish.WithLabelValues("unchanged")))
		require.Equal(t, 5.0, testutil.ToFloat64(c.broadcastSends.WithLabelValues("delivered")))
		require.Equal(t, 1.0, testutil.ToFloat64(c.broadcastSends.WithLabelValues("pruned")))

		c.RecordSchedulerTransition(types.StateStopped)
		require.Equal(t, 0.0, testutil.ToFloat64(c.schedulerRunning))
	})

	t.Run("gathered metrics carry the namespace", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewPrometheus(reg, "")

		c.RecordRecordsProcessed(1)

		families, err := reg.Gather()
		require.NoError(t, err)
		require.NotEmpty(t, families)
		for _, mf := range families {
			require.True(t, strings.HasPrefix(mf.GetName(), "bedwatch_"), mf.GetName())
		}
	})

	t.Run("two collectors on one registry do not panic", func(t *testing.T) {
		reg := prometheus.NewRegistry()

		a := NewPrometheus(reg, "")
		b := NewPrometheus(reg, "")

		require.NotPanics(t, func() {
			a.RecordRecordsProcessed(1)
			b.RecordRecordsProcessed(1)
		})
	})
}
