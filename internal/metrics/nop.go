package metrics

import "github.com/arloliu/bedwatch/types"

// NopMetrics is a MetricsCollector implementation that discards all metrics.
//
// Used as the default when no collector is injected, so instrumentation call
// sites never need nil checks.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a metrics collector that discards everything.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (*NopMetrics) RecordSchedulerTransition(types.State)  {}
func (*NopMetrics) RecordSubscriberCount(int)              {}
func (*NopMetrics) RecordPassDuration(float64, string)     {}
func (*NopMetrics) RecordPageFetch(string, string)         {}
func (*NopMetrics) RecordPartitionResult(string, bool)     {}
func (*NopMetrics) RecordRecordsProcessed(int)             {}
func (*NopMetrics) RecordSnapshotPublish(bool)             {}
func (*NopMetrics) RecordChangedFacilities(int)            {}
func (*NopMetrics) RecordBroadcast(int, int)               {}
