package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	PipelineMetrics
	CollectorMetrics
	SnapshotMetrics
	BroadcastMetrics
}

// PipelineMetrics defines metrics for scheduler lifecycle and pass execution.
type PipelineMetrics interface {
	// RecordSchedulerTransition records a scheduler state transition.
	RecordSchedulerTransition(to State)

	// RecordSubscriberCount sets the current subscriber count (gauge metric).
	RecordSubscriberCount(count int)

	// RecordPassDuration records the duration of a completed pass.
	//
	// Parameters:
	//   - seconds: Pass duration in seconds
	//   - trigger: Pass trigger ("scheduled", "manual")
	RecordPassDuration(seconds float64, trigger string)
}

// CollectorMetrics defines metrics for upstream collection.
type CollectorMetrics interface {
	// RecordPageFetch records one page fetch attempt by outcome
	// ("ok", "empty", "decode_error", "transport_error").
	RecordPageFetch(partition string, outcome string)

	// RecordPartitionResult records the outcome of one partition's collection.
	RecordPartitionResult(partition string, success bool)

	// RecordRecordsProcessed records the number of raw records a pass accumulated.
	RecordRecordsProcessed(count int)
}

// SnapshotMetrics defines metrics for diffing and snapshot publication.
type SnapshotMetrics interface {
	// RecordSnapshotPublish records a publish attempt and whether it changed
	// the cached snapshot.
	RecordSnapshotPublish(changed bool)

	// RecordChangedFacilities records how many records the differ stamped as
	// new or changed in one pass.
	RecordChangedFacilities(count int)
}

// BroadcastMetrics defines metrics for subscriber fan-out.
type BroadcastMetrics interface {
	// RecordBroadcast records the outcome of one fan-out: how many
	// subscribers received the payload and how many were pruned.
	RecordBroadcast(delivered, pruned int)
}
