package types

// CollectionStats are the counters for one collection pass.
//
// Counters reset at the start of each pass, scheduled or manual, and increase
// monotonically within it. They are not durable; a restart starts from zero.
type CollectionStats struct {
	// PartitionsCompleted is the number of partitions collected successfully
	// (including partitions truncated by a non-first-page failure).
	PartitionsCompleted int `json:"partitionsCompleted"`

	// PartitionsFailed is the number of partitions whose first page failed.
	PartitionsFailed int `json:"partitionsFailed"`

	// RecordsProcessed is the number of raw records accumulated this pass.
	RecordsProcessed int `json:"recordsProcessed"`

	// RecordsChanged is the number of records the differ saw as new or changed.
	RecordsChanged int `json:"recordsChanged"`
}
