package collect

import (
	"context"
	"time"

	"github.com/arloliu/bedwatch/types"
)

// OrchestratorConfig controls how a full collection pass is driven.
type OrchestratorConfig struct {
	// Partitions are the partition keys iterated in sequential mode.
	Partitions []string `yaml:"partitions"`

	// Nationwide switches to a single paged call covering every partition
	// at once, used when upstream supports it.
	Nationwide bool `yaml:"nationwide"`

	// InterPartitionDelay is a fixed delay between partitions in sequential
	// mode, on top of the permit gate, to further throttle upstream calls.
	InterPartitionDelay time.Duration `yaml:"interPartitionDelay"`
}

// Orchestrator drives one full collection pass across all partitions.
//
// Partition collection is deliberately sequential to respect upstream rate
// limits. Run never raises past its caller: any failure inside the pass,
// including a panic, is caught and logged, and the pass ends with whatever
// was accumulated. The orchestrator is invoked from a periodic task that must
// survive indefinitely.
type Orchestrator struct {
	collector *Collector
	cfg       OrchestratorConfig
	logger    types.Logger
	metrics   types.MetricsCollector
}

// NewOrchestrator creates a pass orchestrator on top of a partition collector.
func NewOrchestrator(collector *Collector, cfg OrchestratorConfig, logger types.Logger, metrics types.MetricsCollector) *Orchestrator {
	return &Orchestrator{
		collector: collector,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes one full collection pass.
//
// Parameters:
//   - ctx: Context bounding the whole pass
//
// Returns:
//   - []types.FacilityStatus: Raw record list for the pass (possibly partial)
//   - types.CollectionStats: Counters for the pass
func (o *Orchestrator) Run(ctx context.Context) (records []types.FacilityStatus, stats types.CollectionStats) {
	// Accumulation goes straight into the named returns so the recover below
	// hands back every record gathered before a panic.
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("collection pass panicked", "panic", r)
			stats.RecordsProcessed = len(records)
		}
	}()

	if o.cfg.Nationwide {
		o.runNationwide(ctx, &records, &stats)
	} else {
		o.runSequential(ctx, &records, &stats)
	}

	stats.RecordsProcessed = len(records)
	o.metrics.RecordRecordsProcessed(len(records))

	return records, stats
}

// runNationwide performs one large paged call covering every partition.
func (o *Orchestrator) runNationwide(ctx context.Context, records *[]types.FacilityStatus, stats *types.CollectionStats) {
	out, err := o.collector.Collect(ctx, "")
	if err != nil {
		o.logger.Error("nationwide collection failed", "error", err)
		o.metrics.RecordPartitionResult("", false)
		stats.PartitionsFailed++

		return
	}

	o.metrics.RecordPartitionResult("", true)
	stats.PartitionsCompleted++
	*records = append(*records, out...)
}

// runSequential iterates partitions one at a time with a fixed delay between
// them, accumulating all partitions' records before returning.
func (o *Orchestrator) runSequential(ctx context.Context, records *[]types.FacilityStatus, stats *types.CollectionStats) {
	for i, partition := range o.cfg.Partitions {
		if i > 0 {
			if err := sleepCtx(ctx, o.cfg.InterPartitionDelay); err != nil {
				o.logger.Warn("pass cancelled between partitions",
					"completed", stats.PartitionsCompleted,
					"remaining", len(o.cfg.Partitions)-i,
				)

				return
			}
		}

		out, err := o.collector.Collect(ctx, partition)
		if err != nil {
			o.logger.Error("partition collection failed", "partition", partition, "error", err)
			o.metrics.RecordPartitionResult(partition, false)
			stats.PartitionsFailed++

			continue
		}

		o.metrics.RecordPartitionResult(partition, true)
		stats.PartitionsCompleted++
		*records = append(*records, out...)
	}
}
