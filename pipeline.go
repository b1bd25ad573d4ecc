package bedwatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/bedwatch/broadcast"
	"github.com/arloliu/bedwatch/cache"
	"github.com/arloliu/bedwatch/collect"
	"github.com/arloliu/bedwatch/diff"
	"github.com/arloliu/bedwatch/enrich"
	"github.com/arloliu/bedwatch/internal/logging"
	"github.com/arloliu/bedwatch/internal/metrics"
	"github.com/arloliu/bedwatch/types"
)

// Pipeline is the facility-capacity feed: it owns the scheduler lifecycle,
// executes collection passes, and fans results out to subscribers.
//
// Thread safety:
//   - All public methods are safe for concurrent use
//   - The scheduler transition guard is an atomic compare-and-set, so
//     concurrent joins and leaves trigger the start/stop action exactly once
//   - Join and Leave touch only the registry and cache; they never block on
//     an in-flight pass
//
// Lifecycle:
//   - Create with NewPipeline()
//   - Subscribers drive the scheduler via Join()/Leave() (reference-counted)
//   - Start() and ForceStop() are the idempotent admin overrides
//   - TriggerPass() runs one manual pass
type Pipeline struct {
	cfg       Config
	fetcher   types.PageFetcher
	directory types.DirectoryLookup

	// Optional dependencies
	logger  types.Logger
	metrics types.MetricsCollector
	relay   *broadcast.Relay

	// Internal components
	orchestrator *collect.Orchestrator
	enricher     *enrich.Enricher
	differ       *diff.Differ
	cache        *cache.Cache
	registry     *broadcast.Registry
	broadcaster  *broadcast.Broadcaster

	// Scheduler state. running is the only state requiring CAS semantics;
	// runMu only guards the handle to the current loop.
	running atomic.Bool
	runMu   sync.Mutex
	curRun  *schedulerRun

	// passMu serializes passes: the scheduled loop holds it for the whole
	// pass, manual triggers TryLock and refuse to overlap.
	passMu sync.Mutex

	// Latest pass counters for the status surface.
	stats atomic.Pointer[types.CollectionStats]
}

// schedulerRun is one activation of the periodic pass loop.
type schedulerRun struct {
	stop chan struct{}
	done chan struct{}
}

// NewPipeline creates a new Pipeline instance with the provided configuration.
//
// Returns a concrete *Pipeline struct following the "accept interfaces,
// return structs" principle. Consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration with parsed durations
//   - fetcher: Upstream page source
//   - dir: Facility directory for coordinate enrichment
//   - opts: Optional configuration (logger, metrics, relay)
//
// Returns:
//   - *Pipeline: Initialized pipeline instance
//   - error: Validation error if configuration or dependencies are invalid
func NewPipeline(cfg *Config, fetcher types.PageFetcher, dir types.DirectoryLookup, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if dir == nil {
		return nil, ErrDirectoryRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &pipelineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	p := &Pipeline{
		cfg:       *cfg,
		fetcher:   fetcher,
		directory: dir,
		logger:    loggerInstance,
		metrics:   metricsCollector,
		relay:     options.relay,
	}

	gate := collect.NewGate(cfg.PermitsPerSecond)
	collector := collect.NewCollector(fetcher, gate, collect.CollectorConfig{
		PageSize:           cfg.PageSize,
		MaxPages:           cfg.MaxPages,
		EmptyPageThreshold: cfg.EmptyPageThreshold,
		InterPageDelay:     cfg.InterPageDelay,
		StopOnShortPage:    cfg.Nationwide,
	}, loggerInstance, metricsCollector)

	p.orchestrator = collect.NewOrchestrator(collector, collect.OrchestratorConfig{
		Partitions:          cfg.Partitions,
		Nationwide:          cfg.Nationwide,
		InterPartitionDelay: cfg.InterPartitionDelay,
	}, loggerInstance, metricsCollector)

	p.enricher = enrich.NewEnricher(dir, loggerInstance)
	p.differ = diff.NewDiffer()
	p.cache = cache.New()
	p.registry = broadcast.NewRegistry()
	p.broadcaster = broadcast.NewBroadcaster(p.registry, loggerInstance, metricsCollector)

	return p, nil
}

// Join registers a subscriber and serves it the cached snapshot immediately
// when the cache is warm.
//
// The first join transitions the scheduler from Stopped to Running, which
// kicks off an immediate pass followed by periodic passes on a fixed delay.
//
// Parameters:
//   - ctx: Context bounding the initial snapshot send
//   - sub: Subscriber connection
//
// Returns:
//   - uint64: Membership id, passed back to Leave
//   - error: ErrSubscriberRequired, or a send failure on the initial
//     snapshot (the subscriber is removed and closed in that case)
func (p *Pipeline) Join(ctx context.Context, sub broadcast.Subscriber) (uint64, error) {
	if sub == nil {
		return 0, ErrSubscriberRequired
	}

	id := p.registry.Join(sub)
	p.metrics.RecordSubscriberCount(p.registry.Count())

	// Serve the warm cache before the next pass lands. Callers must not
	// block waiting for a first pass; a cold cache simply sends nothing.
	if snap, ok := p.cache.Read(); ok {
		if err := sub.Send(ctx, snap.Canonical()); err != nil {
			p.registry.Leave(id)
			_ = sub.Close()
			p.metrics.RecordSubscriberCount(p.registry.Count())

			return 0, fmt.Errorf("failed to send cached snapshot on join: %w", err)
		}
	}

	p.startScheduler()

	p.logger.Info("subscriber joined", "subscriber_id", id, "subscribers", p.registry.Count())

	return id, nil
}

// Leave removes a subscriber. When the registry drains to zero the scheduler
// transitions to Stopped; an in-flight pass still completes and publishes
// once more before the loop exits.
//
// Parameters:
//   - id: Membership id returned by Join
func (p *Pipeline) Leave(id uint64) {
	if p.registry.Leave(id) {
		p.metrics.RecordSubscriberCount(p.registry.Count())
		p.logger.Info("subscriber left", "subscriber_id", id, "subscribers", p.registry.Count())
	}

	// The id may already be gone when the broadcaster pruned the dead
	// connection first; the drain-to-zero transition still belongs to
	// this call.
	if p.registry.Count() == 0 {
		p.stopScheduler(false)
	}
}

// Start starts the periodic scheduler regardless of subscriber count.
// Idempotent: starting a running pipeline is a no-op.
func (p *Pipeline) Start() {
	p.startScheduler()
}

// ForceStop stops the scheduler, closes every subscriber connection, and
// clears both the differ's comparison state and the cached snapshot, so a
// later restart begins as if from a cold cache.
//
// Idempotent: force-stopping a stopped pipeline still closes subscribers and
// clears state. An in-flight pass is allowed to finish and publish once more
// before the state is cleared; ForceStop blocks until the loop has exited and
// any manual pass has released the pass lock.
func (p *Pipeline) ForceStop() {
	p.stopScheduler(true)

	closed := p.registry.CloseAll()
	p.metrics.RecordSubscriberCount(0)

	// Clearing happens under passMu: a manual pass started via TriggerPass
	// is not covered by the loop wait above, and its final publish must not
	// land after the clear.
	p.passMu.Lock()
	p.differ.Reset()
	p.cache.Clear()
	p.passMu.Unlock()

	p.logger.Info("pipeline force-stopped", "subscribers_closed", closed)
}

// TriggerPass runs one manual collection pass.
//
// Works whether or not the scheduler is running, but never overlaps another
// pass of the same pipeline.
//
// Returns:
//   - error: ErrPassInFlight when a pass is already executing
func (p *Pipeline) TriggerPass() error {
	if !p.passMu.TryLock() {
		return ErrPassInFlight
	}
	defer p.passMu.Unlock()

	p.runPass("manual")

	return nil
}

// State returns the current scheduler state.
func (p *Pipeline) State() types.State {
	if p.running.Load() {
		return types.StateRunning
	}

	return types.StateStopped
}

// Status is the pipeline view exposed by the status endpoint.
type Status struct {
	Running       bool                  `json:"running"`
	Subscribers   int                   `json:"subscribers"`
	HasLatestData bool                  `json:"hasLatestData"`
	Stats         types.CollectionStats `json:"stats"`
}

// Status returns the running flag, subscriber count, latest pass counters,
// and whether any snapshot has ever been published.
func (p *Pipeline) Status() Status {
	var stats types.CollectionStats
	if s := p.stats.Load(); s != nil {
		stats = *s
	}

	_, warm := p.cache.Read()

	return Status{
		Running:       p.running.Load(),
		Subscribers:   p.registry.Count(),
		HasLatestData: warm,
		Stats:         stats,
	}
}

// LatestSnapshot returns the cached snapshot, or false when the cache is cold.
func (p *Pipeline) LatestSnapshot() (*types.Snapshot, bool) {
	return p.cache.Read()
}

// SendTimeout returns the configured per-subscriber send bound, for transports
// that construct their own connection wrappers.
func (p *Pipeline) SendTimeout() time.Duration {
	return p.cfg.SendTimeout
}

// startScheduler transitions Stopped to Running exactly once.
func (p *Pipeline) startScheduler() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}

	run := &schedulerRun{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	p.runMu.Lock()
	p.curRun = run
	p.runMu.Unlock()

	p.logger.Info("scheduler state transition",
		"from", types.StateStopped.String(),
		"to", types.StateRunning.String(),
	)
	p.metrics.RecordSchedulerTransition(types.StateRunning)

	go p.loop(run)
}

// stopScheduler transitions Running to Stopped exactly once.
//
// The stop signal cancels the next scheduled invocation but does not
// interrupt a pass already in flight. When wait is true (force stop) the
// call blocks until the loop has exited, so state clearing happens strictly
// after the final publish.
func (p *Pipeline) stopScheduler(wait bool) {
	if !p.running.CompareAndSwap(true, false) {
		return
	}

	p.runMu.Lock()
	run := p.curRun
	p.curRun = nil
	p.runMu.Unlock()

	if run != nil {
		close(run.stop)
		if wait {
			<-run.done
		}
	}

	p.logger.Info("scheduler state transition",
		"from", types.StateRunning.String(),
		"to", types.StateStopped.String(),
	)
	p.metrics.RecordSchedulerTransition(types.StateStopped)

	// A join may have raced the drain-to-zero stop: the registry refilled
	// after the count check but before the CAS. Restart rather than strand
	// live subscribers without a scheduler.
	if !wait && p.registry.Count() > 0 {
		p.startScheduler()
	}
}

// loop executes the immediate first pass, then periodic passes with
// fixed-delay semantics: the interval starts when a pass ends, so a slow
// pass never overlaps the next.
func (p *Pipeline) loop(run *schedulerRun) {
	defer close(run.done)

	timer := time.NewTimer(0) // fire immediately for the first pass
	defer timer.Stop()

	for {
		select {
		case <-run.stop:
			return
		case <-timer.C:
		}

		p.passMu.Lock()
		p.runPass("scheduled")
		p.passMu.Unlock()

		timer.Reset(p.cfg.PassInterval)
	}
}

// runPass executes one full pass: collect, enrich, diff, publish, broadcast.
//
// Callers must hold passMu. Nothing in a pass is fatal: failures end the
// pass with partial (or no) results and the scheduler continues.
func (p *Pipeline) runPass(trigger string) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.PassTimeout)
	defer cancel()

	records, stats := p.orchestrator.Run(ctx)
	defer func() {
		p.stats.Store(&stats)
		p.metrics.RecordPassDuration(time.Since(start).Seconds(), trigger)
	}()

	if stats.PartitionsCompleted == 0 {
		// Total collection failure. Publishing nothing keeps hasLatestData
		// honest on pipelines that have never seen data.
		p.logger.Warn("pass completed no partitions, skipping publish",
			"trigger", trigger,
			"partitions_failed", stats.PartitionsFailed,
		)

		return
	}

	enriched, err := p.enricher.Enrich(ctx, records)
	if err != nil {
		p.logger.Error("enrichment failed, pass ends without publish", "error", err)

		return
	}

	now := time.Now()
	final, changedCount := p.differ.Apply(enriched, now)
	stats.RecordsChanged = changedCount
	p.metrics.RecordChangedFacilities(changedCount)

	snap, err := types.NewSnapshot(final, now)
	if err != nil {
		p.logger.Error("snapshot serialization failed", "error", err)

		return
	}

	changed := p.cache.Publish(snap)
	p.metrics.RecordSnapshotPublish(changed)

	p.logger.Info("pass complete",
		"trigger", trigger,
		"partitions_completed", stats.PartitionsCompleted,
		"partitions_failed", stats.PartitionsFailed,
		"records", stats.RecordsProcessed,
		"changed", changedCount,
		"published", changed,
		"duration", time.Since(start),
	)

	if !changed {
		return
	}

	before := p.registry.Count()
	delivered := p.broadcaster.Broadcast(ctx, snap.Canonical())
	p.logger.Debug("snapshot broadcast", "delivered", delivered)

	// Pruning dead connections can drain the registry without any Leave
	// ever arriving from a transport. An admin-started scheduler with no
	// subscribers is left alone: the stop applies only when the fan-out
	// itself emptied a non-empty registry.
	if before > 0 && p.registry.Count() == 0 {
		p.stopScheduler(false)
	}

	if p.relay != nil {
		if err := p.relay.Publish(snap.Canonical()); err != nil {
			p.logger.Error("snapshot relay failed", "subject", p.relay.Subject(), "error", err)
		}
	}
}
