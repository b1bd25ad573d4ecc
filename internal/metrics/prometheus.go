package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/bedwatch/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Registration is lazy: collectors are registered on first use so that
// constructing the collector never panics on duplicate registration in tests.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	schedulerRunning prometheus.Gauge
	subscribers      prometheus.Gauge
	passDuration     *prometheus.HistogramVec
	pageFetches      *prometheus.CounterVec
	partitionResults *prometheus.CounterVec
	recordsProcessed prometheus.Counter
	snapshotPublish  *prometheus.CounterVec
	changedFacils    prometheus.Histogram
	broadcastSends   *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "bedwatch" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "bedwatch"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.schedulerRunning = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "running",
			Help:      "Whether the periodic pass scheduler is running (1) or stopped (0).",
		})

		p.subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "subscribers_current",
			Help:      "Current number of live subscribers.",
		})

		p.passDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "pipeline",
			Name:      "pass_duration_seconds",
			Help:      "Duration of collection passes in seconds by trigger.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms .. ~3.4m
		}, []string{"trigger"})

		p.pageFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "collect",
			Name:      "page_fetches_total",
			Help:      "Total page fetch attempts by partition and outcome.",
		}, []string{"partition", "outcome"})

		p.partitionResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "collect",
			Name:      "partition_results_total",
			Help:      "Total partition collection outcomes.",
		}, []string{"partition", "result"})

		p.recordsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "collect",
			Name:      "records_processed_total",
			Help:      "Total raw records accumulated across all passes.",
		})

		p.snapshotPublish = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "snapshot",
			Name:      "publishes_total",
			Help:      "Total snapshot publish attempts by result (changed,unchanged).",
		}, []string{"result"})

		p.changedFacils = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "snapshot",
			Name:      "changed_facilities",
			Help:      "Facilities stamped as new or changed per pass.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		})

		p.broadcastSends = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "sends_total",
			Help:      "Total fan-out send outcomes (delivered,pruned).",
		}, []string{"result"})

		for _, c := range []prometheus.Collector{
			p.schedulerRunning, p.subscribers, p.passDuration, p.pageFetches,
			p.partitionResults, p.recordsProcessed, p.snapshotPublish,
			p.changedFacils, p.broadcastSends,
		} {
			// AlreadyRegisteredError is tolerated so shared registries work.
			_ = p.reg.Register(c)
		}
	})
}

// RecordSchedulerTransition sets the scheduler running gauge.
func (p *PrometheusCollector) RecordSchedulerTransition(to types.State) {
	p.ensureRegistered()
	if to == types.StateRunning {
		p.schedulerRunning.Set(1)
	} else {
		p.schedulerRunning.Set(0)
	}
}

// RecordSubscriberCount sets the subscriber gauge.
func (p *PrometheusCollector) RecordSubscriberCount(count int) {
	p.ensureRegistered()
	p.subscribers.Set(float64(count))
}

// RecordPassDuration observes a pass duration by trigger.
func (p *PrometheusCollector) RecordPassDuration(seconds float64, trigger string) {
	p.ensureRegistered()
	p.passDuration.WithLabelValues(trigger).Observe(seconds)
}

// RecordPageFetch counts one page fetch attempt.
func (p *PrometheusCollector) RecordPageFetch(partition, outcome string) {
	p.ensureRegistered()
	p.pageFetches.WithLabelValues(partition, outcome).Inc()
}

// RecordPartitionResult counts one partition outcome.
func (p *PrometheusCollector) RecordPartitionResult(partition string, success bool) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "failure"
	}
	p.partitionResults.WithLabelValues(partition, result).Inc()
}

// RecordRecordsProcessed counts raw records accumulated by a pass.
func (p *PrometheusCollector) RecordRecordsProcessed(count int) {
	p.ensureRegistered()
	p.recordsProcessed.Add(float64(count))
}

// RecordSnapshotPublish counts a publish attempt by result.
func (p *PrometheusCollector) RecordSnapshotPublish(changed bool) {
	p.ensureRegistered()
	result := "unchanged"
	if changed {
		result = "changed"
	}
	p.snapshotPublish.WithLabelValues(result).Inc()
}

// RecordChangedFacilities observes the per-pass changed-record count.
func (p *PrometheusCollector) RecordChangedFacilities(count int) {
	p.ensureRegistered()
	p.changedFacils.Observe(float64(count))
}

// RecordBroadcast counts fan-out outcomes.
func (p *PrometheusCollector) RecordBroadcast(delivered, pruned int) {
	p.ensureRegistered()
	p.broadcastSends.WithLabelValues("delivered").Add(float64(delivered))
	p.broadcastSends.WithLabelValues("pruned").Add(float64(pruned))
}
