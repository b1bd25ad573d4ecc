package bedwatch

import (
	"github.com/arloliu/bedwatch/broadcast"
	"github.com/arloliu/bedwatch/types"
)

// Option configures a Pipeline with optional dependencies.
type Option func(*pipelineOptions)

// pipelineOptions holds optional Pipeline configuration.
type pipelineOptions struct {
	logger  types.Logger
	metrics types.MetricsCollector
	relay   *broadcast.Relay
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewPipeline
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	p, err := bedwatch.NewPipeline(&cfg, fetcher, dir, bedwatch.WithLogger(logger))
func WithLogger(logger types.Logger) Option {
	return func(o *pipelineOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewPipeline
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *pipelineOptions) {
		o.metrics = metrics
	}
}

// WithRelay attaches a NATS relay that mirrors every changed snapshot to a
// subject, alongside the WebSocket fan-out.
//
// Relay failures are logged and never affect subscribers; the relay does not
// count toward the subscriber reference count that drives the scheduler.
//
// Parameters:
//   - relay: Initialized snapshot relay
//
// Returns:
//   - Option: Functional option for NewPipeline
//
// Example:
//
//	nc, _ := nats.Connect(nats.DefaultURL)
//	relay := broadcast.NewRelay(nc, "bedwatch.snapshots")
//	p, err := bedwatch.NewPipeline(&cfg, fetcher, dir, bedwatch.WithRelay(relay))
func WithRelay(relay *broadcast.Relay) Option {
	return func(o *pipelineOptions) {
		o.relay = relay
	}
}
