package broadcast

import (
	"context"

	"github.com/arloliu/bedwatch/types"
)

// Broadcaster fans one payload out to every registered subscriber.
//
// Broadcast is only invoked when the snapshot cache reports a change, never
// on every pass.
type Broadcaster struct {
	registry *Registry
	logger   types.Logger
	metrics  types.MetricsCollector
}

// NewBroadcaster creates a broadcaster over the given registry.
func NewBroadcaster(registry *Registry, logger types.Logger, metrics types.MetricsCollector) *Broadcaster {
	return &Broadcaster{registry: registry, logger: logger, metrics: metrics}
}

// Broadcast sends payload to a point-in-time copy of the membership.
//
// Any connection found closed or erroring during send is silently removed
// and closed; there is no retry. The next broadcast naturally resyncs a
// reconnecting subscriber, which receives the cached snapshot on join.
//
// Parameters:
//   - ctx: Context bounding the sends
//   - payload: Canonical snapshot serialization
//
// Returns:
//   - int: Number of subscribers the payload was delivered to
func (b *Broadcaster) Broadcast(ctx context.Context, payload []byte) int {
	delivered := 0
	pruned := 0

	for _, m := range b.registry.members() {
		if err := m.sub.Send(ctx, payload); err != nil {
			if b.registry.Leave(m.id) {
				_ = m.sub.Close()
				pruned++
			}
			b.logger.Debug("pruned dead subscriber", "subscriber_id", m.id, "error", err)

			continue
		}

		delivered++
	}

	b.metrics.RecordBroadcast(delivered, pruned)
	b.metrics.RecordSubscriberCount(b.registry.Count())

	if pruned > 0 {
		b.logger.Info("broadcast complete", "delivered", delivered, "pruned", pruned)
	}

	return delivered
}
