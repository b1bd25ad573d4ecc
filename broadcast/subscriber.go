// Package broadcast tracks live subscriber connections and pushes snapshots
// to all of them.
package broadcast

import "context"

// Subscriber is one live downstream connection.
//
// Implementations must tolerate Close being called more than once and being
// called concurrently with Send.
type Subscriber interface {
	// Send pushes one payload to the subscriber. A non-nil error marks the
	// connection dead; the broadcaster prunes it without retry.
	Send(ctx context.Context, payload []byte) error

	// Close releases the underlying connection.
	Close() error
}
