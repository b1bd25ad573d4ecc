package broadcast

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// Relay mirrors each changed snapshot to a NATS subject for machine
// consumers that prefer a broker over a WebSocket connection.
//
// The relay is not a registry member: it never counts toward the subscriber
// reference count that drives the scheduler, and relay failures never affect
// WebSocket fan-out.
type Relay struct {
	conn    *nats.Conn
	subject string
}

// NewRelay creates a snapshot relay publishing to subject.
func NewRelay(conn *nats.Conn, subject string) *Relay {
	return &Relay{conn: conn, subject: subject}
}

// Publish sends one snapshot payload to the relay subject.
func (r *Relay) Publish(payload []byte) error {
	if err := r.conn.Publish(r.subject, payload); err != nil {
		return fmt.Errorf("failed to publish snapshot to %s: %w", r.subject, err)
	}

	return nil
}

// Subject returns the subject the relay publishes to.
func (r *Relay) Subject() string {
	return r.subject
}
