package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// WSSubscriber adapts a WebSocket connection to the Subscriber interface.
//
// Sends are serialized by a mutex: the snapshot fan-out and the join-time
// cached-snapshot send may race on the same connection.
type WSSubscriber struct {
	mu          sync.Mutex
	conn        *websocket.Conn
	sendTimeout time.Duration
}

var _ Subscriber = (*WSSubscriber)(nil)

// NewWSSubscriber wraps an accepted WebSocket connection.
//
// Parameters:
//   - conn: Accepted connection
//   - sendTimeout: Upper bound per send, so one stalled peer cannot hold the
//     fan-out loop (defaults to 5s when zero)
func NewWSSubscriber(conn *websocket.Conn, sendTimeout time.Duration) *WSSubscriber {
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}

	return &WSSubscriber{conn: conn, sendTimeout: sendTimeout}
}

// Send writes one text message to the peer.
func (w *WSSubscriber) Send(ctx context.Context, payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	return w.conn.Write(ctx, websocket.MessageText, payload)
}

// Close closes the connection with a normal closure status.
func (w *WSSubscriber) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "")
}
