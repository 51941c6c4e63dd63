package connection

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSChannel adapts a gorilla websocket connection to Channel.
// Writes are serialized; gorilla allows one concurrent writer.
type WSChannel struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func NewWSChannel(conn *websocket.Conn, writeTimeout time.Duration) *WSChannel {
	return &WSChannel{conn: conn, writeTimeout: writeTimeout}
}

func (c *WSChannel) Send(ctx context.Context, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}

	var deadline time.Time
	if c.writeTimeout > 0 {
		deadline = time.Now().Add(c.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)

	return c.conn.WriteJSON(msg)
}

// CloseWith sends a close frame with code and reason, then closes the socket.
func (c *WSChannel) CloseWith(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *WSChannel) Close() error {
	return c.CloseWith(websocket.CloseGoingAway, "session closed")
}
