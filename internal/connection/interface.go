package connection

import (
	"context"
	"time"

	pkgLog "multi-agent-collaboration/pkg/log"
)

// Channel is one live outbound observer endpoint.
// Implementations must be comparable (pointer receivers) and safe for concurrent Send.
type Channel interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// Registry multiplexes outbound frames onto the observer channels of each session.
// An empty agentID addresses the session's broadcast channel. No method returns
// a delivery error: a failed write evicts the entry and the message is dropped.
type Registry interface {
	// Connect registers ch, replacing any channel already held under the same key.
	Connect(ctx context.Context, sessionID string, ch Channel, agentID string)

	// Disconnect removes the entry under the key. Absent keys are a no-op.
	Disconnect(ctx context.Context, sessionID, agentID string)

	// Release removes the entry only while ch is still the registered channel.
	Release(ctx context.Context, sessionID, agentID string, ch Channel)

	IsConnected(sessionID, agentID string) bool

	// Send delivers msg to exactly one key.
	Send(ctx context.Context, sessionID string, msg Message, agentID string)

	// BroadcastToSession delivers msg to the broadcast channel and every private agent channel of a session.
	BroadcastToSession(ctx context.Context, sessionID string, msg Message)

	// Broadcast delivers msg to every registered broadcast channel.
	Broadcast(ctx context.Context, msg Message)

	// DropSession closes and removes every channel of a session and returns how many were held.
	DropSession(ctx context.Context, sessionID string) int

	Stats() Stats
}

// Option configures a Registry.
type Option func(*implRegistry)

// WithClock overrides the clock used for connection times and frame timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *implRegistry) {
		r.now = now
	}
}

// New creates an empty Registry.
func New(l pkgLog.Logger, opts ...Option) Registry {
	r := &implRegistry{
		l:        l,
		now:      time.Now,
		sessions: make(map[string]map[string]entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
