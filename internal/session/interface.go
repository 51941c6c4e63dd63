package session

import (
	"context"
	"time"

	pkgLog "multi-agent-collaboration/pkg/log"
)

// Store owns every live Session. Safe for concurrent use.
type Store interface {
	// GetOrCreate returns the session for id, creating it on first reference.
	// Concurrent callers for the same id always receive the same *Session.
	GetOrCreate(ctx context.Context, id string) *Session
	Get(id string) (*Session, bool)

	// Remove deletes the session and returns its final snapshot.
	Remove(ctx context.Context, id string) (Snapshot, bool)

	// The append operations never create a session; on a missing id they log
	// and return ErrSessionNotFound.
	AppendTurn(ctx context.Context, id string, role Role, content string) error
	AppendTrace(ctx context.Context, id string, agent, content string) error
	AppendInternalMessage(ctx context.Context, id string, from, to, content string) error
	SetContextValue(ctx context.Context, id string, key string, value any) error

	// SweepExpired removes every session idle for longer than timeout and returns their snapshots.
	SweepExpired(ctx context.Context, timeout time.Duration) []Snapshot
	Len() int
}

// Option configures a Store.
type Option func(*implStore)

// WithClock overrides the clock used for timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *implStore) {
		s.now = now
	}
}

// New creates an empty in-memory Store.
func New(l pkgLog.Logger, opts ...Option) Store {
	s := &implStore{
		l:        l,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
