package session

import (
	"maps"
	"slices"
	"time"
)

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:           id,
		createdAt:    now,
		lastActiveAt: now,
		context:      make(map[string]any),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createdAt
}

func (s *Session) LastActiveAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActiveAt
}

func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.turns)
}

func (s *Session) Traces() []Trace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.traces)
}

func (s *Session) InternalMessages() []InternalMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.internal)
}

// Context returns a shallow copy of the context map.
func (s *Session) Context() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.context)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		SessionID:        s.id,
		CreatedAt:        s.createdAt,
		LastActiveAt:     s.lastActiveAt,
		Turns:            slices.Clone(s.turns),
		Traces:           slices.Clone(s.traces),
		InternalMessages: slices.Clone(s.internal),
		Context:          maps.Clone(s.context),
	}
}

// mutate runs fn under the session lock and refreshes lastActiveAt.
func (s *Session) mutate(now time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.lastActiveAt = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastActiveAt)
}
