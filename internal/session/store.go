package session

import (
	"context"
	"sync"
	"time"

	pkgLog "multi-agent-collaboration/pkg/log"
)

type implStore struct {
	l   pkgLog.Logger
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func (s *implStore) GetOrCreate(ctx context.Context, id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = newSession(id, s.now())
	s.sessions[id] = sess
	s.l.Debugf(ctx, "%s.GetOrCreate: created session=%s", logPrefixStore, id)
	return sess
}

func (s *implStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *implStore) Remove(ctx context.Context, id string) (Snapshot, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return Snapshot{}, false
	}
	s.l.Debugf(ctx, "%s.Remove: session=%s", logPrefixStore, id)
	return sess.Snapshot(), true
}

func (s *implStore) AppendTurn(ctx context.Context, id string, role Role, content string) error {
	return s.update(ctx, "AppendTurn", id, func(sess *Session, now time.Time) {
		sess.turns = append(sess.turns, Turn{Role: role, Content: content, Timestamp: now})
	})
}

func (s *implStore) AppendTrace(ctx context.Context, id string, agent, content string) error {
	return s.update(ctx, "AppendTrace", id, func(sess *Session, now time.Time) {
		sess.traces = append(sess.traces, Trace{Agent: agent, Content: content, Timestamp: now})
	})
}

func (s *implStore) AppendInternalMessage(ctx context.Context, id string, from, to, content string) error {
	return s.update(ctx, "AppendInternalMessage", id, func(sess *Session, now time.Time) {
		sess.internal = append(sess.internal, InternalMessage{From: from, To: to, Content: content, Timestamp: now})
	})
}

func (s *implStore) SetContextValue(ctx context.Context, id string, key string, value any) error {
	return s.update(ctx, "SetContextValue", id, func(sess *Session, now time.Time) {
		sess.context[key] = value
	})
}

// update holds the store read lock for the whole mutation so a concurrent
// sweep cannot remove the session halfway through.
func (s *implStore) update(ctx context.Context, op, id string, fn func(*Session, time.Time)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.l.Warnf(ctx, "%s.%s: session=%s: %v", logPrefixStore, op, id, ErrSessionNotFound)
		return ErrSessionNotFound
	}

	now := s.now()
	sess.mutate(now, func() { fn(sess, now) })
	return nil
}

func (s *implStore) SweepExpired(ctx context.Context, timeout time.Duration) []Snapshot {
	now := s.now()

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.idleSince(now) > timeout {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	snapshots := make([]Snapshot, 0, len(expired))
	for _, sess := range expired {
		snapshots = append(snapshots, sess.Snapshot())
	}
	if len(snapshots) > 0 {
		s.l.Infof(ctx, "%s.SweepExpired: removed %d session(s) idle longer than %s", logPrefixStore, len(snapshots), timeout)
	}
	return snapshots
}

func (s *implStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
