package orchestrator

import (
	"context"
	"errors"

	"multi-agent-collaboration/internal/session"
	"multi-agent-collaboration/internal/session/repository"
)

// History returns the live session, or its archived transcript once it has left memory.
func (o *Orchestrator) History(ctx context.Context, sessionID string) (session.Snapshot, error) {
	if sess, ok := o.sessions.Get(sessionID); ok {
		return sess.Snapshot(), nil
	}
	if o.archive == nil {
		return session.Snapshot{}, session.ErrSessionNotFound
	}

	snap, err := o.archive.Load(ctx, sessionID)
	if errors.Is(err, repository.ErrTranscriptNotFound) {
		return session.Snapshot{}, session.ErrSessionNotFound
	}
	return snap, err
}

// EndSession drops the session's channels before removing its state, so no
// frame can reach an observer of a destroyed session.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) bool {
	dropped := o.registry.DropSession(ctx, sessionID)
	snap, ok := o.sessions.Remove(ctx, sessionID)
	o.pool.Release(ctx, sessionID)

	if ok {
		o.archiveSnapshot(ctx, snap)
	}

	o.l.Infof(ctx, "%s: session=%s channels=%d state=%t", LogPrefixEndSession, sessionID, dropped, ok)
	return ok || dropped > 0
}

// Expire is the sweeper hook for a session already removed from the store.
func (o *Orchestrator) Expire(ctx context.Context, snap session.Snapshot) {
	dropped := o.registry.DropSession(ctx, snap.SessionID)
	o.pool.Release(ctx, snap.SessionID)
	o.archiveSnapshot(ctx, snap)

	o.l.Infof(ctx, "%s: session=%s channels=%d", LogPrefixExpire, snap.SessionID, dropped)
}

func (o *Orchestrator) archiveSnapshot(ctx context.Context, snap session.Snapshot) {
	if o.archive == nil {
		return
	}
	if err := o.archive.Save(ctx, snap); err != nil {
		o.l.Errorf(ctx, "internal.agent.orchestrator.archiveSnapshot: session=%s: %v", snap.SessionID, err)
	}
}
