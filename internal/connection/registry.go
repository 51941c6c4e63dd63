package connection

import (
	"context"
	"sort"
	"sync"
	"time"

	pkgLog "multi-agent-collaboration/pkg/log"
)

type implRegistry struct {
	l   pkgLog.Logger
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]map[string]entry // sessionID -> agentID -> entry
}

type target struct {
	agentID string
	ch      Channel
}

func (r *implRegistry) Connect(ctx context.Context, sessionID string, ch Channel, agentID string) {
	r.mu.Lock()
	agents, ok := r.sessions[sessionID]
	if !ok {
		agents = make(map[string]entry)
		r.sessions[sessionID] = agents
	}
	_, replaced := agents[agentID]
	agents[agentID] = entry{ch: ch, connectedAt: r.now()}
	r.mu.Unlock()

	if replaced {
		r.l.Infof(ctx, "%s: replaced channel session=%s agent=%q", logPrefixConnect, sessionID, agentID)
		return
	}
	r.l.Debugf(ctx, "%s: session=%s agent=%q", logPrefixConnect, sessionID, agentID)
}

func (r *implRegistry) Disconnect(ctx context.Context, sessionID, agentID string) {
	r.mu.Lock()
	removed := r.removeLocked(sessionID, agentID, nil)
	r.mu.Unlock()

	if removed {
		r.l.Debugf(ctx, "%s: session=%s agent=%q", logPrefixDisconnect, sessionID, agentID)
	}
}

func (r *implRegistry) Release(ctx context.Context, sessionID, agentID string, ch Channel) {
	r.mu.Lock()
	removed := r.removeLocked(sessionID, agentID, ch)
	r.mu.Unlock()

	if removed {
		r.l.Debugf(ctx, "%s: released session=%s agent=%q", logPrefixDisconnect, sessionID, agentID)
	}
}

// removeLocked deletes the entry under the key. A non-nil ch restricts removal
// to the case where that exact channel is still registered.
func (r *implRegistry) removeLocked(sessionID, agentID string, ch Channel) bool {
	agents, ok := r.sessions[sessionID]
	if !ok {
		return false
	}
	e, ok := agents[agentID]
	if !ok {
		return false
	}
	if ch != nil && e.ch != ch {
		return false
	}
	delete(agents, agentID)
	if len(agents) == 0 {
		delete(r.sessions, sessionID)
	}
	return true
}

func (r *implRegistry) IsConnected(sessionID, agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[sessionID][agentID]
	return ok
}

func (r *implRegistry) Send(ctx context.Context, sessionID string, msg Message, agentID string) {
	r.mu.RLock()
	e, ok := r.sessions[sessionID][agentID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	r.deliver(ctx, sessionID, target{agentID: agentID, ch: e.ch}, msg)
}

func (r *implRegistry) BroadcastToSession(ctx context.Context, sessionID string, msg Message) {
	for _, t := range r.sessionTargets(sessionID) {
		r.deliver(ctx, sessionID, t, msg)
	}
}

func (r *implRegistry) Broadcast(ctx context.Context, msg Message) {
	type sessionTarget struct {
		sessionID string
		ch        Channel
	}

	r.mu.RLock()
	targets := make([]sessionTarget, 0, len(r.sessions))
	for sessionID, agents := range r.sessions {
		if e, ok := agents[BroadcastKey]; ok {
			targets = append(targets, sessionTarget{sessionID: sessionID, ch: e.ch})
		}
	}
	r.mu.RUnlock()

	for _, t := range targets {
		r.deliver(ctx, t.sessionID, target{agentID: BroadcastKey, ch: t.ch}, msg)
	}
}

func (r *implRegistry) DropSession(ctx context.Context, sessionID string) int {
	r.mu.Lock()
	agents := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	for agentID, e := range agents {
		if err := e.ch.Close(); err != nil {
			r.l.Debugf(ctx, "%s: close session=%s agent=%q: %v", logPrefixDrop, sessionID, agentID, err)
		}
	}
	if len(agents) > 0 {
		r.l.Infof(ctx, "%s: dropped %d channel(s) of session=%s", logPrefixDrop, len(agents), sessionID)
	}
	return len(agents)
}

func (r *implRegistry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{Sessions: len(r.sessions)}
	for _, agents := range r.sessions {
		for agentID := range agents {
			if agentID == BroadcastKey {
				s.BroadcastChannels++
			} else {
				s.PrivateChannels++
			}
		}
	}
	return s
}

// sessionTargets snapshots the channels of a session: the broadcast channel
// first, then private channels ordered by agent id.
func (r *implRegistry) sessionTargets(sessionID string) []target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := r.sessions[sessionID]
	targets := make([]target, 0, len(agents))
	for agentID, e := range agents {
		targets = append(targets, target{agentID: agentID, ch: e.ch})
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].agentID < targets[j].agentID
	})
	return targets
}

// deliver writes msg outside the registry lock. On failure the entry is
// evicted, unless it has already been replaced by a newer channel.
func (r *implRegistry) deliver(ctx context.Context, sessionID string, t target, msg Message) deliveryResult {
	msg.Timestamp = r.now().UnixMilli()

	err := t.ch.Send(ctx, msg)
	if err == nil {
		return resultDelivered
	}

	r.mu.Lock()
	evicted := r.removeLocked(sessionID, t.agentID, t.ch)
	r.mu.Unlock()

	if !evicted {
		r.l.Debugf(ctx, "%s: stale channel failed session=%s agent=%q: %v", logPrefixDeliver, sessionID, t.agentID, err)
		return resultAbsent
	}

	r.l.Warnf(ctx, "%s: evicted session=%s agent=%q type=%s: %v", logPrefixDeliver, sessionID, t.agentID, msg.Type, err)
	return resultEvicted
}
