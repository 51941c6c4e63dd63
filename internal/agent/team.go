package agent

import (
	"context"
	"sync"

	pkgLog "multi-agent-collaboration/pkg/log"
)

// Team is the set of three handles owned by one session. A session runs at
// most one pipeline at a time; the Pool brackets every run with acquire and
// release.
type Team struct {
	Coordinator *Handle
	Research    *Handle
	Creative    *Handle

	sem chan struct{}

	// guarded by Pool.mu
	users   int
	retired bool
}

func NewTeam(personas Personas, responder Responder, l pkgLog.Logger) *Team {
	return &Team{
		Coordinator: NewHandle(personas[IDCoordinator], responder, l),
		Research:    NewHandle(personas[IDResearch], responder, l),
		Creative:    NewHandle(personas[IDCreative], responder, l),
		sem:         make(chan struct{}, 1),
	}
}

// Handle returns the handle for id, or nil for an id outside the fixed set.
func (t *Team) Handle(id ID) *Handle {
	switch id {
	case IDCoordinator:
		return t.Coordinator
	case IDResearch:
		return t.Research
	case IDCreative:
		return t.Creative
	default:
		return nil
	}
}

// ClearAll clears the private history of every handle.
func (t *Team) ClearAll() {
	t.Coordinator.ClearHistory()
	t.Research.ClearHistory()
	t.Creative.ClearHistory()
}

// acquire waits until no other run holds the team or ctx is done.
func (t *Team) acquire(ctx context.Context) error {
	select {
	case t.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Team) release() {
	<-t.sem
}

// Pool hands out one Team per session. A released team that is still held by
// a run, or waited on, stays in the pool until its last user is done, so one
// session never has two teams running at once.
type Pool struct {
	personas  Personas
	responder Responder
	l         pkgLog.Logger

	mu    sync.Mutex
	teams map[string]*Team
}

func NewPool(personas Personas, responder Responder, l pkgLog.Logger) *Pool {
	return &Pool{
		personas:  personas,
		responder: responder,
		l:         l,
		teams:     make(map[string]*Team),
	}
}

// Acquire returns the team of sessionID, creating it on first use, once no
// other run holds it. Every successful Acquire must be paired with Done.
func (p *Pool) Acquire(ctx context.Context, sessionID string) (*Team, error) {
	p.mu.Lock()
	t, ok := p.teams[sessionID]
	if !ok {
		t = NewTeam(p.personas, p.responder, p.l)
		p.teams[sessionID] = t
	}
	t.users++
	p.mu.Unlock()

	if err := t.acquire(ctx); err != nil {
		p.leave(ctx, sessionID, t)
		return nil, err
	}

	p.mu.Lock()
	t.retired = false
	p.mu.Unlock()
	return t, nil
}

// Done ends a run started with Acquire.
func (p *Pool) Done(ctx context.Context, sessionID string, t *Team) {
	t.release()
	p.leave(ctx, sessionID, t)
}

func (p *Pool) leave(ctx context.Context, sessionID string, t *Team) {
	p.mu.Lock()
	t.users--
	drop := t.users == 0 && t.retired && p.teams[sessionID] == t
	if drop {
		delete(p.teams, sessionID)
	}
	p.mu.Unlock()

	if drop {
		p.l.Debugf(ctx, "%s.Done: released retired session=%s", logPrefixPool, sessionID)
	}
}

// Lookup returns the team of sessionID without creating one.
func (p *Pool) Lookup(sessionID string) (*Team, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.teams[sessionID]
	return t, ok
}

// Release forgets the team of sessionID. A team in use is retired instead and
// leaves the pool when its last run is done.
func (p *Pool) Release(ctx context.Context, sessionID string) {
	p.mu.Lock()
	t, ok := p.teams[sessionID]
	busy := ok && t.users > 0
	switch {
	case busy:
		t.retired = true
	case ok:
		delete(p.teams, sessionID)
	}
	p.mu.Unlock()

	switch {
	case busy:
		p.l.Debugf(ctx, "%s.Release: session=%s retired while in use", logPrefixPool, sessionID)
	case ok:
		p.l.Debugf(ctx, "%s.Release: session=%s", logPrefixPool, sessionID)
	}
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.teams)
}
