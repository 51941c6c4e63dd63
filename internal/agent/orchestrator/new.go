package orchestrator

import (
	"github.com/google/uuid"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/internal/session"
	"multi-agent-collaboration/internal/session/repository"
	pkgLog "multi-agent-collaboration/pkg/log"
)

// Orchestrator owns no session state; it holds references for the duration of a run.
type Orchestrator struct {
	sessions session.Store
	registry connection.Registry
	pool     *agent.Pool
	archive  repository.Archive
	l        pkgLog.Logger
	newRunID func() string
}

type Option func(*Orchestrator)

// WithArchive persists transcripts of ended and expired sessions.
func WithArchive(a repository.Archive) Option {
	return func(o *Orchestrator) {
		o.archive = a
	}
}

// WithRunIDs overrides run id generation.
func WithRunIDs(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newRunID = fn
	}
}

func New(sessions session.Store, registry connection.Registry, pool *agent.Pool, l pkgLog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sessions: sessions,
		registry: registry,
		pool:     pool,
		l:        l,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
