package orchestrator

import (
	"context"

	"multi-agent-collaboration/internal/session"
)

// UseCase is the collaboration surface consumed by the delivery layers.
type UseCase interface {
	// Run executes the three-stage pipeline for one user message.
	Run(ctx context.Context, sessionID, message string) (Result, error)

	// RunDirect sends message to a single agent without running the others.
	RunDirect(ctx context.Context, sessionID, agentID, message string) (string, error)

	// ClearAgent drops the private history of one agent of a session.
	ClearAgent(ctx context.Context, sessionID, agentID string) error

	// History returns the live session, falling back to its archived transcript.
	History(ctx context.Context, sessionID string) (session.Snapshot, error)

	// EndSession tears a session down and reports whether anything existed.
	EndSession(ctx context.Context, sessionID string) bool

	// Expire finishes the teardown of a session removed by the sweeper.
	Expire(ctx context.Context, snap session.Snapshot)
}
