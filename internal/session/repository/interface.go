package repository

import (
	"context"
	"errors"

	"multi-agent-collaboration/internal/session"
)

var ErrTranscriptNotFound = errors.New("transcript not found")

// Archive persists transcripts of sessions that left memory.
type Archive interface {
	// Save stores snap, replacing any earlier transcript of the same session.
	Save(ctx context.Context, snap session.Snapshot) error

	// Load returns the latest transcript of sessionID or ErrTranscriptNotFound.
	Load(ctx context.Context, sessionID string) (session.Snapshot, error)

	Close() error
}
