package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"multi-agent-collaboration/internal/session"
	"multi-agent-collaboration/internal/session/repository"
	pkgLog "multi-agent-collaboration/pkg/log"
)

type implArchive struct {
	db *sql.DB
	l  pkgLog.Logger
}

// New opens (or creates) the transcript database at path.
// Parent directories are created if needed.
func New(ctx context.Context, path string, l pkgLog.Logger) (repository.Archive, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	a := &implArchive{db: db, l: l}
	if err := a.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	l.Infof(ctx, "internal.session.repository.sqlite.New: transcript archive at %s", path)
	return a, nil
}

func (a *implArchive) createSchema(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS transcripts (
			session_id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			last_active_at INTEGER NOT NULL,
			archived_at INTEGER NOT NULL,
			turn_count INTEGER NOT NULL,
			body TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_transcripts_archived_at
			ON transcripts(archived_at);
	`)
	return err
}

func (a *implArchive) Save(ctx context.Context, snap session.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding transcript: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO transcripts (session_id, created_at, last_active_at, archived_at, turn_count, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			last_active_at = excluded.last_active_at,
			archived_at = excluded.archived_at,
			turn_count = excluded.turn_count,
			body = excluded.body
	`,
		snap.SessionID,
		snap.CreatedAt.UnixMilli(),
		snap.LastActiveAt.UnixMilli(),
		time.Now().UnixMilli(),
		len(snap.Turns),
		string(body),
	)
	if err != nil {
		return fmt.Errorf("saving transcript %s: %w", snap.SessionID, err)
	}
	return nil
}

func (a *implArchive) Load(ctx context.Context, sessionID string) (session.Snapshot, error) {
	var body string
	err := a.db.QueryRowContext(ctx,
		`SELECT body FROM transcripts WHERE session_id = ?`, sessionID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, repository.ErrTranscriptNotFound
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("loading transcript %s: %w", sessionID, err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("decoding transcript %s: %w", sessionID, err)
	}
	return snap, nil
}

func (a *implArchive) Close() error {
	return a.db.Close()
}
