package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"artisanhub/backend/pkg/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS auth_sessions (
	id         TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	provider   TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	workflow_id TEXT NOT NULL,
	kind        TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	message     TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_owner_idx ON submissions (owner, created_at DESC);
`

// SQLiteStore implements Repository on a local SQLite file. It is meant for
// development; timestamps are stored as unix nanoseconds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// EnsureSchema creates missing tables.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSession inserts or replaces a session.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *models.AuthSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (id, token, email, provider, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET token = excluded.token, email = excluded.email,
			provider = excluded.provider, expires_at = excluded.expires_at`,
		session.ID, session.Token, session.Email, session.Provider,
		session.CreatedAt.UnixNano(), session.ExpiresAt.UnixNano())
	return err
}

// GetSession retrieves a session by its ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*models.AuthSession, error) {
	var session models.AuthSession
	var created, expires int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, token, email, provider, created_at, expires_at FROM auth_sessions WHERE id = ?", id).
		Scan(&session.ID, &session.Token, &session.Email, &session.Provider, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	session.CreatedAt = time.Unix(0, created).UTC()
	session.ExpiresAt = time.Unix(0, expires).UTC()
	return &session, nil
}

// DeleteSession removes a session.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM auth_sessions WHERE id = ?", id)
	return err
}

// RecordSubmission appends a submission attempt.
func (s *SQLiteStore) RecordSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, owner, workflow_id, kind, outcome, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Owner, sub.WorkflowID, string(sub.Kind), string(sub.Outcome), sub.Message, sub.CreatedAt.UnixNano())
	return err
}

// ListSubmissions returns an owner's attempts, newest first.
func (s *SQLiteStore) ListSubmissions(ctx context.Context, owner string) ([]*models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, workflow_id, kind, outcome, message, created_at
		FROM submissions WHERE owner = ? ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		var sub models.Submission
		var kind, outcome string
		var created int64
		if err := rows.Scan(&sub.ID, &sub.Owner, &sub.WorkflowID, &kind, &outcome, &sub.Message, &created); err != nil {
			return nil, err
		}
		sub.Kind = models.WorkflowKind(kind)
		sub.Outcome = models.SubmissionOutcome(outcome)
		sub.CreatedAt = time.Unix(0, created).UTC()
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
