package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"artisanhub/backend/pkg/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS auth_sessions (
	id         TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	provider   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	workflow_id TEXT NOT NULL,
	kind        TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	message     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS submissions_owner_idx ON submissions (owner, created_at DESC);
`

// PostgresStore is a PostgreSQL implementation of Repository.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates missing tables.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// SaveSession inserts or replaces a session.
func (s *PostgresStore) SaveSession(ctx context.Context, session *models.AuthSession) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO auth_sessions (id, token, email, provider, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, email = EXCLUDED.email,
			provider = EXCLUDED.provider, expires_at = EXCLUDED.expires_at`,
		session.ID, session.Token, session.Email, session.Provider, session.CreatedAt, session.ExpiresAt)
	return err
}

// GetSession retrieves a session by its ID.
func (s *PostgresStore) GetSession(ctx context.Context, id string) (*models.AuthSession, error) {
	var session models.AuthSession
	err := s.db.QueryRow(ctx,
		"SELECT id, token, email, provider, created_at, expires_at FROM auth_sessions WHERE id = $1", id).
		Scan(&session.ID, &session.Token, &session.Email, &session.Provider, &session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session.
func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM auth_sessions WHERE id = $1", id)
	return err
}

// RecordSubmission appends a submission attempt.
func (s *PostgresStore) RecordSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	return s.db.QueryRow(ctx, `
		INSERT INTO submissions (id, owner, workflow_id, kind, outcome, message)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
		sub.ID, sub.Owner, sub.WorkflowID, string(sub.Kind), string(sub.Outcome), sub.Message).
		Scan(&sub.CreatedAt)
}

// ListSubmissions returns an owner's attempts, newest first.
func (s *PostgresStore) ListSubmissions(ctx context.Context, owner string) ([]*models.Submission, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner, workflow_id, kind, outcome, message, created_at
		FROM submissions WHERE owner = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		var sub models.Submission
		var kind, outcome string
		if err := rows.Scan(&sub.ID, &sub.Owner, &sub.WorkflowID, &kind, &outcome, &sub.Message, &sub.CreatedAt); err != nil {
			return nil, err
		}
		sub.Kind = models.WorkflowKind(kind)
		sub.Outcome = models.SubmissionOutcome(outcome)
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
