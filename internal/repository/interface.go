package repository

import (
	"context"
	"errors"

	"artisanhub/backend/pkg/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SessionStore keeps the marketplace bearer token behind each browser session.
type SessionStore interface {
	// SaveSession inserts or replaces a session.
	SaveSession(ctx context.Context, session *models.AuthSession) error
	// GetSession retrieves a session by its ID.
	GetSession(ctx context.Context, id string) (*models.AuthSession, error)
	// DeleteSession removes a session. Deleting an unknown id is not an error.
	DeleteSession(ctx context.Context, id string) error
}

// SubmissionLog records every workflow submission attempt.
type SubmissionLog interface {
	// RecordSubmission appends an attempt.
	RecordSubmission(ctx context.Context, sub *models.Submission) error
	// ListSubmissions returns an owner's attempts, newest first.
	ListSubmissions(ctx context.Context, owner string) ([]*models.Submission, error)
}

// Repository is the full persistence surface of the service.
type Repository interface {
	SessionStore
	SubmissionLog
	// EnsureSchema creates missing tables.
	EnsureSchema(ctx context.Context) error
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Close releases the underlying connections.
	Close() error
}
