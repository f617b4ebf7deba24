package models

import (
	"time"
)

// WorkflowKind identifies which guided form a session runs.
type WorkflowKind string

const (
	WorkflowPostJob     WorkflowKind = "post-job"
	WorkflowHireArtisan WorkflowKind = "hire-artisan"
)

// Valid reports whether k is a known workflow kind.
func (k WorkflowKind) Valid() bool {
	return k == WorkflowPostJob || k == WorkflowHireArtisan
}

// SubmissionOutcome is the terminal state of one submit attempt.
type SubmissionOutcome string

const (
	OutcomeSucceeded SubmissionOutcome = "succeeded"
	OutcomeRejected  SubmissionOutcome = "rejected"
	OutcomeFailed    SubmissionOutcome = "failed"
)

// Submission is one recorded attempt to send a workflow to the marketplace.
type Submission struct {
	ID         string            `json:"id"`
	Owner      string            `json:"owner"`       // Auth session that ran the workflow
	WorkflowID string            `json:"workflow_id"` // Registry session id
	Kind       WorkflowKind      `json:"kind"`
	Outcome    SubmissionOutcome `json:"outcome"`
	Message    string            `json:"message,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// AuthSession maps a browser session cookie to the marketplace bearer token.
type AuthSession struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	Email     string    `json:"email,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *AuthSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
