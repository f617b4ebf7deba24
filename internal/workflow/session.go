package workflow

import (
	"errors"
	"sync"
	"time"

	"artisanhub/backend/pkg/models"
)

// Sentinel errors for session lookup and submission.
var (
	ErrSessionNotFound    = errors.New("workflow session not found")
	ErrSubmissionInFlight = errors.New("workflow submission already in flight")
)

// Session is one running workflow. All access goes through its methods.
type Session struct {
	ID        string
	Owner     string
	Kind      models.WorkflowKind
	ArtisanID string // set for hire-artisan runs
	CreatedAt time.Time

	mu         sync.Mutex
	state      State
	submitting bool
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Update merges p into the session state.
func (s *Session) Update(p Patch) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Update(p)
	return s.state.Clone()
}

// SetAttachment stores a file in slot.
func (s *Session) SetAttachment(slot int, a *Attachment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SetAttachment(slot, a)
}

// ClearAttachment empties slot.
func (s *Session) ClearAttachment(slot int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ClearAttachment(slot)
}

// Reset empties the session state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
}

// BeginSubmit marks the session as submitting and returns the state to send.
// A second call before EndSubmit fails with ErrSubmissionInFlight.
func (s *Session) BeginSubmit() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return State{}, ErrSubmissionInFlight
	}
	s.submitting = true
	return s.state.Clone(), nil
}

// EndSubmit clears the in-flight flag. On success the state is reset.
func (s *Session) EndSubmit(succeeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if succeeded {
		s.state.Reset()
	}
}

// Submitting reports whether a submit is in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Registry owns the live sessions of a process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Start creates a session with empty state.
func (r *Registry) Start(owner string, kind models.WorkflowKind, artisanID string) *Session {
	s := &Session{
		ID:        newSessionID(),
		Owner:     owner,
		Kind:      kind,
		ArtisanID: artisanID,
		CreatedAt: r.now(),
		state:     NewState(kind),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session id when it belongs to owner.
func (r *Registry) Get(owner, id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || s.Owner != owner {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// RemoveOwner drops every session of owner and returns how many were removed.
func (r *Registry) RemoveOwner(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.Owner == owner {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Sweep removes sessions older than maxAge that are not submitting.
func (r *Registry) Sweep(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) && !s.Submitting() {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
