package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"artisanhub/backend/internal/marketplace"
	"artisanhub/backend/internal/repository"
	"artisanhub/backend/internal/submission"
	"artisanhub/backend/internal/workflow"
	"artisanhub/backend/pkg/models"
)

// Errors returned by WorkflowService besides the workflow and marketplace ones.
var (
	ErrUnknownKind  = errors.New("unknown workflow kind")
	ErrUnknownStep  = errors.New("unknown workflow step")
	ErrLastStep     = errors.New("no step after review; submit instead")
	ErrStepLocked   = errors.New("earlier steps are incomplete")
	ErrInvalidSlot  = errors.New("attachment slot out of range")
	ErrFileTooLarge = errors.New("attachment exceeds the size limit")
)

// DefaultMaxAttachmentBytes caps a single attachment.
const DefaultMaxAttachmentBytes = 5 << 20

// View is a snapshot of a workflow session as a step screen renders it.
type View struct {
	ID        string                  `json:"id"`
	Kind      models.WorkflowKind     `json:"kind"`
	ArtisanID string                  `json:"artisanId,omitempty"`
	State     workflow.State          `json:"state"`
	Current   int                     `json:"current"`
	Steps     []workflow.StepProgress `json:"steps"`
}

// Result is the outcome of a successful submit.
type Result struct {
	WorkflowID string `json:"workflowId"`
	ResourceID string `json:"resourceId,omitempty"`
	Message    string `json:"message,omitempty"`
}

// WorkflowService runs the post-a-job and hire-an-artisan workflows.
type WorkflowService struct {
	registry      *workflow.Registry
	sequencer     *workflow.Sequencer
	gates         map[string]workflow.Gate
	builder       *submission.Builder
	poster        JobPoster
	log           repository.SubmissionLog
	logger        Logger
	maxAttachment int64
	submissions   metric.Int64Counter
}

// WorkflowOption configures a WorkflowService.
type WorkflowOption func(*WorkflowService)

// WithMaxAttachmentBytes overrides DefaultMaxAttachmentBytes.
func WithMaxAttachmentBytes(n int64) WorkflowOption {
	return func(s *WorkflowService) {
		if n > 0 {
			s.maxAttachment = n
		}
	}
}

// WithGates replaces the step gates.
func WithGates(gates map[string]workflow.Gate) WorkflowOption {
	return func(s *WorkflowService) { s.gates = gates }
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(registry *workflow.Registry, builder *submission.Builder, poster JobPoster,
	log repository.SubmissionLog, logger Logger, opts ...WorkflowOption) *WorkflowService {
	s := &WorkflowService{
		registry:      registry,
		sequencer:     workflow.NewSequencer(workflow.DefaultSteps),
		gates:         workflow.DefaultGates,
		builder:       builder,
		poster:        poster,
		log:           log,
		logger:        logger,
		maxAttachment: DefaultMaxAttachmentBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	counter, err := otel.Meter("artisanhub/services").Int64Counter(
		"artisanhub.workflow.submissions",
		metric.WithDescription("Workflow submission attempts by kind and outcome"),
	)
	if err != nil {
		logger.Warn("submission counter unavailable", "error", err)
	}
	s.submissions = counter
	return s
}

// Sequencer returns the step sequencer shared by all workflows.
func (s *WorkflowService) Sequencer() *workflow.Sequencer {
	return s.sequencer
}

// Start opens a workflow for owner. Hiring needs the artisan being hired.
func (s *WorkflowService) Start(owner string, kind models.WorkflowKind, artisanID string) (*View, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	if kind == models.WorkflowHireArtisan && artisanID == "" {
		return nil, &workflow.ValidationError{Field: "artisanId", Err: workflow.ErrMissingRequiredField}
	}

	sess := s.registry.Start(owner, kind, artisanID)
	s.logger.Info("workflow started", "workflow_id", sess.ID, "kind", kind)
	return s.view(sess, 0), nil
}

// Get returns the session as seen from the step named segment. An unknown
// segment renders with no active or completed step.
func (s *WorkflowService) Get(owner, id, segment string) (*View, error) {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return nil, err
	}
	return s.view(sess, s.sequencer.IndexOf(segment)), nil
}

// Update merges patch into the session state.
func (s *WorkflowService) Update(owner, id string, patch workflow.Patch) (workflow.State, error) {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return workflow.State{}, err
	}
	return sess.Update(patch), nil
}

// SetAttachment stores a file in a slot.
func (s *WorkflowService) SetAttachment(owner, id string, slot int, a *workflow.Attachment) error {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return err
	}
	if int64(a.Size()) > s.maxAttachment {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, a.Name, a.Size(), s.maxAttachment)
	}
	if !sess.SetAttachment(slot, a) {
		return ErrInvalidSlot
	}
	return nil
}

// ClearAttachment empties a slot.
func (s *WorkflowService) ClearAttachment(owner, id string, slot int) error {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return err
	}
	if !sess.ClearAttachment(slot) {
		return ErrInvalidSlot
	}
	return nil
}

// Continue runs the gate of the step named segment and returns the step to
// move to.
func (s *WorkflowService) Continue(owner, id, segment string) (workflow.Step, error) {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return workflow.Step{}, err
	}
	idx := s.sequencer.IndexOf(segment)
	if idx < 0 {
		return workflow.Step{}, ErrUnknownStep
	}
	if err := s.checkGate(segment, sess.Snapshot()); err != nil {
		return workflow.Step{}, err
	}
	next, ok := s.sequencer.Next(idx)
	if !ok {
		return workflow.Step{}, ErrLastStep
	}
	return next, nil
}

// Enter checks that every step before segment passes its gate and returns the
// view from segment.
func (s *WorkflowService) Enter(owner, id, segment string) (*View, error) {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return nil, err
	}
	idx := s.sequencer.IndexOf(segment)
	if idx < 0 {
		return nil, ErrUnknownStep
	}
	state := sess.Snapshot()
	for i := 0; i < idx; i++ {
		st, _ := s.sequencer.At(i)
		if err := s.checkGate(st.Segment, state); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrStepLocked, st.Segment, err)
		}
	}
	return s.view(sess, idx), nil
}

func (s *WorkflowService) checkGate(segment string, state workflow.State) error {
	gate, ok := s.gates[segment]
	if !ok {
		return nil
	}
	return gate(state)
}

// Submit builds the session's payload and sends it to the marketplace. A
// validation failure sends nothing. On success the session is reset and
// closed; on failure the state is kept so the user can try again. An
// expired marketplace session discards all of owner's workflows.
func (s *WorkflowService) Submit(ctx context.Context, owner, id, token string) (*Result, error) {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return nil, err
	}

	state, err := sess.BeginSubmit()
	if err != nil {
		return nil, err
	}
	succeeded := false
	defer func() { sess.EndSubmit(succeeded) }()

	sub, err := s.builder.Build(state)
	if err != nil {
		return nil, err
	}
	price, hasPrice := sub.Price()
	if sess.Kind == models.WorkflowHireArtisan && !hasPrice {
		return nil, &workflow.ValidationError{Field: "budget.amount", Err: workflow.ErrMissingRequiredField}
	}

	body, contentType, err := submission.EncodeToBuffer(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	var created *marketplace.CreatedResource
	switch sess.Kind {
	case models.WorkflowHireArtisan:
		created, err = s.poster.HireArtisan(ctx, token, sess.ArtisanID, price, body, contentType)
	default:
		created, err = s.poster.CreateJob(ctx, token, body, contentType)
	}

	if err != nil {
		outcome := models.OutcomeFailed
		var terr *marketplace.TransportError
		if errors.As(err, &terr) && terr.Status >= 400 && terr.Status < 500 {
			outcome = models.OutcomeRejected
		}
		s.record(ctx, sess, outcome, marketplace.UserMessage(err))
		s.logger.Error("workflow submission failed", "workflow_id", sess.ID, "kind", sess.Kind, "error", err)

		if errors.Is(err, marketplace.ErrAuthExpired) {
			n := s.registry.RemoveOwner(owner)
			s.logger.Warn("marketplace session expired; workflows discarded", "owner", owner, "discarded", n)
		}
		return nil, err
	}

	succeeded = true
	s.registry.Remove(sess.ID)

	res := &Result{WorkflowID: sess.ID}
	if created != nil {
		res.ResourceID = created.ID
		res.Message = created.Message
	}
	s.record(ctx, sess, models.OutcomeSucceeded, res.Message)
	s.logger.Info("workflow submitted", "workflow_id", sess.ID, "kind", sess.Kind,
		"attachments", len(sub.Common().Attachments), "resource_id", res.ResourceID)
	return res, nil
}

func (s *WorkflowService) record(ctx context.Context, sess *workflow.Session, outcome models.SubmissionOutcome, message string) {
	if s.submissions != nil {
		s.submissions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", string(sess.Kind)),
			attribute.String("outcome", string(outcome)),
		))
	}
	if s.log == nil {
		return
	}
	err := s.log.RecordSubmission(context.WithoutCancel(ctx), &models.Submission{
		Owner:      sess.Owner,
		WorkflowID: sess.ID,
		Kind:       sess.Kind,
		Outcome:    outcome,
		Message:    message,
	})
	if err != nil {
		s.logger.Error("failed to record submission", "workflow_id", sess.ID, "error", err)
	}
}

// Cancel resets and closes a session.
func (s *WorkflowService) Cancel(owner, id string) error {
	sess, err := s.registry.Get(owner, id)
	if err != nil {
		return err
	}
	sess.Reset()
	s.registry.Remove(id)
	s.logger.Info("workflow cancelled", "workflow_id", id)
	return nil
}

// DiscardOwner drops every workflow of owner, e.g. after sign-out.
func (s *WorkflowService) DiscardOwner(owner string) int {
	return s.registry.RemoveOwner(owner)
}

// History lists owner's submission attempts.
func (s *WorkflowService) History(ctx context.Context, owner string) ([]*models.Submission, error) {
	if s.log == nil {
		return nil, nil
	}
	return s.log.ListSubmissions(ctx, owner)
}

// Sweep closes sessions idle longer than maxAge.
func (s *WorkflowService) Sweep(maxAge time.Duration) {
	if n := s.registry.Sweep(maxAge); n > 0 {
		s.logger.Info("stale workflows swept", "count", n)
	}
}

func (s *WorkflowService) view(sess *workflow.Session, current int) *View {
	return &View{
		ID:        sess.ID,
		Kind:      sess.Kind,
		ArtisanID: sess.ArtisanID,
		State:     sess.Snapshot(),
		Current:   current,
		Steps:     s.sequencer.Progress(current),
	}
}
