package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"artisanhub/backend/pkg/models"
)

func TestCurrentIndex(t *testing.T) {
	seq := NewSequencer(DefaultSteps)

	tests := []struct {
		path string
		want int
	}{
		{"/post-job/details", 0},
		{"/post-job/location/", 1},
		{"/hire/abc123/schedule?from=profile", 2},
		{"budget", 3},
		{"/post-job/review", 4},
		{"/post-job", -1},
		{"/post-job/payment", -1},
		{"", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, seq.CurrentIndex(tt.path), tt.path)
	}
}

func TestIsStepComplete_IsPositional(t *testing.T) {
	seq := NewSequencer(DefaultSteps)
	current := seq.IndexOf(StepBudget)

	assert.True(t, seq.IsStepComplete(current, 0))
	assert.True(t, seq.IsStepComplete(current, 2))
	assert.False(t, seq.IsStepComplete(current, 3))
	assert.False(t, seq.IsStepComplete(current, 4))

	// Steps before the current one render completed even with an empty
	// state. Completion is not a validity check.
	empty := NewState(models.WorkflowPostJob)
	assert.Error(t, DetailsGate(empty))
	assert.True(t, seq.IsStepComplete(current, seq.IndexOf(StepDetails)))
}

func TestProgress_UnknownRouteHasNoActiveStep(t *testing.T) {
	seq := NewSequencer(DefaultSteps)

	for _, p := range seq.Progress(-1) {
		assert.Equal(t, StepPending, p.State, p.Segment)
	}

	got := seq.Progress(2)
	assert.Equal(t, StepCompleted, got[0].State)
	assert.Equal(t, StepCompleted, got[1].State)
	assert.Equal(t, StepActive, got[2].State)
	assert.Equal(t, StepPending, got[3].State)
}

func TestNext(t *testing.T) {
	seq := NewSequencer(DefaultSteps)

	next, ok := seq.Next(0)
	assert.True(t, ok)
	assert.Equal(t, StepLocation, next.Segment)

	_, ok = seq.Next(seq.Len() - 1)
	assert.False(t, ok)
	_, ok = seq.Next(-1)
	assert.False(t, ok)
}

func TestGates(t *testing.T) {
	s := NewState(models.WorkflowPostJob)

	var verr *ValidationError
	err := DetailsGate(s)
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "jobTitle", verr.Field)
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	s.Update(Patch{JobTitle: str("Fix Sink"), Category: str("Select a category"), Description: str("Leaky pipe")})
	err = DetailsGate(s)
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "category", verr.Field)

	s.Update(Patch{Category: str("c1")})
	assert.NoError(t, DetailsGate(s))

	assert.Error(t, ScheduleGate(s))
	s.Update(Patch{Schedule: &SchedulePatch{Urgent: flag(true)}})
	assert.NoError(t, ScheduleGate(s))

	assert.NoError(t, BudgetGate(s), "consultation budget needs no amount")
	s.Update(Patch{Budget: &BudgetPatch{IsFixed: flag(true)}})
	assert.ErrorIs(t, BudgetGate(s), ErrMissingRequiredField)
	s.Update(Patch{Budget: &BudgetPatch{Amount: num(-5)}})
	assert.ErrorIs(t, BudgetGate(s), ErrInvalidField)
	s.Update(Patch{Budget: &BudgetPatch{Amount: num(15000)}})
	assert.NoError(t, BudgetGate(s))

	assert.Error(t, DefaultGates[StepReview](s), "location is still empty")
	s.Update(Patch{Address: &AddressPatch{Street: str("3 Broad St"), City: str("Lagos"), State: str("Lagos")}})
	assert.NoError(t, DefaultGates[StepReview](s))
}
