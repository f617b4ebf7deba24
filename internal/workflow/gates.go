package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Validation sentinels. Callers match them with errors.Is.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
)

// ValidationError names the field that kept a step or a submission from
// going through.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func missing(field string) error {
	return &ValidationError{Field: field, Err: ErrMissingRequiredField}
}

func invalid(field string) error {
	return &ValidationError{Field: field, Err: ErrInvalidField}
}

// Gate is a step screen's form-valid predicate. A nil error lets the user
// continue past the step.
type Gate func(State) error

// categoryPlaceholders are the option labels a category select shows before
// a choice is made.
var categoryPlaceholders = map[string]struct{}{
	"":                  {},
	"select":            {},
	"select category":   {},
	"select a category": {},
	"choose category":   {},
}

// IsPlaceholder reports whether v is empty or a select placeholder.
func IsPlaceholder(v string) bool {
	_, ok := categoryPlaceholders[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// DetailsGate requires title, category and description.
func DetailsGate(s State) error {
	switch {
	case blank(s.JobTitle):
		return missing("jobTitle")
	case IsPlaceholder(s.Category):
		return missing("category")
	case blank(s.Description):
		return missing("description")
	}
	return nil
}

// LocationGate requires street, city and state.
func LocationGate(s State) error {
	switch {
	case blank(s.Address.Street):
		return missing("address.street")
	case blank(s.Address.City):
		return missing("address.city")
	case blank(s.Address.State):
		return missing("address.state")
	}
	return nil
}

// ScheduleGate requires a date and time unless the job is urgent.
func ScheduleGate(s State) error {
	if s.Schedule.Urgent {
		return nil
	}
	if blank(s.Schedule.Date) {
		return missing("schedule.date")
	}
	if blank(s.Schedule.Time) {
		return missing("schedule.time")
	}
	return nil
}

// BudgetGate requires a positive amount when the budget is fixed.
func BudgetGate(s State) error {
	if !s.Budget.IsFixed {
		return nil
	}
	if s.Budget.Amount == nil {
		return missing("budget.amount")
	}
	if *s.Budget.Amount <= 0 {
		return invalid("budget.amount")
	}
	return nil
}

// DefaultGates maps each step segment of DefaultSteps to its gate. The review
// step re-checks everything before it.
var DefaultGates = map[string]Gate{
	StepDetails:  DetailsGate,
	StepLocation: LocationGate,
	StepSchedule: ScheduleGate,
	StepBudget:   BudgetGate,
	StepReview: func(s State) error {
		for _, g := range []Gate{DetailsGate, LocationGate, ScheduleGate, BudgetGate} {
			if err := g(s); err != nil {
				return err
			}
		}
		return nil
	},
}
