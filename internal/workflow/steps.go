package workflow

import (
	"strings"
)

// Step is one screen of a workflow, bound to a route segment.
type Step struct {
	Label   string `json:"label"`
	Segment string `json:"segment"`
}

// Step segments shared by both workflows.
const (
	StepDetails  = "details"
	StepLocation = "location"
	StepSchedule = "schedule"
	StepBudget   = "budget"
	StepReview   = "review"
)

// DefaultSteps is the step order of both the post-a-job and hire-an-artisan forms.
var DefaultSteps = []Step{
	{Label: "Job Details", Segment: StepDetails},
	{Label: "Location", Segment: StepLocation},
	{Label: "Schedule", Segment: StepSchedule},
	{Label: "Budget", Segment: StepBudget},
	{Label: "Review", Segment: StepReview},
}

// StepState is how a step renders in the progress indicator.
type StepState string

const (
	StepPending   StepState = "pending"
	StepActive    StepState = "active"
	StepCompleted StepState = "completed"
)

// StepProgress pairs a step with its rendered state.
type StepProgress struct {
	Step
	Index int       `json:"index"`
	State StepState `json:"state"`
}

// Sequencer maps route segments to positions in an ordered step list. It
// holds no current position of its own; callers derive it from the route
// every time.
type Sequencer struct {
	steps []Step
}

// NewSequencer creates a Sequencer over steps.
func NewSequencer(steps []Step) *Sequencer {
	return &Sequencer{steps: append([]Step(nil), steps...)}
}

// Steps returns a copy of the step list.
func (s *Sequencer) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Len returns the number of steps.
func (s *Sequencer) Len() int {
	return len(s.steps)
}

// IndexOf returns the position of segment, or -1.
func (s *Sequencer) IndexOf(segment string) int {
	for i, st := range s.steps {
		if st.Segment == segment {
			return i
		}
	}
	return -1
}

// CurrentIndex matches the last segment of a route path against the steps.
// It is the only place a route is parsed into a step position.
func (s *Sequencer) CurrentIndex(path string) int {
	path = strings.TrimRight(path, "/")
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	last := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		last = path[i+1:]
	}
	return s.IndexOf(last)
}

// IsStepComplete reports whether index renders as completed. Completion is
// positional only: it does not check that the step's fields were filled.
func (s *Sequencer) IsStepComplete(current, index int) bool {
	return current >= 0 && index < current
}

// Progress renders every step relative to current.
func (s *Sequencer) Progress(current int) []StepProgress {
	out := make([]StepProgress, len(s.steps))
	for i, st := range s.steps {
		state := StepPending
		switch {
		case s.IsStepComplete(current, i):
			state = StepCompleted
		case i == current:
			state = StepActive
		}
		out[i] = StepProgress{Step: st, Index: i, State: state}
	}
	return out
}

// Next returns the step after index.
func (s *Sequencer) Next(index int) (Step, bool) {
	if index < 0 || index+1 >= len(s.steps) {
		return Step{}, false
	}
	return s.steps[index+1], true
}

// At returns the step at index.
func (s *Sequencer) At(index int) (Step, bool) {
	if index < 0 || index >= len(s.steps) {
		return Step{}, false
	}
	return s.steps[index], true
}
