// Package workflow holds the state accumulated by the multi-step "post a job" and
// "hire an artisan" forms, and the ordered step list that drives them.
//
// Key types:
//   - [State] is the accumulator a workflow's steps write into
//   - [Patch] is a partial update; nil fields are left untouched
//   - [Session] scopes one State to one workflow run
//   - [Registry] owns every live Session
//   - [Sequencer] maps route segments to step positions
package workflow

import (
	"github.com/google/uuid"

	"artisanhub/backend/pkg/models"
)

// Attachment slot counts per workflow kind.
const (
	PostJobAttachmentSlots     = 4
	HireArtisanAttachmentSlots = 3
)

// Schedule is when the job should happen. Urgent overrides Date and Time.
type Schedule struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Urgent bool   `json:"urgent"`
}

// Address is where the job should happen.
type Address struct {
	Street   string `json:"street"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	LGA      string `json:"lga"`
	State    string `json:"state"`
}

// Budget is either a fixed amount or a request for consultation.
type Budget struct {
	IsFixed bool     `json:"isFixed"`
	Amount  *float64 `json:"amount,omitempty"`
}

// Attachment is a file held in memory until the workflow is submitted.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// Size returns the attachment length in bytes.
func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// State is everything the steps of one workflow collect.
type State struct {
	JobTitle    string        `json:"jobTitle"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Description string        `json:"description"`
	Attachments []*Attachment `json:"attachments"`
	Schedule    Schedule      `json:"schedule"`
	Address     Address       `json:"address"`
	Budget      Budget        `json:"budget"`
}

// NewState returns the empty shape for the given kind.
func NewState(kind models.WorkflowKind) State {
	return State{Attachments: make([]*Attachment, SlotsFor(kind))}
}

// SlotsFor returns the attachment slot count of a workflow kind.
func SlotsFor(kind models.WorkflowKind) int {
	if kind == models.WorkflowHireArtisan {
		return HireArtisanAttachmentSlots
	}
	return PostJobAttachmentSlots
}

// SchedulePatch updates individual schedule fields.
type SchedulePatch struct {
	Date   *string `json:"date,omitempty"`
	Time   *string `json:"time,omitempty"`
	Urgent *bool   `json:"urgent,omitempty"`
}

// AddressPatch updates individual address fields.
type AddressPatch struct {
	Street   *string `json:"street,omitempty"`
	Landmark *string `json:"landmark,omitempty"`
	City     *string `json:"city,omitempty"`
	LGA      *string `json:"lga,omitempty"`
	State    *string `json:"state,omitempty"`
}

// BudgetPatch updates individual budget fields. ClearAmount drops a previously
// entered amount.
type BudgetPatch struct {
	IsFixed     *bool    `json:"isFixed,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	ClearAmount bool     `json:"clearAmount,omitempty"`
}

// Patch is a partial State. Attachments are changed through the slot methods.
type Patch struct {
	JobTitle    *string        `json:"jobTitle,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Subcategory *string        `json:"subcategory,omitempty"`
	Description *string        `json:"description,omitempty"`
	Schedule    *SchedulePatch `json:"schedule,omitempty"`
	Address     *AddressPatch  `json:"address,omitempty"`
	Budget      *BudgetPatch   `json:"budget,omitempty"`
}

// Update merges p into s. Nested objects merge one level deep.
func (s *State) Update(p Patch) {
	setString(&s.JobTitle, p.JobTitle)
	setString(&s.Category, p.Category)
	setString(&s.Subcategory, p.Subcategory)
	setString(&s.Description, p.Description)

	if sp := p.Schedule; sp != nil {
		setString(&s.Schedule.Date, sp.Date)
		setString(&s.Schedule.Time, sp.Time)
		if sp.Urgent != nil {
			s.Schedule.Urgent = *sp.Urgent
		}
	}

	if ap := p.Address; ap != nil {
		setString(&s.Address.Street, ap.Street)
		setString(&s.Address.Landmark, ap.Landmark)
		setString(&s.Address.City, ap.City)
		setString(&s.Address.LGA, ap.LGA)
		setString(&s.Address.State, ap.State)
	}

	if bp := p.Budget; bp != nil {
		if bp.IsFixed != nil {
			s.Budget.IsFixed = *bp.IsFixed
		}
		if bp.ClearAmount {
			s.Budget.Amount = nil
		}
		if bp.Amount != nil {
			amount := *bp.Amount
			s.Budget.Amount = &amount
		}
	}
}

// Reset restores the empty shape, keeping the slot count.
func (s *State) Reset() {
	*s = State{Attachments: make([]*Attachment, len(s.Attachments))}
}

// SetAttachment places a file into slot. It reports false when the slot
// does not exist.
func (s *State) SetAttachment(slot int, a *Attachment) bool {
	if slot < 0 || slot >= len(s.Attachments) {
		return false
	}
	s.Attachments[slot] = a
	return true
}

// ClearAttachment empties slot.
func (s *State) ClearAttachment(slot int) bool {
	return s.SetAttachment(slot, nil)
}

// Clone returns a copy that shares no mutable memory with s.
func (s State) Clone() State {
	out := s
	out.Attachments = make([]*Attachment, len(s.Attachments))
	for i, a := range s.Attachments {
		if a == nil {
			continue
		}
		cp := *a
		cp.Data = append([]byte(nil), a.Data...)
		out.Attachments[i] = &cp
	}
	if s.Budget.Amount != nil {
		amount := *s.Budget.Amount
		out.Budget.Amount = &amount
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func newSessionID() string {
	return uuid.New().String()
}
