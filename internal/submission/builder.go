// Package submission turns an accumulated workflow state into the payload the
// marketplace expects for a new job or a hire request.
//
// A [Submission] is one of two shapes: [FixedBudget] when the customer named a
// price, [Consultation] when the price is left to negotiation. [Builder.Build]
// picks the shape; [Encode] writes it as multipart/form-data.
package submission

import (
	"strconv"
	"strings"

	"artisanhub/backend/internal/workflow"
	"artisanhub/backend/pkg/models"
)

// DefaultConsultationBudget is sent as Budget when the customer did not fix a price.
const DefaultConsultationBudget = 18000

// Details are the fields both submission shapes carry.
type Details struct {
	Title         string
	Description   string
	CategoryID    string
	SubcategoryID string
	ScheduleType  models.ScheduleType
	Date          string // empty for ASAP
	Time          string // empty for ASAP
	Address       workflow.Address
	Attachments   []workflow.Attachment
}

// Submission is the tagged union of FixedBudget and Consultation.
type Submission interface {
	// Common returns the shared fields.
	Common() *Details
	// Price returns the amount to quote, if any.
	Price() (float64, bool)
	isSubmission()
}

// FixedBudget is a submission where the customer states the price upfront.
type FixedBudget struct {
	Details
	Amount *float64
}

func (s *FixedBudget) Common() *Details { return &s.Details }

func (s *FixedBudget) Price() (float64, bool) {
	if s.Amount == nil {
		return 0, false
	}
	return *s.Amount, true
}

func (*FixedBudget) isSubmission() {}

// Consultation is a submission that defers pricing to the artisan.
type Consultation struct {
	Details
	Budget float64
}

func (s *Consultation) Common() *Details { return &s.Details }

func (s *Consultation) Price() (float64, bool) { return s.Budget, true }

func (*Consultation) isSubmission() {}

// Builder builds submissions. The zero value uses DefaultConsultationBudget.
type Builder struct {
	ConsultationBudget float64
}

// NewBuilder creates a Builder with the given consultation budget. A
// non-positive value selects DefaultConsultationBudget.
func NewBuilder(consultationBudget float64) *Builder {
	return &Builder{ConsultationBudget: consultationBudget}
}

func (b *Builder) consultationBudget() float64 {
	if b == nil || b.ConsultationBudget <= 0 {
		return DefaultConsultationBudget
	}
	return b.ConsultationBudget
}

// Build validates the required fields of state and assembles a Submission.
// Missing fields return a *workflow.ValidationError wrapping
// workflow.ErrMissingRequiredField, and nothing else is computed.
func (b *Builder) Build(state workflow.State) (Submission, error) {
	title := strings.TrimSpace(state.JobTitle)
	description := strings.TrimSpace(state.Description)
	category := strings.TrimSpace(state.Category)

	switch {
	case title == "":
		return nil, &workflow.ValidationError{Field: "jobTitle", Err: workflow.ErrMissingRequiredField}
	case description == "":
		return nil, &workflow.ValidationError{Field: "description", Err: workflow.ErrMissingRequiredField}
	case workflow.IsPlaceholder(category):
		return nil, &workflow.ValidationError{Field: "category", Err: workflow.ErrMissingRequiredField}
	}

	d := Details{
		Title:       title,
		Description: description,
		CategoryID:  category,
		Address:     state.Address,
	}
	if sub := strings.TrimSpace(state.Subcategory); !workflow.IsPlaceholder(sub) {
		d.SubcategoryID = sub
	}

	if state.Schedule.Urgent {
		d.ScheduleType = models.ScheduleTypeASAP
	} else {
		d.ScheduleType = models.ScheduleTypeScheduled
		d.Date = state.Schedule.Date
		d.Time = state.Schedule.Time
	}

	for _, a := range state.Attachments {
		if a == nil {
			continue
		}
		d.Attachments = append(d.Attachments, *a)
	}

	if state.Budget.IsFixed {
		fb := &FixedBudget{Details: d}
		if state.Budget.Amount != nil {
			amount := *state.Budget.Amount
			fb.Amount = &amount
		}
		return fb, nil
	}
	return &Consultation{Details: d, Budget: b.consultationBudget()}, nil
}

// Field is one text part of the multipart body.
type Field struct {
	Name  string
	Value string
}

// Multipart field names.
const (
	FieldTitle                 = "Title"
	FieldDescription           = "Description"
	FieldCategoryID            = "CategoryId"
	FieldSubcategoryID         = "SubCategoryId"
	FieldScheduleType          = "ScheduleType"
	FieldScheduledDate         = "ScheduledDate"
	FieldScheduledTime         = "ScheduledTime"
	FieldStreet                = "Street"
	FieldLandmark              = "Landmark"
	FieldCity                  = "City"
	FieldLGA                   = "LGA"
	FieldState                 = "State"
	FieldProposalRequiresPrice = "ProposalRequiresPrice"
	FieldBudget                = "Budget"
	FieldAttachments           = "Attachments"
)

// Fields returns the ordered text fields of sub. Empty optional fields are left out.
func Fields(sub Submission) []Field {
	d := sub.Common()
	fields := []Field{
		{FieldTitle, d.Title},
		{FieldDescription, d.Description},
		{FieldCategoryID, d.CategoryID},
	}
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, Field{name, value})
		}
	}
	add(FieldSubcategoryID, d.SubcategoryID)

	fields = append(fields, Field{FieldScheduleType, string(d.ScheduleType)})
	if d.ScheduleType == models.ScheduleTypeScheduled {
		add(FieldScheduledDate, d.Date)
		add(FieldScheduledTime, d.Time)
	}

	add(FieldStreet, d.Address.Street)
	add(FieldLandmark, d.Address.Landmark)
	add(FieldCity, d.Address.City)
	add(FieldLGA, d.Address.LGA)
	add(FieldState, d.Address.State)

	switch s := sub.(type) {
	case *FixedBudget:
		fields = append(fields, Field{FieldProposalRequiresPrice, "true"})
		if s.Amount != nil {
			fields = append(fields, Field{FieldBudget, FormatAmount(*s.Amount)})
		}
	case *Consultation:
		fields = append(fields,
			Field{FieldProposalRequiresPrice, "false"},
			Field{FieldBudget, FormatAmount(s.Budget)},
		)
	}
	return fields
}

// FormatAmount renders an amount without trailing zeros, e.g. 18000 or 2500.5.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
