package submission

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanhub/backend/internal/workflow"
	"artisanhub/backend/pkg/models"
)

func str(v string) *string { return &v }
func flag(v bool) *bool { return &v }
func num(v float64) *float64 { return &v }

func baseState() workflow.State {
	s := workflow.NewState(models.WorkflowPostJob)
	s.Update(workflow.Patch{
		JobTitle:    str("Fix Sink"),
		Description: str("Leaky pipe"),
		Category:    str("c1"),
	})
	return s
}

func fieldMap(fields []Field) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Value
	}
	return out
}

func TestBuild_ConsultationUsesFallbackBudget(t *testing.T) {
	s := baseState()
	s.Update(workflow.Patch{Budget: &workflow.BudgetPatch{IsFixed: flag(false), Amount: num(999)}})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)
	assert.IsType(t, &Consultation{}, sub)

	got := fieldMap(Fields(sub))
	assert.Equal(t, "false", got[FieldProposalRequiresPrice])
	assert.Equal(t, "18000", got[FieldBudget])
	assert.NotContains(t, Fields(sub), Field{FieldBudget, "999"})
}

func TestBuild_ConfiguredConsultationBudget(t *testing.T) {
	sub, err := NewBuilder(25000).Build(baseState())
	require.NoError(t, err)
	assert.Equal(t, "25000", fieldMap(Fields(sub))[FieldBudget])
}

func TestBuild_FixedBudget(t *testing.T) {
	s := baseState()
	s.Update(workflow.Patch{Budget: &workflow.BudgetPatch{IsFixed: flag(true), Amount: num(7500.5)}})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)
	assert.IsType(t, &FixedBudget{}, sub)

	got := fieldMap(Fields(sub))
	assert.Equal(t, "true", got[FieldProposalRequiresPrice])
	assert.Equal(t, "7500.5", got[FieldBudget])

	price, ok := sub.Price()
	assert.True(t, ok)
	assert.Equal(t, 7500.5, price)
}

func TestBuild_FixedBudgetWithoutAmountOmitsBudget(t *testing.T) {
	s := baseState()
	s.Update(workflow.Patch{Budget: &workflow.BudgetPatch{IsFixed: flag(true)}})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)

	got := fieldMap(Fields(sub))
	assert.Equal(t, "true", got[FieldProposalRequiresPrice])
	assert.NotContains(t, got, FieldBudget)
	_, ok := sub.Price()
	assert.False(t, ok)
}

func TestBuild_UrgentIsASAP(t *testing.T) {
	s := baseState()
	s.Update(workflow.Patch{Schedule: &workflow.SchedulePatch{
		Date:   str("2026-11-02"),
		Time:   str("10:30"),
		Urgent: flag(true),
	}})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)

	got := fieldMap(Fields(sub))
	assert.Equal(t, "ASAP", got[FieldScheduleType])
	assert.NotContains(t, got, FieldScheduledDate)
	assert.NotContains(t, got, FieldScheduledTime)
}

func TestBuild_ScheduledCarriesDateAndTime(t *testing.T) {
	s := baseState()
	s.Update(workflow.Patch{Schedule: &workflow.SchedulePatch{Date: str("2026-11-02"), Time: str("10:30")}})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)

	got := fieldMap(Fields(sub))
	assert.Equal(t, "SCHEDULED", got[FieldScheduleType])
	assert.Equal(t, "2026-11-02", got[FieldScheduledDate])
	assert.Equal(t, "10:30", got[FieldScheduledTime])
}

func TestBuild_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name  string
		patch workflow.Patch
		field string
	}{
		{"empty title", workflow.Patch{JobTitle: str("")}, "jobTitle"},
		{"blank description", workflow.Patch{Description: str("   ")}, "description"},
		{"placeholder category", workflow.Patch{Category: str("Select category")}, "category"},
		{"empty category", workflow.Patch{Category: str("")}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseState()
			s.Update(tt.patch)

			sub, err := NewBuilder(0).Build(s)
			assert.Nil(t, sub)
			assert.ErrorIs(t, err, workflow.ErrMissingRequiredField)

			var verr *workflow.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBuild_SkipsEmptyAttachmentSlots(t *testing.T) {
	s := baseState()
	s.SetAttachment(1, &workflow.Attachment{Name: "b.jpg", ContentType: "image/jpeg", Data: []byte("bbb")})
	s.SetAttachment(3, &workflow.Attachment{Name: "d.png", ContentType: "image/png", Data: []byte("dd")})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)

	atts := sub.Common().Attachments
	require.Len(t, atts, 2)
	assert.Equal(t, "b.jpg", atts[0].Name)
	assert.Equal(t, "d.png", atts[1].Name)
}

func TestBuild_KeepsZeroByteAttachment(t *testing.T) {
	s := baseState()
	s.SetAttachment(0, &workflow.Attachment{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")})
	s.SetAttachment(1, &workflow.Attachment{Name: "empty.txt", ContentType: "text/plain"})
	s.SetAttachment(2, &workflow.Attachment{Name: "c.jpg", ContentType: "image/jpeg", Data: []byte("c")})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)

	atts := sub.Common().Attachments
	require.Len(t, atts, 3)
	assert.Equal(t, []string{"a.jpg", "empty.txt", "c.jpg"}, []string{atts[0].Name, atts[1].Name, atts[2].Name})
	assert.Zero(t, atts[1].Size())
}

func TestEncode_MultipartBody(t *testing.T) {
	s := baseState()
	s.Update(workflow.Patch{
		Subcategory: str("plumbing-repair"),
		Address:     &workflow.AddressPatch{Street: str("4 Ade Road"), City: str("Ibadan"), State: str("Oyo")},
		Schedule:    &workflow.SchedulePatch{Urgent: flag(true)},
	})
	s.SetAttachment(0, &workflow.Attachment{Name: `sink "front".jpg`, ContentType: "image/jpeg", Data: []byte("jpegdata")})

	sub, err := NewBuilder(0).Build(s)
	require.NoError(t, err)

	buf, contentType, err := EncodeToBuffer(sub)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(buf, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		FieldTitle:                 {"Fix Sink"},
		FieldDescription:           {"Leaky pipe"},
		FieldCategoryID:            {"c1"},
		FieldSubcategoryID:         {"plumbing-repair"},
		FieldScheduleType:          {"ASAP"},
		FieldStreet:                {"4 Ade Road"},
		FieldCity:                  {"Ibadan"},
		FieldState:                 {"Oyo"},
		FieldProposalRequiresPrice: {"false"},
		FieldBudget:                {"18000"},
	}, form.Value)

	require.Len(t, form.File[FieldAttachments], 1)
	fh := form.File[FieldAttachments][0]
	assert.Equal(t, `sink "front".jpg`, fh.Filename)
	assert.Equal(t, "image/jpeg", fh.Header.Get("Content-Type"))

	f, err := fh.Open()
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))
}
