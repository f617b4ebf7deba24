package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanhub/backend/pkg/models"
)

func str(v string) *string { return &v }
func flag(v bool) *bool { return &v }
func num(v float64) *float64 { return &v }

func TestNewState_SlotsPerKind(t *testing.T) {
	assert.Len(t, NewState(models.WorkflowPostJob).Attachments, PostJobAttachmentSlots)
	assert.Len(t, NewState(models.WorkflowHireArtisan).Attachments, HireArtisanAttachmentSlots)
}

func TestUpdate_TopLevelFields(t *testing.T) {
	s := NewState(models.WorkflowPostJob)
	s.Update(Patch{JobTitle: str("Fix Sink"), Category: str("c1")})
	s.Update(Patch{Description: str("Leaky pipe")})

	assert.Equal(t, "Fix Sink", s.JobTitle)
	assert.Equal(t, "c1", s.Category)
	assert.Equal(t, "Leaky pipe", s.Description)
	assert.Empty(t, s.Subcategory)
}

func TestUpdate_AddressMergesOneLevelDeep(t *testing.T) {
	s := NewState(models.WorkflowPostJob)
	s.Update(Patch{Address: &AddressPatch{Street: str("12 Allen Avenue"), LGA: str("Ikeja")}})
	s.Update(Patch{Address: &AddressPatch{City: str("Lagos")}})

	assert.Equal(t, Address{Street: "12 Allen Avenue", City: "Lagos", LGA: "Ikeja"}, s.Address)
}

func TestUpdate_ScheduleAndBudget(t *testing.T) {
	s := NewState(models.WorkflowPostJob)
	s.Update(Patch{Schedule: &SchedulePatch{Date: str("2026-11-02"), Time: str("09:00")}})
	s.Update(Patch{Schedule: &SchedulePatch{Urgent: flag(true)}})
	s.Update(Patch{Budget: &BudgetPatch{IsFixed: flag(true), Amount: num(25000)}})

	assert.Equal(t, Schedule{Date: "2026-11-02", Time: "09:00", Urgent: true}, s.Schedule)
	require.NotNil(t, s.Budget.Amount)
	assert.Equal(t, 25000.0, *s.Budget.Amount)

	s.Update(Patch{Budget: &BudgetPatch{IsFixed: flag(false)}})
	assert.False(t, s.Budget.IsFixed)
	assert.NotNil(t, s.Budget.Amount, "toggling fixed must not drop the amount")

	s.Update(Patch{Budget: &BudgetPatch{ClearAmount: true}})
	assert.Nil(t, s.Budget.Amount)
}

func TestReset_RestoresEmptyShape(t *testing.T) {
	for _, kind := range []models.WorkflowKind{models.WorkflowPostJob, models.WorkflowHireArtisan} {
		t.Run(string(kind), func(t *testing.T) {
			s := NewState(kind)
			s.Update(Patch{
				JobTitle:    str("Paint fence"),
				Category:    str("painting"),
				Subcategory: str("exterior"),
				Description: str("Two coats"),
				Schedule:    &SchedulePatch{Urgent: flag(true)},
				Address:     &AddressPatch{Street: str("1 Marina"), State: str("Lagos")},
				Budget:      &BudgetPatch{IsFixed: flag(true), Amount: num(5000)},
			})
			s.SetAttachment(0, &Attachment{Name: "fence.jpg", Data: []byte{1, 2, 3}})

			s.Reset()

			assert.Equal(t, NewState(kind), s)
		})
	}
}

func TestAttachmentSlots(t *testing.T) {
	s := NewState(models.WorkflowHireArtisan)

	assert.True(t, s.SetAttachment(2, &Attachment{Name: "a.png"}))
	assert.False(t, s.SetAttachment(3, &Attachment{Name: "b.png"}))
	assert.False(t, s.SetAttachment(-1, &Attachment{Name: "c.png"}))
	assert.Equal(t, "a.png", s.Attachments[2].Name)

	assert.True(t, s.ClearAttachment(2))
	assert.Nil(t, s.Attachments[2])
}

func TestClone_DoesNotShareMemory(t *testing.T) {
	s := NewState(models.WorkflowPostJob)
	s.SetAttachment(1, &Attachment{Name: "x", Data: []byte("abc")})
	s.Update(Patch{Budget: &BudgetPatch{Amount: num(10)}})

	c := s.Clone()
	c.Attachments[1].Data[0] = 'z'
	*c.Budget.Amount = 99

	assert.Equal(t, []byte("abc"), s.Attachments[1].Data)
	assert.Equal(t, 10.0, *s.Budget.Amount)
}
