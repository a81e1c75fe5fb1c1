package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    PlanStatus
		to      PlanStatus
		wantErr bool
	}{
		{"active to completed", PlanActive, PlanCompleted, false},
		{"active to cancelled", PlanActive, PlanCancelled, false},
		{"completed is terminal", PlanCompleted, PlanActive, true},
		{"cancelled is terminal", PlanCancelled, PlanCompleted, true},
		{"unknown status", PlanActive, "paused", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := TreatmentPlan{Status: tc.from}
			err := p.Transition(tc.to)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrIllegalTransition)
				assert.Equal(t, tc.from, p.Status)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.to, p.Status)
		})
	}
}

func TestTreatmentPlanModel_Create(t *testing.T) {
	db := setupTestDB(t, "treatment_plan", &TreatmentPlan{})

	plan := TreatmentPlan{
		PatientID:       1,
		UserID:          1,
		StartDate:       "2026-03-02",
		DurationMonths:  3,
		SessionsPerWeek: 2,
		Status:          PlanActive,
	}
	assert.NoError(t, db.Create(&plan).Error)
	assert.NotZero(t, plan.ID)
}
