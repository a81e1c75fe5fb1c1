package model

import (
	"fmt"

	"gorm.io/gorm"
)

// PlanStatus is the lifecycle status of a treatment plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanCancelled PlanStatus = "cancelled"
)

// TreatmentPlan groups the appointments generated by one recurrence request.
// Start date and duration are fixed at creation; editing a plan does not
// reschedule already generated appointments.
// @Description Treatment plan (recurrence) information
type TreatmentPlan struct {
	gorm.Model
	PatientID       uint       `json:"patient_id" gorm:"not null;index" example:"1"`
	UserID          uint       `json:"user_id" gorm:"not null;index" example:"1"`
	StartDate       string     `json:"start_date" gorm:"not null" example:"2026-03-02"`
	DurationMonths  int        `json:"duration_months" gorm:"not null" example:"3"`
	SessionsPerWeek int        `json:"sessions_per_week" gorm:"not null" example:"2"`
	Status          PlanStatus `json:"status" gorm:"type:varchar(20);default:'active'" example:"active"`
}

// planTransitions lists the legal plan status moves. A plan is only ever
// closed out; completed and cancelled are terminal.
var planTransitions = map[PlanStatus][]PlanStatus{
	PlanActive:    {PlanCompleted, PlanCancelled},
	PlanCompleted: {},
	PlanCancelled: {},
}

// ValidPlanStatus reports whether s is a known plan status value.
func ValidPlanStatus(s PlanStatus) bool {
	_, ok := planTransitions[s]
	return ok
}

// Transition moves the plan to the requested status, rejecting anything the
// transition table does not allow. The receiver is unchanged on error.
func (p *TreatmentPlan) Transition(to PlanStatus) error {
	if !ValidPlanStatus(to) {
		return fmt.Errorf("%w: unknown plan status %q", ErrIllegalTransition, to)
	}
	for _, allowed := range planTransitions[p.Status] {
		if allowed == to {
			p.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: plan cannot move from %q to %q", ErrIllegalTransition, p.Status, to)
}
