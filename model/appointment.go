package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrIllegalTransition is returned when a status change is not allowed by
// the entity's transition table. The entity is left unchanged.
var ErrIllegalTransition = errors.New("illegal status transition")

// AppointmentStatus is the lifecycle status of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled   AppointmentStatus = "scheduled"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
)

// Appointment represents a single scheduled encounter. TreatmentPlanID is
// nil for ad-hoc appointments created outside a recurrence plan.
// @Description Appointment information
type Appointment struct {
	gorm.Model
	PatientID       uint              `json:"patient_id" gorm:"not null;index" example:"1"`
	UserID          uint              `json:"user_id" gorm:"not null;index" example:"1"`
	TreatmentPlanID *uint             `json:"treatment_plan_id" gorm:"index" example:"1"`
	DateTime        time.Time         `json:"date_time" gorm:"not null;index"`
	DurationMinutes int               `json:"duration_minutes" gorm:"not null;default:60" example:"60"`
	Status          AppointmentStatus `json:"status" gorm:"type:varchar(20);default:'scheduled'" example:"scheduled"`
	Notes           string            `json:"notes" gorm:"type:text"`
}

// appointmentTransitions encodes the legal status moves. An appointment
// starts scheduled; completed, cancelled and rescheduled are all terminal
// for that row. A reschedule ends this appointment, the replacement row is
// the caller's responsibility.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled:   {AppointmentCompleted, AppointmentCancelled, AppointmentRescheduled},
	AppointmentCompleted:   {},
	AppointmentCancelled:   {},
	AppointmentRescheduled: {},
}

// ValidAppointmentStatus reports whether s is a known appointment status value.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// Transition moves the appointment to the requested status, rejecting
// anything the transition table does not allow. The receiver is unchanged
// on error.
func (a *Appointment) Transition(to AppointmentStatus) error {
	if !ValidAppointmentStatus(to) {
		return fmt.Errorf("%w: unknown appointment status %q", ErrIllegalTransition, to)
	}
	for _, allowed := range appointmentTransitions[a.Status] {
		if allowed == to {
			a.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: appointment cannot move from %q to %q", ErrIllegalTransition, a.Status, to)
}
