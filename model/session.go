package model

import "gorm.io/gorm"

// SessionStatus is the clinical outcome of a session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionRealizada SessionStatus = "realizada"
	SessionAusente   SessionStatus = "ausente"
	SessionCancelada SessionStatus = "cancelada"
)

// Session is the clinical record attached to exactly one appointment. The
// unique index on AppointmentID is what guarantees at most one row per
// appointment when two requests race to create the first one.
// @Description Clinical session record
type Session struct {
	gorm.Model
	AppointmentID uint          `json:"appointment_id" gorm:"uniqueIndex;not null" example:"1"`
	Status        SessionStatus `json:"status" gorm:"type:varchar(20);default:'pending'" example:"pending"`
	WrittenNotes  string        `json:"written_notes" gorm:"type:text"`
	// VoiceNote holds the storage key of an uploaded recording. Audio
	// storage itself lives outside this service.
	VoiceNote string `json:"voice_note" gorm:"size:255"`
}

// ValidSessionStatus reports whether s is a known session status value.
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionPending, SessionRealizada, SessionAusente, SessionCancelada:
		return true
	}
	return false
}
