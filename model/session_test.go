package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSessionModel_OnePerAppointment(t *testing.T) {
	db := setupTestDB(t, "session", &Session{})

	first := Session{AppointmentID: 1, Status: SessionPending}
	assert.NoError(t, db.Create(&first).Error)

	second := Session{AppointmentID: 1, Status: SessionPending}
	err := db.Create(&second).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	db.Model(&Session{}).Where("appointment_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSessionModel_KeepsAppointmentReference(t *testing.T) {
	db := setupTestDB(t, "session_ref", &Session{})

	s := Session{AppointmentID: 42, Status: SessionPending}
	assert.NoError(t, db.Create(&s).Error)

	assert.NoError(t, db.Model(&s).Updates(map[string]interface{}{
		"status":        SessionRealizada,
		"written_notes": "Buena evolucion",
	}).Error)

	var loaded Session
	assert.NoError(t, db.First(&loaded, s.ID).Error)
	assert.Equal(t, uint(42), loaded.AppointmentID)
	assert.Equal(t, SessionRealizada, loaded.Status)
}

func TestValidSessionStatus(t *testing.T) {
	for _, s := range []SessionStatus{SessionPending, SessionRealizada, SessionAusente, SessionCancelada} {
		assert.True(t, ValidSessionStatus(s))
	}
	assert.False(t, ValidSessionStatus("done"))
	assert.False(t, ValidSessionStatus(""))
}
