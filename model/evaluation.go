package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Evaluation is one completed instance of a TestTemplate for a patient. The
// session reference is optional and weak; Results is stored as received and
// is never validated against the template schema here.
// @Description Completed evaluation
type Evaluation struct {
	gorm.Model
	UserID         uint           `json:"user_id" gorm:"not null;index" example:"1"`
	PatientID      uint           `json:"patient_id" gorm:"not null;index" example:"1"`
	TestTemplateID uint           `json:"test_template_id" gorm:"not null;index" example:"1"`
	SessionID      *uint          `json:"session_id" gorm:"index" example:"1"`
	Results        datatypes.JSON `json:"results" gorm:"type:json"`
}
