package model

import "gorm.io/gorm"

// Patient represents a patient record owned by a single practitioner
// @Description Patient information
type Patient struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"not null;index" example:"1"`
	FirstName string `json:"first_name" gorm:"not null" example:"Maria"`
	LastName  string `json:"last_name" gorm:"not null" example:"Gonzalez"`
	DNI       string `json:"dni" gorm:"uniqueIndex;size:20;not null" example:"30123456"`
	Email     string `json:"email" example:"maria@example.com"`
	Phone     string `json:"phone" gorm:"size:50" example:"11-5555-0101"`
	BirthDate string `json:"birth_date" example:"1990-06-15"`
}

// FullName returns the patient's display name.
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
