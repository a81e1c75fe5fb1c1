package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TemplateStatus is the administrative status of a test template.
type TemplateStatus string

const (
	TemplateDraft  TemplateStatus = "draft"
	TemplateActive TemplateStatus = "active"
)

// TestTemplate is a reusable evaluation form definition. Schema and UISchema
// are opaque JSON documents consumed by the form renderer; this service
// never interprets them.
// @Description Evaluation form template
type TestTemplate struct {
	gorm.Model
	Name        string         `json:"name" gorm:"not null;size:200" example:"Evaluacion postural"`
	Description string         `json:"description" gorm:"type:text"`
	Status      TemplateStatus `json:"status" gorm:"type:varchar(20);default:'draft'" example:"draft"`
	Schema      datatypes.JSON `json:"schema" gorm:"type:json"`
	UISchema    datatypes.JSON `json:"ui_schema" gorm:"type:json"`
}
