package models

import (
	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	Title       string         `gorm:"not null" json:"title"`
	Department  string         `json:"department"`
	Location    string         `json:"location"`
	Description string         `gorm:"type:text" json:"description"`
	Status      JobStatus      `gorm:"not null;default:'open'" json:"status"`
	// Упорядоченный список шагов интервью-плана ([]pipeline.PlanStep)
	InterviewPlan datatypes.JSON `gorm:"type:jsonb" json:"interview_plan"`
	CreatedByID   string         `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy     *User          `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
