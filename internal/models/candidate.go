package models

import (
	"time"

	"gorm.io/datatypes"
)

type Candidate struct {
	BaseModel
	FullName       string         `gorm:"not null" json:"full_name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone          string         `json:"phone"`
	Skills         datatypes.JSON `gorm:"type:jsonb" json:"skills"`
	ResumeURL      string         `json:"resume_url"`
	CurrentStage   PipelineStage  `gorm:"not null;default:'APPLIED'" json:"current_stage"`
	StageUpdatedAt time.Time      `gorm:"not null;default:now()" json:"stage_updated_at"`
	RecruiterID    string         `gorm:"type:uuid" json:"recruiter_id"`
	Recruiter      *User          `gorm:"foreignKey:RecruiterID" json:"recruiter,omitempty"`
	JobID          string         `gorm:"type:uuid" json:"job_id"`
	Job            *Job           `gorm:"foreignKey:JobID" json:"job,omitempty"`

	// Владеемые коллекции: раунды (упорядочены по round_number)
	// и не более одной причины отказа.
	Rounds    []InterviewRound `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"rounds,omitempty"`
	Rejection *RejectionReason `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"rejection,omitempty"`
}
