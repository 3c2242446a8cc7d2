package models

import "time"

type InterviewRound struct {
	BaseModel
	CandidateID string `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_round_number,priority:1" json:"candidate_id"`
	// 1-based, монотонно растет; пропуски допустимы после отмен
	RoundNumber   int         `gorm:"not null;uniqueIndex:idx_candidate_round_number,priority:2" json:"round_number"`
	RoundType     RoundType   `gorm:"not null" json:"round_type"`
	InterviewerID string      `gorm:"type:uuid;not null" json:"interviewer_id"`
	Interviewer   *User       `gorm:"foreignKey:InterviewerID" json:"interviewer,omitempty"`
	ScheduledAt   time.Time   `gorm:"not null" json:"scheduled_at"`
	Status        RoundStatus `gorm:"not null;default:'SCHEDULED'" json:"status"`

	Feedback *Feedback `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE" json:"feedback,omitempty"`
}
