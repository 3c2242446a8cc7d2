package models

// Feedback неизменяем после создания: путь обновления отсутствует
// намеренно, и в сервисах, и в HTTP-слое.
type Feedback struct {
	BaseModel
	RoundID       string `gorm:"type:uuid;not null;uniqueIndex" json:"round_id"`
	InterviewerID string `gorm:"type:uuid;not null" json:"interviewer_id"`

	// Оценки 1..5
	RatingTechnical      int `gorm:"not null" json:"rating_technical"`
	RatingProblemSolving int `gorm:"not null" json:"rating_problem_solving"`
	RatingCommunication  int `gorm:"not null" json:"rating_communication"`
	RatingCulture        int `gorm:"not null" json:"rating_culture"`
	RatingOverall        int `gorm:"not null" json:"rating_overall"`

	Strengths      string         `gorm:"type:text" json:"strengths"`
	Concerns       string         `gorm:"type:text" json:"concerns"`
	Recommendation Recommendation `gorm:"not null" json:"recommendation"`
}
