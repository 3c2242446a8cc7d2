package models

// RejectionReason - единственная на кандидата запись о причине отказа.
// FeedbackID всегда указывает на существующий Feedback (при ручном отказе
// без раундов создается синтетическая пара раунд+фидбек).
type RejectionReason struct {
	BaseModel
	CandidateID string            `gorm:"type:uuid;not null;uniqueIndex" json:"candidate_id"`
	FeedbackID  string            `gorm:"type:uuid;not null" json:"feedback_id"`
	Feedback    *Feedback         `gorm:"foreignKey:FeedbackID" json:"feedback,omitempty"`
	Category    RejectionCategory `gorm:"not null" json:"category"`
	Notes       string            `gorm:"type:text" json:"notes"`
}
