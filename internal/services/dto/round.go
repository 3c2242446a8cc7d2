package dto

import "time"

type ScheduleRoundRequest struct {
	RoundType     string     `json:"round_type" validate:"required,is-round-type"`
	InterviewerID string     `json:"interviewer_id" validate:"required,uuid"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`

	// Явный номер раунда. Без него номер выделяется как max+1;
	// занятый номер - конфликт.
	RoundNumber *int `json:"round_number,omitempty" validate:"omitempty,min=1"`
}

type SubmitFeedbackRequest struct {
	RatingTechnical      int    `json:"rating_technical" validate:"required,min=1,max=5"`
	RatingProblemSolving int    `json:"rating_problem_solving" validate:"required,min=1,max=5"`
	RatingCommunication  int    `json:"rating_communication" validate:"required,min=1,max=5"`
	RatingCulture        int    `json:"rating_culture" validate:"required,min=1,max=5"`
	RatingOverall        int    `json:"rating_overall" validate:"required,min=1,max=5"`
	Strengths            string `json:"strengths"`
	Concerns             string `json:"concerns"`
	Recommendation       string `json:"recommendation" validate:"required,is-recommendation"`

	// Обязателен при recommendation NO/STRONG_NO. Валидируется в сервисе
	// до любых записей, чтобы вернуть полевую ошибку на `rejection`.
	Rejection *RejectionPayload `json:"rejection,omitempty"`
}

type UpdateRoundStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CANCELLED NO_SHOW"`
}
