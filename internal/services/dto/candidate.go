package dto

import "hireflow_backend/internal/models"

type CreateCandidateRequest struct {
	FullName  string   `json:"full_name" validate:"required,min=2"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone"`
	Skills    []string `json:"skills"`
	ResumeURL string   `json:"resume_url"`
	JobID     string   `json:"job_id" validate:"required,uuid"`
}

type AdvanceStageRequest struct {
	TargetStage string `json:"target_stage" validate:"required,is-pipeline-stage"`
}

// RejectionPayload - категория+заметки отказа. Минимум 20 символов
// заметок проверяется на границе, до каких-либо записей.
type RejectionPayload struct {
	Category string `json:"category" validate:"required,is-rejection-category"`
	Notes    string `json:"notes" validate:"required,min=20"`
}

type ListCandidatesRequest struct {
	JobID  string `form:"job_id"`
	Stage  string `form:"stage" validate:"omitempty,is-pipeline-stage"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Size   int    `form:"page_size"`
}

type StageOptionsResponse struct {
	CurrentStage models.PipelineStage   `json:"current_stage"`
	Options      []models.PipelineStage `json:"options"`
}

type PipelineSummaryResponse struct {
	JobID  string                         `json:"job_id,omitempty"`
	Stages map[models.PipelineStage]int64 `json:"stages"`
}
