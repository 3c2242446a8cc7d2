package dto

import (
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/pipeline"
)

type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	Description string `json:"description"`
	// Если не задан - применяется дефолтный шаблон
	TemplateID string `json:"template_id,omitempty"`
}

type UpdateJobRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2"`
	Department  *string `json:"department,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=open on_hold closed"`
}

type UpdatePlanRequest struct {
	Steps []pipeline.PlanStep `json:"steps" validate:"required,min=1"`
}

type ApplyTemplateRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
}

type AddPlanStepRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

// JobResponse - вакансия с распакованным планом и меткой шаблона.
// TemplateID - чисто UI-маркировка (см. pipeline.ResolveTemplateID).
type JobResponse struct {
	Job        *models.Job         `json:"job"`
	Plan       []pipeline.PlanStep `json:"plan"`
	TemplateID string              `json:"template_id"`
}
