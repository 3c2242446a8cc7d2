package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"hireflow_backend/internal/appErrors"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/pipeline"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobService struct {
	jobRepo repositories.JobRepository
}

func NewJobService(jobRepo repositories.JobRepository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

// CreateJob создает вакансию с интервью-планом из шаблона
// (или дефолтным, если template_id не задан)
func (s *JobService) CreateJob(db *gorm.DB, actorID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	steps := pipeline.DefaultPlan()
	if req.TemplateID != "" {
		tpl := pipeline.Template(req.TemplateID)
		if tpl == nil {
			return nil, appErrors.FieldValidationError("template_id", fmt.Sprintf("unknown template %q", req.TemplateID))
		}
		steps = tpl.Steps
	}

	planJSON, err := marshalPlan(steps)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:         req.Title,
		Department:    req.Department,
		Location:      req.Location,
		Description:   req.Description,
		Status:        models.JobStatusOpen,
		InterviewPlan: planJSON,
		CreatedByID:   actorID,
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, err
	}

	return s.toResponse(job)
}

func (s *JobService) GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(job)
}

func (s *JobService) ListJobs(db *gorm.DB, status string, page, size int) ([]models.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return s.jobRepo.FindAll(db, models.JobStatus(status), size, (page-1)*size)
}

func (s *JobService) UpdateJob(db *gorm.DB, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Department != nil {
		job.Department = *req.Department
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Status != nil {
		job.Status = models.JobStatus(*req.Status)
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, err
	}
	return s.toResponse(job)
}

// UpdatePlan полностью заменяет план вакансии переданным списком шагов
// (после нормализации)
func (s *JobService) UpdatePlan(db *gorm.DB, jobID string, req *dto.UpdatePlanRequest) (*dto.JobResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}

	steps := pipeline.NormalizePlan(req.Steps)
	planJSON, err := marshalPlan(steps)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.UpdatePlan(db, jobID, planJSON); err != nil {
		return nil, err
	}

	job.InterviewPlan = planJSON
	return s.toResponse(job)
}

// ApplyTemplate заменяет план вакансии шагами именованного шаблона
func (s *JobService) ApplyTemplate(db *gorm.DB, jobID string, req *dto.ApplyTemplateRequest) (*dto.JobResponse, error) {
	tpl := pipeline.Template(req.TemplateID)
	if tpl == nil {
		return nil, appErrors.FieldValidationError("template_id", fmt.Sprintf("unknown template %q", req.TemplateID))
	}

	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}

	planJSON, err := marshalPlan(tpl.Steps)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.UpdatePlan(db, jobID, planJSON); err != nil {
		return nil, err
	}

	job.InterviewPlan = planJSON
	return s.toResponse(job)
}

// AddPlanStep добавляет в конец плана шаг из каталога опций
func (s *JobService) AddPlanStep(db *gorm.DB, jobID string, req *dto.AddPlanStepRequest) (*dto.JobResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}

	step := pipeline.StepFromOption(req.OptionID, uuid.NewString()[:8])
	if step == nil {
		return nil, appErrors.FieldValidationError("option_id", fmt.Sprintf("unknown step option %q", req.OptionID))
	}

	steps, err := unmarshalPlan(job.InterviewPlan)
	if err != nil {
		return nil, err
	}
	steps = append(steps, *step)

	planJSON, err := marshalPlan(steps)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.UpdatePlan(db, jobID, planJSON); err != nil {
		return nil, err
	}

	job.InterviewPlan = planJSON
	return s.toResponse(job)
}

func (s *JobService) DeleteJob(db *gorm.DB, jobID string) error {
	if _, err := s.findJob(db, jobID); err != nil {
		return err
	}
	return s.jobRepo.Delete(db, jobID)
}

// StepCatalog и Templates - справочники для UI конструктора планов
func (s *JobService) StepCatalog() []pipeline.StepOption {
	return pipeline.StepCatalog()
}

func (s *JobService) Templates() []pipeline.PlanTemplate {
	return pipeline.Templates()
}

func (s *JobService) findJob(db *gorm.DB, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, appErrors.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) toResponse(job *models.Job) (*dto.JobResponse, error) {
	steps, err := unmarshalPlan(job.InterviewPlan)
	if err != nil {
		return nil, err
	}
	return &dto.JobResponse{
		Job:        job,
		Plan:       steps,
		TemplateID: pipeline.ResolveTemplateID(steps),
	}, nil
}

func marshalPlan(steps []pipeline.PlanStep) (datatypes.JSON, error) {
	raw, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interview plan: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func unmarshalPlan(raw datatypes.JSON) ([]pipeline.PlanStep, error) {
	if len(raw) == 0 {
		return []pipeline.PlanStep{}, nil
	}
	var steps []pipeline.PlanStep
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interview plan: %w", err)
	}
	return steps, nil
}
