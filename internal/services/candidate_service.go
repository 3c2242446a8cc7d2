package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"hireflow_backend/internal/appErrors"
	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/pipeline"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CandidateService struct {
	candidateRepo   repositories.CandidateRepository
	userRepo        repositories.UserRepository
	jobRepo         repositories.JobRepository
	rejectionEngine *RejectionEngine
	orchestrator    *PipelineOrchestrator
	notifications   *NotificationService
}

func NewCandidateService(
	candidateRepo repositories.CandidateRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	rejectionEngine *RejectionEngine,
	orchestrator *PipelineOrchestrator,
	notifications *NotificationService,
) *CandidateService {
	return &CandidateService{
		candidateRepo:   candidateRepo,
		userRepo:        userRepo,
		jobRepo:         jobRepo,
		rejectionEngine: rejectionEngine,
		orchestrator:    orchestrator,
		notifications:   notifications,
	}
}

// CreateCandidate - интейк кандидата. Начальная стадия всегда APPLIED.
func (s *CandidateService) CreateCandidate(db *gorm.DB, actorID string, req *dto.CreateCandidateRequest) (*models.Candidate, error) {
	actor, err := s.requireRole(db, actorID, auth.PipelineWriters)
	if err != nil {
		return nil, err
	}

	if _, err := s.jobRepo.FindByID(db, req.JobID); err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, appErrors.ErrJobNotFound
		}
		return nil, err
	}

	if _, err := s.candidateRepo.FindByEmail(db, req.Email); err == nil {
		return nil, appErrors.ErrCandidateEmailExists
	} else if !errors.Is(err, repositories.ErrCandidateNotFound) {
		return nil, err
	}

	skillsJSON, err := json.Marshal(req.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills: %w", err)
	}

	candidate := &models.Candidate{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Skills:       datatypes.JSON(skillsJSON),
		ResumeURL:    req.ResumeURL,
		CurrentStage: models.StageApplied,
		RecruiterID:  actor.ID,
		JobID:        req.JobID,
	}

	if err := s.candidateRepo.Create(db, candidate); err != nil {
		// Гонка на uniqueIndex email
		if repositories.IsUniqueViolation(err) {
			return nil, appErrors.ErrCandidateEmailExists
		}
		return nil, err
	}

	s.orchestrator.CandidateChanged(candidate.ID)

	return candidate, nil
}

func (s *CandidateService) GetCandidate(db *gorm.DB, candidateID string) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(db, candidateID)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, appErrors.ErrCandidateNotFound
		}
		return nil, err
	}
	return candidate, nil
}

func (s *CandidateService) ListCandidates(db *gorm.DB, req dto.ListCandidatesRequest) ([]models.Candidate, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Size < 1 || req.Size > 100 {
		req.Size = 20
	}
	filter := repositories.CandidateFilter{
		JobID:  req.JobID,
		Stage:  models.PipelineStage(req.Stage),
		Search: req.Search,
		Limit:  req.Size,
		Offset: (req.Page - 1) * req.Size,
	}
	return s.candidateRepo.FindAll(db, filter)
}

// StageOptions - допустимые цели ручного продвижения для UI
func (s *CandidateService) StageOptions(db *gorm.DB, candidateID string) (*dto.StageOptionsResponse, error) {
	candidate, err := s.GetCandidate(db, candidateID)
	if err != nil {
		return nil, err
	}
	return &dto.StageOptionsResponse{
		CurrentStage: candidate.CurrentStage,
		Options:      pipeline.AdvanceOptions(candidate.CurrentStage),
	}, nil
}

func (s *CandidateService) PipelineSummary(db *gorm.DB, jobID string) (*dto.PipelineSummaryResponse, error) {
	counts, err := s.candidateRepo.CountByStage(db, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.PipelineSummaryResponse{JobID: jobID, Stages: counts}, nil
}

// AdvanceStage - ручное продвижение кандидата вперед по пайплайну.
// Цель обязана входить в pipeline.AdvanceOptions текущей стадии;
// боковые выходы через advance недостижимы.
func (s *CandidateService) AdvanceStage(db *gorm.DB, actorID, candidateID string, req *dto.AdvanceStageRequest) (*models.Candidate, error) {
	if _, err := s.requireRole(db, actorID, auth.PipelineWriters); err != nil {
		return nil, err
	}

	target := models.PipelineStage(req.TargetStage)

	err := db.Transaction(func(tx *gorm.DB) error {
		candidate, err := s.candidateRepo.FindByIDForUpdate(tx, candidateID)
		if err != nil {
			if errors.Is(err, repositories.ErrCandidateNotFound) {
				return appErrors.ErrCandidateNotFound
			}
			return err
		}

		if pipeline.IsTerminal(candidate.CurrentStage) {
			return appErrors.ErrCandidateTerminal
		}

		allowed := false
		for _, opt := range pipeline.AdvanceOptions(candidate.CurrentStage) {
			if opt == target {
				allowed = true
				break
			}
		}
		if !allowed {
			return appErrors.ErrInvalidStageTarget.WithDetails(map[string]interface{}{
				"current_stage": candidate.CurrentStage,
				"options":       pipeline.AdvanceOptions(candidate.CurrentStage),
			})
		}

		return s.orchestrator.ApplyStage(tx, candidateID, target)
	})
	if err != nil {
		return nil, err
	}

	s.orchestrator.CandidateChanged(candidateID)

	return s.GetCandidate(db, candidateID)
}

// RejectCandidate - ручной отказ без прохождения раунда. Движок отказов
// находит или синтезирует Feedback, чтобы запись отказа всегда
// ссылалась на существующий фидбек.
func (s *CandidateService) RejectCandidate(db *gorm.DB, actorID, candidateID string, req *dto.RejectionPayload) (*models.Candidate, error) {
	actor, err := s.requireRole(db, actorID, auth.PipelineWriters)
	if err != nil {
		return nil, err
	}

	var recruiterID string
	var candidateName string

	err = db.Transaction(func(tx *gorm.DB) error {
		candidate, err := s.candidateRepo.FindByIDForUpdate(tx, candidateID)
		if err != nil {
			if errors.Is(err, repositories.ErrCandidateNotFound) {
				return appErrors.ErrCandidateNotFound
			}
			return err
		}
		recruiterID = candidate.RecruiterID
		candidateName = candidate.FullName

		feedbackID, err := s.rejectionEngine.ResolveFeedbackID(tx, candidate, actor.ID)
		if err != nil {
			return err
		}

		return s.rejectionEngine.Apply(tx, candidateID, feedbackID, models.RejectionCategory(req.Category), req.Notes)
	})
	if err != nil {
		return nil, err
	}

	s.orchestrator.CandidateChanged(candidateID)
	go s.notifyRejected(db, recruiterID, candidateName, models.RejectionCategory(req.Category))

	return s.GetCandidate(db, candidateID)
}

// WithdrawCandidate - архивация по инициативе кандидата (боковой выход)
func (s *CandidateService) WithdrawCandidate(db *gorm.DB, actorID, candidateID string) (*models.Candidate, error) {
	if _, err := s.requireRole(db, actorID, auth.PipelineWriters); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		candidate, err := s.candidateRepo.FindByIDForUpdate(tx, candidateID)
		if err != nil {
			if errors.Is(err, repositories.ErrCandidateNotFound) {
				return appErrors.ErrCandidateNotFound
			}
			return err
		}

		if pipeline.IsTerminal(candidate.CurrentStage) {
			return appErrors.ErrCandidateTerminal
		}

		return s.orchestrator.ApplyStage(tx, candidateID, models.StageWithdrawn)
	})
	if err != nil {
		return nil, err
	}

	s.orchestrator.CandidateChanged(candidateID)

	return s.GetCandidate(db, candidateID)
}

// DeleteCandidate удаляет кандидата с каскадом (раунды, фидбеки, отказ)
func (s *CandidateService) DeleteCandidate(db *gorm.DB, actorID, candidateID string) error {
	actor, err := s.loadActor(db, actorID)
	if err != nil {
		return err
	}
	if actor.Role != models.UserRoleAdmin {
		return appErrors.ErrForbidden
	}

	if _, err := s.GetCandidate(db, candidateID); err != nil {
		return err
	}
	return s.candidateRepo.Delete(db, candidateID)
}

func (s *CandidateService) notifyRejected(db *gorm.DB, recruiterID, candidateName string, category models.RejectionCategory) {
	if recruiterID == "" {
		return
	}
	recruiter, err := s.userRepo.FindByID(db, recruiterID)
	if err != nil {
		return
	}
	s.notifications.NotifyCandidateRejected(recruiter, candidateName, category)
}

func (s *CandidateService) loadActor(db *gorm.DB, actorID string) (*models.User, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}
	if !actor.IsActive {
		return nil, appErrors.ErrUserInactive
	}
	return actor, nil
}

func (s *CandidateService) requireRole(db *gorm.DB, actorID string, allowed []models.UserRole) (*models.User, error) {
	actor, err := s.loadActor(db, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.RoleIn(actor.Role, allowed) {
		return nil, appErrors.ErrForbidden
	}
	return actor, nil
}
