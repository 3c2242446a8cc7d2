package services

import (
	"errors"
	"time"

	"hireflow_backend/internal/appErrors"
	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/pipeline"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"

	"gorm.io/gorm"
)

type RoundService struct {
	roundRepo       repositories.RoundRepository
	feedbackRepo    repositories.FeedbackRepository
	candidateRepo   repositories.CandidateRepository
	userRepo        repositories.UserRepository
	rejectionEngine *RejectionEngine
	orchestrator    *PipelineOrchestrator
	notifications   *NotificationService
}

func NewRoundService(
	roundRepo repositories.RoundRepository,
	feedbackRepo repositories.FeedbackRepository,
	candidateRepo repositories.CandidateRepository,
	userRepo repositories.UserRepository,
	rejectionEngine *RejectionEngine,
	orchestrator *PipelineOrchestrator,
	notifications *NotificationService,
) *RoundService {
	return &RoundService{
		roundRepo:       roundRepo,
		feedbackRepo:    feedbackRepo,
		candidateRepo:   candidateRepo,
		userRepo:        userRepo,
		rejectionEngine: rejectionEngine,
		orchestrator:    orchestrator,
		notifications:   notifications,
	}
}

// ScheduleRound создает раунд (номер max+1 либо явный из запроса) и
// переводит кандидата на стадию, соответствующую типу раунда.
// Обе записи в одной транзакции.
func (s *RoundService) ScheduleRound(db *gorm.DB, actorID, candidateID string, req *dto.ScheduleRoundRequest) (*models.InterviewRound, error) {
	if _, err := s.requireRole(db, actorID, auth.RoundSchedulers); err != nil {
		return nil, err
	}

	interviewer, err := s.userRepo.FindByID(db, req.InterviewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInterviewerNotActive
		}
		return nil, err
	}
	if !interviewer.IsActive {
		return nil, appErrors.ErrInterviewerNotActive
	}

	roundType := models.RoundType(req.RoundType)
	scheduledAt := time.Now()
	if req.ScheduledAt != nil {
		scheduledAt = *req.ScheduledAt
	}

	var round *models.InterviewRound

	err = db.Transaction(func(tx *gorm.DB) error {
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

		var number int
		if req.RoundNumber != nil {
			number = *req.RoundNumber
		} else {
			maxNumber, err := s.roundRepo.MaxRoundNumber(tx, candidateID)
			if err != nil {
				return err
			}
			number = maxNumber + 1
		}

		// Предпроверка до INSERT: уникальный индекс остается страховкой
		// от гонки, но в обычном потоке мы не роняем транзакцию.
		taken, err := s.roundRepo.NumberExists(tx, candidateID, number)
		if err != nil {
			return err
		}
		if taken {
			return appErrors.ErrRoundNumberTaken
		}

		round = &models.InterviewRound{
			CandidateID:   candidateID,
			RoundNumber:   number,
			RoundType:     roundType,
			InterviewerID: interviewer.ID,
			ScheduledAt:   scheduledAt,
			Status:        models.RoundStatusScheduled,
		}
		if err := s.roundRepo.Create(tx, round); err != nil {
			if repositories.IsUniqueViolation(err) {
				return appErrors.ErrRoundNumberTaken
			}
			return err
		}

		return s.orchestrator.ApplyStage(tx, candidateID, pipeline.StageForRound(roundType))
	})
	if err != nil {
		return nil, err
	}

	s.orchestrator.CandidateChanged(candidateID)
	go s.notifyScheduled(db, interviewer, candidateID, roundType, scheduledAt)

	return round, nil
}

// SubmitFeedback принимает фидбек по раунду. Фидбек неизменяем;
// отклоняющая рекомендация без валидного rejection-блока отвергается
// до каких-либо записей, а с валидным - атомарно создает фидбек,
// завершает раунд и применяет отказ.
func (s *RoundService) SubmitFeedback(db *gorm.DB, actorID, roundID string, req *dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	actor, err := s.loadActor(db, actorID)
	if err != nil {
		return nil, err
	}

	recommendation := models.Recommendation(req.Recommendation)

	// Гейт валидации до любых записей (иначе отклоняющий фидбек мог бы
	// существовать без записи отказа)
	if recommendation.IsRejecting() {
		if req.Rejection == nil {
			return nil, appErrors.FieldValidationError("rejection", "rejection payload is required for NO/STRONG_NO recommendations")
		}
	} else if req.Rejection != nil {
		return nil, appErrors.FieldValidationError("rejection", "rejection payload is only allowed with NO/STRONG_NO recommendations")
	}

	var feedback *models.Feedback
	var candidateID string
	var candidateName string
	var recruiterID string
	var roundType models.RoundType

	err = db.Transaction(func(tx *gorm.DB) error {
		round, err := s.roundRepo.FindByID(tx, roundID)
		if err != nil {
			if errors.Is(err, repositories.ErrRoundNotFound) {
				return appErrors.ErrRoundNotFound
			}
			return err
		}
		candidateID = round.CandidateID
		roundType = round.RoundType

		if actor.Role != models.UserRoleAdmin && actor.ID != round.InterviewerID {
			return appErrors.ErrNotAssignedReviewer
		}

		switch round.Status {
		case models.RoundStatusScheduled:
			// ok
		case models.RoundStatusCompleted:
			return appErrors.ErrFeedbackSubmitted
		default:
			return appErrors.ErrRoundAlreadyCompleted.WithDetails(map[string]interface{}{
				"status": round.Status,
			})
		}

		exists, err := s.feedbackRepo.ExistsForRound(tx, roundID)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.ErrFeedbackSubmitted
		}

		candidate, err := s.candidateRepo.FindByIDForUpdate(tx, candidateID)
		if err != nil {
			return err
		}
		candidateName = candidate.FullName
		recruiterID = candidate.RecruiterID

		feedback = &models.Feedback{
			RoundID:              roundID,
			InterviewerID:        actor.ID,
			RatingTechnical:      req.RatingTechnical,
			RatingProblemSolving: req.RatingProblemSolving,
			RatingCommunication:  req.RatingCommunication,
			RatingCulture:        req.RatingCulture,
			RatingOverall:        req.RatingOverall,
			Strengths:            req.Strengths,
			Concerns:             req.Concerns,
			Recommendation:       recommendation,
		}
		if err := s.feedbackRepo.Create(tx, feedback); err != nil {
			if repositories.IsUniqueViolation(err) {
				return appErrors.ErrFeedbackSubmitted
			}
			return err
		}

		if err := s.roundRepo.UpdateStatus(tx, roundID, models.RoundStatusCompleted); err != nil {
			return err
		}

		if recommendation.IsRejecting() {
			return s.rejectionEngine.Apply(tx, candidateID, feedback.ID,
				models.RejectionCategory(req.Rejection.Category), req.Rejection.Notes)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.orchestrator.CandidateChanged(candidateID)
	go s.notifySubmitted(db, recruiterID, candidateName, roundType, recommendation)
	if recommendation.IsRejecting() {
		go s.notifyRejected(db, recruiterID, candidateName, models.RejectionCategory(req.Rejection.Category))
	}

	return feedback, nil
}

func (s *RoundService) GetRound(db *gorm.DB, roundID string) (*models.InterviewRound, error) {
	round, err := s.roundRepo.FindByID(db, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, appErrors.ErrRoundNotFound
		}
		return nil, err
	}
	return round, nil
}

func (s *RoundService) ListRounds(db *gorm.DB, candidateID string) ([]models.InterviewRound, error) {
	if _, err := s.candidateRepo.FindByID(db, candidateID); err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, appErrors.ErrCandidateNotFound
		}
		return nil, err
	}
	return s.roundRepo.ListByCandidate(db, candidateID)
}

// UpdateRoundStatus - административная отмена (CANCELLED/NO_SHOW).
// Завершенный раунд и раунд с фидбеком трогать нельзя; стадия кандидата
// не откатывается: номер следующего раунда просто перешагнет отмененный.
func (s *RoundService) UpdateRoundStatus(db *gorm.DB, actorID, roundID string, req *dto.UpdateRoundStatusRequest) (*models.InterviewRound, error) {
	actor, err := s.loadActor(db, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.UserRoleAdmin {
		return nil, appErrors.ErrForbidden
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		round, err := s.roundRepo.FindByID(tx, roundID)
		if err != nil {
			if errors.Is(err, repositories.ErrRoundNotFound) {
				return appErrors.ErrRoundNotFound
			}
			return err
		}
		if round.Status != models.RoundStatusScheduled {
			return appErrors.ErrRoundAlreadyCompleted
		}

		exists, err := s.feedbackRepo.ExistsForRound(tx, roundID)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.ErrFeedbackSubmitted
		}

		return s.roundRepo.UpdateStatus(tx, roundID, models.RoundStatus(req.Status))
	})
	if err != nil {
		return nil, err
	}

	return s.GetRound(db, roundID)
}

func (s *RoundService) notifyScheduled(db *gorm.DB, interviewer *models.User, candidateID string, roundType models.RoundType, scheduledAt time.Time) {
	candidate, err := s.candidateRepo.FindByID(db, candidateID)
	if err != nil {
		return
	}
	s.notifications.NotifyInterviewerAssigned(interviewer, candidate.FullName, roundType, scheduledAt)
}

func (s *RoundService) notifySubmitted(db *gorm.DB, recruiterID, candidateName string, roundType models.RoundType, recommendation models.Recommendation) {
	if recruiterID == "" {
		return
	}
	recruiter, err := s.userRepo.FindByID(db, recruiterID)
	if err != nil {
		return
	}
	s.notifications.NotifyFeedbackSubmitted(recruiter, candidateName, roundType, recommendation)
}

func (s *RoundService) notifyRejected(db *gorm.DB, recruiterID, candidateName string, category models.RejectionCategory) {
	if recruiterID == "" {
		return
	}
	recruiter, err := s.userRepo.FindByID(db, recruiterID)
	if err != nil {
		return
	}
	s.notifications.NotifyCandidateRejected(recruiter, candidateName, category)
}

func (s *RoundService) loadActor(db *gorm.DB, actorID string) (*models.User, error) {
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

func (s *RoundService) requireRole(db *gorm.DB, actorID string, allowed []models.UserRole) (*models.User, error) {
	actor, err := s.loadActor(db, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.RoleIn(actor.Role, allowed) {
		return nil, appErrors.ErrForbidden
	}
	return actor, nil
}
