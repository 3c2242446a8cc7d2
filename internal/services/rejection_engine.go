package services

import (
	"errors"
	"time"

	"hireflow_backend/internal/appErrors"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"

	"gorm.io/gorm"
)

// RejectionEngine поддерживает инвариант: не более одной RejectionReason
// на кандидата, и она всегда ссылается на существующую строку Feedback.
// Обе точки входа (фидбек с отрицательной рекомендацией и ручной отказ)
// сходятся здесь.
type RejectionEngine struct {
	rejectionRepo repositories.RejectionRepository
	roundRepo     repositories.RoundRepository
	feedbackRepo  repositories.FeedbackRepository
	orchestrator  *PipelineOrchestrator
}

func NewRejectionEngine(
	rejectionRepo repositories.RejectionRepository,
	roundRepo repositories.RoundRepository,
	feedbackRepo repositories.FeedbackRepository,
	orchestrator *PipelineOrchestrator,
) *RejectionEngine {
	return &RejectionEngine{
		rejectionRepo: rejectionRepo,
		roundRepo:     roundRepo,
		feedbackRepo:  feedbackRepo,
		orchestrator:  orchestrator,
	}
}

// Apply upsert-ит RejectionReason по candidate_id и форсирует стадию
// REJECTED. Выполняется строго внутри tx вызывающего: фидбек в
// отклоняющем состоянии не должен существовать без записи отказа.
func (e *RejectionEngine) Apply(tx *gorm.DB, candidateID, feedbackID string, category models.RejectionCategory, notes string) error {
	rejection := &models.RejectionReason{
		CandidateID: candidateID,
		FeedbackID:  feedbackID,
		Category:    category,
		Notes:       notes,
	}
	if err := e.rejectionRepo.Upsert(tx, rejection); err != nil {
		return err
	}

	return e.orchestrator.ApplyStage(tx, candidateID, models.StageRejected)
}

// ResolveFeedbackID находит или фабрикует Feedback для ручного отказа,
// чтобы удовлетворить FK RejectionReason.feedback_id:
//  1. у кандидата уже есть RejectionReason - переиспользуем ее feedback_id;
//  2. иначе раунд с наибольшим номером, у которого есть фидбек;
//  3. иначе синтезируем завершенный HR-раунд с фидбеком "все единицы".
//
// Синтез фабрикует историю (фейковый HR-раунд) исключительно ради FK.
// Это осознанный компромисс: nullable feedback_id был бы чище, но
// поведение сохранено как есть (см. DESIGN.md).
func (e *RejectionEngine) ResolveFeedbackID(tx *gorm.DB, candidate *models.Candidate, actorID string) (string, error) {
	existing, err := e.rejectionRepo.FindByCandidateID(tx, candidate.ID)
	if err == nil {
		return existing.FeedbackID, nil
	}
	if !errors.Is(err, repositories.ErrRejectionNotFound) {
		return "", err
	}

	lastNumber := 0
	latest, err := e.roundRepo.FindLatest(tx, candidate.ID)
	if err == nil {
		lastNumber = latest.RoundNumber
		if latest.Feedback != nil {
			return latest.Feedback.ID, nil
		}
	} else if !errors.Is(err, repositories.ErrRoundNotFound) {
		return "", err
	}

	return e.synthesizeFeedback(tx, candidate.ID, actorID, lastNumber+1)
}

func (e *RejectionEngine) synthesizeFeedback(tx *gorm.DB, candidateID, actorID string, roundNumber int) (string, error) {
	round := &models.InterviewRound{
		CandidateID:   candidateID,
		RoundNumber:   roundNumber,
		RoundType:     models.RoundHR,
		InterviewerID: actorID,
		ScheduledAt:   time.Now(),
		Status:        models.RoundStatusCompleted,
	}
	if err := e.roundRepo.Create(tx, round); err != nil {
		if repositories.IsUniqueViolation(err) {
			return "", appErrors.ErrRoundNumberTaken
		}
		return "", err
	}

	feedback := &models.Feedback{
		RoundID:              round.ID,
		InterviewerID:        actorID,
		RatingTechnical:      1,
		RatingProblemSolving: 1,
		RatingCommunication:  1,
		RatingCulture:        1,
		RatingOverall:        1,
		Recommendation:       models.RecommendationNo,
	}
	if err := e.feedbackRepo.Create(tx, feedback); err != nil {
		return "", err
	}

	return feedback.ID, nil
}
