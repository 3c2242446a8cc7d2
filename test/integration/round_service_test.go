package integration_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// recordingEmailProvider копит отправленные письма вместо доставки
type recordingEmailProvider struct {
	mu   sync.Mutex
	sent []*email.Email
}

func (p *recordingEmailProvider) Send(msg *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *recordingEmailProvider) Close() error { return nil }

func (p *recordingEmailProvider) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, msg := range p.sent {
		out = append(out, msg.Subject)
	}
	return out
}

// failingRejectionStore всегда роняет запись отказа
type failingRejectionStore struct{}

func (failingRejectionStore) Upsert(db *gorm.DB, rejection *models.RejectionReason) error {
	return errors.New("rejection store unavailable")
}

func (failingRejectionStore) FindByCandidateID(db *gorm.DB, candidateID string) (*models.RejectionReason, error) {
	return nil, repositories.ErrRejectionNotFound
}

func buildRoundService(rejectionRepo repositories.RejectionRepository, provider email.Provider) *services.RoundService {
	userRepo := repositories.NewUserRepository()
	candidateRepo := repositories.NewCandidateRepository()
	roundRepo := repositories.NewRoundRepository()
	feedbackRepo := repositories.NewFeedbackRepository()
	orchestrator := services.NewPipelineOrchestrator(candidateRepo, nil)
	rejections := services.NewRejectionEngine(rejectionRepo, roundRepo, feedbackRepo, orchestrator)
	return services.NewRoundService(roundRepo, feedbackRepo, candidateRepo, userRepo,
		rejections, orchestrator, services.NewNotificationService(provider))
}

func rejectingFeedbackRequest() *dto.SubmitFeedbackRequest {
	return &dto.SubmitFeedbackRequest{
		RatingTechnical:      2,
		RatingProblemSolving: 2,
		RatingCommunication:  3,
		RatingCulture:        2,
		RatingOverall:        2,
		Recommendation:       string(models.RecommendationNo),
		Rejection: &dto.RejectionPayload{
			Category: string(models.RejectionTechnicalGap),
			Notes:    "Not enough depth in systems design discussion.",
		},
	}
}

// TestSubmitFeedback_RejectingNotifiesRecruiter - отклоняющий фидбек
// шлет рекрутеру письмо об отказе, а не только о фидбеке
func TestSubmitFeedback_RejectingNotifiesRecruiter(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	recorder := &recordingEmailProvider{}
	svc := buildRoundService(repositories.NewRejectionRepository(), recorder)

	_, err := svc.SubmitFeedback(tx, interviewer.ID, round.ID, rejectingFeedbackRequest())
	assert.NoError(t, err)

	// Уведомления уходят асинхронно после коммита
	assert.Eventually(t, func() bool {
		for _, subject := range recorder.subjects() {
			if strings.Contains(subject, "Candidate rejected") {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond, "рекрутер должен получить письмо об отказе кандидата")
}

// TestSubmitFeedback_PositiveSkipsRejectionEmail - положительный фидбек
// не рождает письмо об отказе
func TestSubmitFeedback_PositiveSkipsRejectionEmail(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	recorder := &recordingEmailProvider{}
	svc := buildRoundService(repositories.NewRejectionRepository(), recorder)

	req := rejectingFeedbackRequest()
	req.Recommendation = string(models.RecommendationYes)
	req.Rejection = nil

	_, err := svc.SubmitFeedback(tx, interviewer.ID, round.ID, req)
	assert.NoError(t, err)

	// Ждем письмо о фидбеке; письма об отказе быть не должно
	assert.Eventually(t, func() bool {
		return len(recorder.subjects()) > 0
	}, 2*time.Second, 20*time.Millisecond)
	for _, subject := range recorder.subjects() {
		assert.NotContains(t, subject, "Candidate rejected")
	}
}

// TestSubmitFeedback_RejectionWriteFailureRollsBack - если запись
// отказа падает, фидбек и статус раунда откатываются целиком
func TestSubmitFeedback_RejectionWriteFailureRollsBack(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	svc := buildRoundService(failingRejectionStore{}, nil)

	_, err := svc.SubmitFeedback(tx, interviewer.ID, round.ID, rejectingFeedbackRequest())
	assert.Error(t, err, "упавшая запись отказа должна ронять всю операцию")

	// Фидбек не сохранился
	var feedbackCount int64
	assert.NoError(t, tx.Model(&models.Feedback{}).Where("round_id = ?", round.ID).Count(&feedbackCount).Error)
	assert.Equal(t, int64(0), feedbackCount)

	// Раунд остался запланированным
	var status string
	assert.NoError(t, tx.Raw("SELECT status FROM interview_rounds WHERE id = ?", round.ID).Scan(&status).Error)
	assert.Equal(t, "SCHEDULED", status)

	// Стадия кандидата не тронута
	var stage string
	assert.NoError(t, tx.Raw("SELECT current_stage FROM candidates WHERE id = ?", candidate.ID).Scan(&stage).Error)
	assert.Equal(t, "SCREENING", stage)
}
