package services

import (
	"fmt"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
)

// NotificationService отправляет email-уведомления участникам найма.
// Все методы fire-and-forget: ошибки доставки логируются и никогда
// не возвращаются вызывающему.
type NotificationService struct {
	provider email.Provider
}

func NewNotificationService(provider email.Provider) *NotificationService {
	return &NotificationService{provider: provider}
}

// NotifyInterviewerAssigned уведомляет интервьюера о назначенном раунде
func (s *NotificationService) NotifyInterviewerAssigned(interviewer *models.User, candidateName string, roundType models.RoundType, scheduledAt time.Time) {
	if interviewer == nil {
		return
	}
	s.send(&email.Email{
		To:      []string{interviewer.Email},
		Subject: fmt.Sprintf("Interview assigned: %s", candidateName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou have been assigned a %s interview with %s, scheduled at %s.\n",
			interviewer.FullName, roundType, candidateName, scheduledAt.Format(time.RFC1123),
		),
	})
}

// NotifyFeedbackSubmitted уведомляет рекрутера о поданном фидбеке
func (s *NotificationService) NotifyFeedbackSubmitted(recruiter *models.User, candidateName string, roundType models.RoundType, recommendation models.Recommendation) {
	if recruiter == nil {
		return
	}
	s.send(&email.Email{
		To:      []string{recruiter.Email},
		Subject: fmt.Sprintf("Feedback submitted for %s", candidateName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nFeedback for the %s round of %s has been submitted. Recommendation: %s.\n",
			recruiter.FullName, roundType, candidateName, recommendation,
		),
	})
}

// NotifyCandidateRejected уведомляет рекрутера об отказе кандидату
func (s *NotificationService) NotifyCandidateRejected(recruiter *models.User, candidateName string, category models.RejectionCategory) {
	if recruiter == nil {
		return
	}
	s.send(&email.Email{
		To:      []string{recruiter.Email},
		Subject: fmt.Sprintf("Candidate rejected: %s", candidateName),
		Body: fmt.Sprintf(
			"Hi %s,\n\n%s has been moved to REJECTED (category: %s).\n",
			recruiter.FullName, candidateName, category,
		),
	})
}

func (s *NotificationService) send(msg *email.Email) {
	if s.provider == nil {
		return
	}
	if err := s.provider.Send(msg); err != nil {
		// Доставка best-effort: исходную операцию не валим
		logger.WithError(err).Warn("failed to send notification email", "to", msg.To, "subject", msg.Subject)
	}
}
