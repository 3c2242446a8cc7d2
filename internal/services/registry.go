package services

import (
	"hireflow_backend/internal/email"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/sync"
)

// ServiceContainer - контейнер всех сервисов приложения
type ServiceContainer struct {
	Auth       *AuthService
	Users      *UserService
	Jobs       *JobService
	Candidates *CandidateService
	Rounds     *RoundService

	Orchestrator  *PipelineOrchestrator
	Rejections    *RejectionEngine
	Notifications *NotificationService
}

// NewServiceContainer собирает граф сервисов. Единственный путь записи
// current_stage - оркестратор; и ручные операции, и движок отказов
// проходят через него.
func NewServiceContainer(
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	candidateRepo repositories.CandidateRepository,
	roundRepo repositories.RoundRepository,
	feedbackRepo repositories.FeedbackRepository,
	rejectionRepo repositories.RejectionRepository,
	dispatcher *sync.Dispatcher,
	emailProvider email.Provider,
) *ServiceContainer {
	orchestrator := NewPipelineOrchestrator(candidateRepo, dispatcher)
	notifications := NewNotificationService(emailProvider)
	rejections := NewRejectionEngine(rejectionRepo, roundRepo, feedbackRepo, orchestrator)

	return &ServiceContainer{
		Auth:       NewAuthService(userRepo),
		Users:      NewUserService(userRepo),
		Jobs:       NewJobService(jobRepo),
		Candidates: NewCandidateService(candidateRepo, userRepo, jobRepo, rejections, orchestrator, notifications),
		Rounds:     NewRoundService(roundRepo, feedbackRepo, candidateRepo, userRepo, rejections, orchestrator, notifications),

		Orchestrator:  orchestrator,
		Rejections:    rejections,
		Notifications: notifications,
	}
}
