package services

import (
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/sync"

	"gorm.io/gorm"
)

// PipelineOrchestrator - единственный путь записи current_stage.
// Ручное продвижение, создание раундов и движок отказов мутируют
// стадию только через него.
type PipelineOrchestrator struct {
	candidateRepo repositories.CandidateRepository
	dispatcher    *sync.Dispatcher
}

func NewPipelineOrchestrator(candidateRepo repositories.CandidateRepository, dispatcher *sync.Dispatcher) *PipelineOrchestrator {
	return &PipelineOrchestrator{
		candidateRepo: candidateRepo,
		dispatcher:    dispatcher,
	}
}

// ApplyStage пишет current_stage + stage_updated_at внутри транзакции
// вызывающего. Коммит - ответственность вызывающего.
func (o *PipelineOrchestrator) ApplyStage(tx *gorm.DB, candidateID string, stage models.PipelineStage) error {
	return o.candidateRepo.UpdateStage(tx, candidateID, stage)
}

// CandidateChanged ставит кандидата в очередь внешнего зеркала.
// Вызывается ПОСЛЕ коммита; никогда не блокирует и не возвращает ошибку.
func (o *PipelineOrchestrator) CandidateChanged(candidateID string) {
	if o.dispatcher == nil {
		return
	}
	o.dispatcher.Dispatch(candidateID)
}
