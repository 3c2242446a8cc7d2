// Package sync - граница best-effort зеркалирования кандидатов во
// внешнюю таблицу (Google Sheets и т.п.). Ошибки зеркала логируются
// и никогда не влияют на исходную транзакцию.
package sync

import (
	"context"
	"time"

	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
)

// CandidateSnapshot - плоская строка для внешнего зеркала
type CandidateSnapshot struct {
	CandidateID    string               `json:"candidate_id"`
	FullName       string               `json:"full_name"`
	Email          string               `json:"email"`
	JobTitle       string               `json:"job_title"`
	CurrentStage   models.PipelineStage `json:"current_stage"`
	StageUpdatedAt time.Time            `json:"stage_updated_at"`
	LastRoundType  string               `json:"last_round_type,omitempty"`
	LastRoundAt    *time.Time           `json:"last_round_at,omitempty"`
	RejectionNotes string               `json:"rejection_notes,omitempty"`
	SyncedAt       time.Time            `json:"synced_at"`
}

// Mirror - внешнее зеркало. Реализация обязана быть идемпотентной:
// повторные вызовы для одного кандидата допустимы и ожидаемы.
type Mirror interface {
	SyncCandidate(ctx context.Context, snapshot CandidateSnapshot) error
}

// LogMirror - дефолтная реализация: только пишет в лог.
// Точка подключения реального клиента таблиц.
type LogMirror struct{}

func NewLogMirror() *LogMirror {
	return &LogMirror{}
}

func (m *LogMirror) SyncCandidate(ctx context.Context, snapshot CandidateSnapshot) error {
	logger.CtxDebug(ctx, "mirror sync",
		"candidate_id", snapshot.CandidateID,
		"stage", snapshot.CurrentStage,
	)
	return nil
}
