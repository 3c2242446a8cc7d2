package workers

import (
	"context"
	"time"

	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/sync"

	"gorm.io/gorm"
)

// SyncWorker разгребает очередь диспетчера и толкает снапшоты
// кандидатов во внешнее зеркало. Ошибки зеркала логируются и
// отбрасываются - это best-effort граница.
type SyncWorker struct {
	db            *gorm.DB
	dispatcher    *sync.Dispatcher
	mirror        sync.Mirror
	candidateRepo repositories.CandidateRepository
}

func NewSyncWorker(
	db *gorm.DB,
	dispatcher *sync.Dispatcher,
	mirror sync.Mirror,
) *SyncWorker {
	return &SyncWorker{
		db:            db,
		dispatcher:    dispatcher,
		mirror:        mirror,
		candidateRepo: repositories.NewCandidateRepository(),
	}
}

// Start запускает фоновую обработку очереди
func (w *SyncWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SyncWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("sync worker stopped")
			return
		case candidateID := <-w.dispatcher.Queue():
			w.syncOne(ctx, candidateID)
		}
	}
}

func (w *SyncWorker) syncOne(ctx context.Context, candidateID string) {
	snapshot, err := w.buildSnapshot(candidateID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to build candidate snapshot", err, "candidate_id", candidateID)
		return
	}

	if err := w.mirror.SyncCandidate(ctx, *snapshot); err != nil {
		logger.CtxWithError(ctx, "mirror sync failed", err, "candidate_id", candidateID)
	}
}

func (w *SyncWorker) buildSnapshot(candidateID string) (*sync.CandidateSnapshot, error) {
	candidate, err := w.candidateRepo.FindByID(w.db, candidateID)
	if err != nil {
		return nil, err
	}

	snapshot := &sync.CandidateSnapshot{
		CandidateID:    candidate.ID,
		FullName:       candidate.FullName,
		Email:          candidate.Email,
		CurrentStage:   candidate.CurrentStage,
		StageUpdatedAt: candidate.StageUpdatedAt,
		SyncedAt:       time.Now(),
	}
	if candidate.Job != nil {
		snapshot.JobTitle = candidate.Job.Title
	}
	if candidate.Rejection != nil {
		snapshot.RejectionNotes = candidate.Rejection.Notes
	}
	if last := latestRound(candidate.Rounds); last != nil {
		snapshot.LastRoundType = string(last.RoundType)
		scheduledAt := last.ScheduledAt
		snapshot.LastRoundAt = &scheduledAt
	}

	return snapshot, nil
}

func latestRound(rounds []models.InterviewRound) *models.InterviewRound {
	if len(rounds) == 0 {
		return nil
	}
	last := rounds[0]
	for _, r := range rounds[1:] {
		if r.RoundNumber > last.RoundNumber {
			last = r
		}
	}
	return &last
}
