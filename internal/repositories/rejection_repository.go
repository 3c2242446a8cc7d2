package repositories

import (
	"errors"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRejectionNotFound = errors.New("rejection reason not found")

type RejectionRepository interface {
	// Upsert - единственный путь записи RejectionReason: insert-or-update
	// по natural key candidate_id одним атомарным выражением, чтобы не
	// плодить дубликаты при гонке read-then-write.
	Upsert(db *gorm.DB, rejection *models.RejectionReason) error
	FindByCandidateID(db *gorm.DB, candidateID string) (*models.RejectionReason, error)
}

type RejectionRepositoryImpl struct{}

func NewRejectionRepository() RejectionRepository {
	return &RejectionRepositoryImpl{}
}

func (r *RejectionRepositoryImpl) Upsert(db *gorm.DB, rejection *models.RejectionReason) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"feedback_id", "category", "notes", "updated_at"}),
	}).Create(rejection).Error
}

func (r *RejectionRepositoryImpl) FindByCandidateID(db *gorm.DB, candidateID string) (*models.RejectionReason, error) {
	var rejection models.RejectionReason
	if err := db.First(&rejection, "candidate_id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRejectionNotFound
		}
		return nil, err
	}
	return &rejection, nil
}
