package repositories

import (
	"errors"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepository намеренно не имеет Update/Delete: фидбек
// неизменяем после создания.
type FeedbackRepository interface {
	Create(db *gorm.DB, feedback *models.Feedback) error
	FindByID(db *gorm.DB, id string) (*models.Feedback, error)
	FindByRoundID(db *gorm.DB, roundID string) (*models.Feedback, error)
	ExistsForRound(db *gorm.DB, roundID string) (bool, error)
}

type FeedbackRepositoryImpl struct{}

func NewFeedbackRepository() FeedbackRepository {
	return &FeedbackRepositoryImpl{}
}

func (r *FeedbackRepositoryImpl) Create(db *gorm.DB, feedback *models.Feedback) error {
	return db.Create(feedback).Error
}

func (r *FeedbackRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := db.First(&feedback, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepositoryImpl) FindByRoundID(db *gorm.DB, roundID string) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := db.First(&feedback, "round_id = ?", roundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepositoryImpl) ExistsForRound(db *gorm.DB, roundID string) (bool, error) {
	var count int64
	err := db.Model(&models.Feedback{}).Where("round_id = ?", roundID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
