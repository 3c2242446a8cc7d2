package repositories

import (
	"errors"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRoundNotFound = errors.New("interview round not found")

type RoundRepository interface {
	Create(db *gorm.DB, round *models.InterviewRound) error
	FindByID(db *gorm.DB, id string) (*models.InterviewRound, error)
	// MaxRoundNumber возвращает наибольший round_number кандидата, 0 если
	// раундов нет. Номер следующего раунда - max+1, а не count+1:
	// пропуски после отмен допустимы.
	MaxRoundNumber(db *gorm.DB, candidateID string) (int, error)
	NumberExists(db *gorm.DB, candidateID string, number int) (bool, error)
	// FindLatestWithFeedback - раунд с наибольшим номером; Feedback
	// преподгружен (может быть nil).
	FindLatest(db *gorm.DB, candidateID string) (*models.InterviewRound, error)
	UpdateStatus(db *gorm.DB, roundID string, status models.RoundStatus) error
	ListByCandidate(db *gorm.DB, candidateID string) ([]models.InterviewRound, error)
}

type RoundRepositoryImpl struct{}

func NewRoundRepository() RoundRepository {
	return &RoundRepositoryImpl{}
}

func (r *RoundRepositoryImpl) Create(db *gorm.DB, round *models.InterviewRound) error {
	return db.Create(round).Error
}

func (r *RoundRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.InterviewRound, error) {
	var round models.InterviewRound
	err := db.Preload("Feedback").Preload("Interviewer").First(&round, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (r *RoundRepositoryImpl) MaxRoundNumber(db *gorm.DB, candidateID string) (int, error) {
	var max *int
	err := db.Model(&models.InterviewRound{}).
		Where("candidate_id = ?", candidateID).
		Select("MAX(round_number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *RoundRepositoryImpl) NumberExists(db *gorm.DB, candidateID string, number int) (bool, error) {
	var count int64
	err := db.Model(&models.InterviewRound{}).
		Where("candidate_id = ? AND round_number = ?", candidateID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RoundRepositoryImpl) FindLatest(db *gorm.DB, candidateID string) (*models.InterviewRound, error) {
	var round models.InterviewRound
	err := db.Preload("Feedback").
		Where("candidate_id = ?", candidateID).
		Order("round_number DESC").
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (r *RoundRepositoryImpl) UpdateStatus(db *gorm.DB, roundID string, status models.RoundStatus) error {
	result := db.Model(&models.InterviewRound{}).
		Where("id = ?", roundID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoundNotFound
	}
	return nil
}

func (r *RoundRepositoryImpl) ListByCandidate(db *gorm.DB, candidateID string) ([]models.InterviewRound, error) {
	var rounds []models.InterviewRound
	err := db.Preload("Feedback").Preload("Interviewer").
		Where("candidate_id = ?", candidateID).
		Order("round_number ASC").
		Find(&rounds).Error
	if err != nil {
		return nil, err
	}
	return rounds, nil
}
