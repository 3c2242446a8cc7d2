package repositories

import (
	"errors"
	"time"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	Create(db *gorm.DB, candidate *models.Candidate) error
	FindByID(db *gorm.DB, id string) (*models.Candidate, error)
	// FindByIDForUpdate читает кандидата под row-level блокировкой.
	// Все мутирующие потоки перечитывают строку внутри транзакции,
	// чтобы не терять конкурентные обновления стадии.
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Candidate, error)
	FindByEmail(db *gorm.DB, email string) (*models.Candidate, error)
	Update(db *gorm.DB, candidate *models.Candidate) error
	UpdateStage(db *gorm.DB, candidateID string, stage models.PipelineStage) error
	Delete(db *gorm.DB, id string) error
	FindAll(db *gorm.DB, filter CandidateFilter) ([]models.Candidate, int64, error)
	CountByStage(db *gorm.DB, jobID string) (map[models.PipelineStage]int64, error)
}

type CandidateFilter struct {
	JobID       string
	RecruiterID string
	Stage       models.PipelineStage
	Search      string
	Limit       int
	Offset      int
}

type CandidateRepositoryImpl struct{}

func NewCandidateRepository() CandidateRepository {
	return &CandidateRepositoryImpl{}
}

func (r *CandidateRepositoryImpl) Create(db *gorm.DB, candidate *models.Candidate) error {
	return db.Create(candidate).Error
}

func (r *CandidateRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := db.
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Preload("Rounds.Feedback").
		Preload("Rounds.Interviewer").
		Preload("Rejection").
		Preload("Job").
		First(&candidate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *CandidateRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&candidate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *CandidateRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := db.First(&candidate, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *CandidateRepositoryImpl) Update(db *gorm.DB, candidate *models.Candidate) error {
	return db.Save(candidate).Error
}

func (r *CandidateRepositoryImpl) UpdateStage(db *gorm.DB, candidateID string, stage models.PipelineStage) error {
	result := db.Model(&models.Candidate{}).
		Where("id = ?", candidateID).
		Updates(map[string]interface{}{
			"current_stage":    stage,
			"stage_updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Candidate{}, "id = ?", id).Error
}

func (r *CandidateRepositoryImpl) FindAll(db *gorm.DB, filter CandidateFilter) ([]models.Candidate, int64, error) {
	query := db.Model(&models.Candidate{})

	if filter.JobID != "" {
		query = query.Where("job_id = ?", filter.JobID)
	}
	if filter.RecruiterID != "" {
		query = query.Where("recruiter_id = ?", filter.RecruiterID)
	}
	if filter.Stage != "" {
		query = query.Where("current_stage = ?", filter.Stage)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var candidates []models.Candidate
	if err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&candidates).Error; err != nil {
		return nil, 0, err
	}
	return candidates, total, nil
}

func (r *CandidateRepositoryImpl) CountByStage(db *gorm.DB, jobID string) (map[models.PipelineStage]int64, error) {
	type row struct {
		CurrentStage models.PipelineStage
		Count        int64
	}

	query := db.Model(&models.Candidate{}).
		Select("current_stage, count(*) as count").
		Group("current_stage")
	if jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[models.PipelineStage]int64, len(rows))
	for _, r := range rows {
		out[r.CurrentStage] = r.Count
	}
	return out, nil
}
