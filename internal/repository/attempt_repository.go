package repository

import (
	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	CreateWithDetails(attempt *model.ExamAttempt) error
	FindByID(id uuid.UUID) (*model.ExamAttempt, error)
	FindByIDWithDetails(id uuid.UUID) (*model.ExamAttempt, error)
	FindAllByUser(userID uuid.UUID) ([]model.ExamAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// CreateWithDetails persists the attempt and its answer detail rows in one
// transaction: either both land or neither does, so no orphaned attempt is
// ever left behind.
func (r *attemptRepository) CreateWithDetails(attempt *model.ExamAttempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(attempt).Error
	})
}

func (r *attemptRepository) FindByID(id uuid.UUID) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.First(&attempt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uuid.UUID) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.
		Preload("ExamSet").
		Preload("Details.Question.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.sort_order ASC NULLS LAST, choices.created_at ASC")
		}).
		Preload("Details.Question.Topic").
		First(&attempt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByUser(userID uuid.UUID) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.Preload("ExamSet").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&attempts).Error
	return attempts, err
}
