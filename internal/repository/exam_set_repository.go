package repository

import (
	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/model"
	"gorm.io/gorm"
)

type ExamSetRepository interface {
	Create(set *model.ExamSet) error
	FindByID(id uuid.UUID) (*model.ExamSet, error)
	FindByIDWithTopics(id uuid.UUID) (*model.ExamSet, error)
	FindAll() ([]model.ExamSet, error)
	FindPublished() ([]model.ExamSet, error)
	Update(set *model.ExamSet) error
	ReplaceTopics(setID uuid.UUID, topics []model.ExamSetTopic) error
	Delete(id uuid.UUID) error
}

type examSetRepository struct {
	db *gorm.DB
}

func NewExamSetRepository(db *gorm.DB) ExamSetRepository {
	return &examSetRepository{db: db}
}

func (r *examSetRepository) Create(set *model.ExamSet) error {
	return r.db.Create(set).Error
}

func (r *examSetRepository) FindByID(id uuid.UUID) (*model.ExamSet, error) {
	var set model.ExamSet
	if err := r.db.First(&set, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *examSetRepository) FindByIDWithTopics(id uuid.UUID) (*model.ExamSet, error) {
	var set model.ExamSet
	err := r.db.Preload("Topics", func(db *gorm.DB) *gorm.DB {
		return db.Order("exam_set_topics.sort_order ASC")
	}).Preload("Topics.Topic").First(&set, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *examSetRepository) FindAll() ([]model.ExamSet, error) {
	var sets []model.ExamSet
	err := r.db.Preload("Topics").Order("created_at DESC").Find(&sets).Error
	return sets, err
}

func (r *examSetRepository) FindPublished() ([]model.ExamSet, error) {
	var sets []model.ExamSet
	err := r.db.Where("status = ?", model.ExamSetStatusPublished).
		Order("featured DESC, created_at DESC").
		Find(&sets).Error
	return sets, err
}

func (r *examSetRepository) Update(set *model.ExamSet) error {
	return r.db.Save(set).Error
}

// ReplaceTopics swaps an exam set's topic weights as a single unit. The
// delete and insert share one transaction so a failure leaves no half state.
func (r *examSetRepository) ReplaceTopics(setID uuid.UUID, topics []model.ExamSetTopic) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_set_id = ?", setID).Delete(&model.ExamSetTopic{}).Error; err != nil {
			return err
		}
		if len(topics) == 0 {
			return nil
		}
		for i := range topics {
			topics[i].ExamSetID = setID
		}
		return tx.Create(&topics).Error
	})
}

func (r *examSetRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_set_id = ?", id).Delete(&model.ExamSetTopic{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ExamSet{}, "id = ?", id).Error
	})
}
