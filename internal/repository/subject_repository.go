package repository

import (
	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/model"
	"gorm.io/gorm"
)

type SubjectRepository interface {
	Create(subject *model.Subject) error
	FindByID(id uuid.UUID) (*model.Subject, error)
	FindAllWithTopics() ([]model.Subject, error)
	Update(subject *model.Subject) error
	Delete(id uuid.UUID) error
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *model.Subject) error {
	return r.db.Create(subject).Error
}

func (r *subjectRepository) FindByID(id uuid.UUID) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.Preload("Topics").First(&subject, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) FindAllWithTopics() ([]model.Subject, error) {
	var subjects []model.Subject
	if err := r.db.Preload("Topics").Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) Update(subject *model.Subject) error {
	return r.db.Save(subject).Error
}

func (r *subjectRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Subject{}, "id = ?", id).Error
}
