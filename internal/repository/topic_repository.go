package repository

import (
	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/model"
	"gorm.io/gorm"
)

type TopicRepository interface {
	Create(topic *model.Topic) error
	FindByID(id uuid.UUID) (*model.Topic, error)
	FindBySubjectID(subjectID uuid.UUID) ([]model.Topic, error)
	FindAll() ([]model.Topic, error)
	Update(topic *model.Topic) error
	Delete(id uuid.UUID) error
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(topic *model.Topic) error {
	return r.db.Create(topic).Error
}

func (r *topicRepository) FindByID(id uuid.UUID) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.First(&topic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindBySubjectID(subjectID uuid.UUID) ([]model.Topic, error) {
	var topics []model.Topic
	if err := r.db.Where("subject_id = ?", subjectID).Order("name ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) FindAll() ([]model.Topic, error) {
	var topics []model.Topic
	if err := r.db.Preload("Subject").Order("name ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) Update(topic *model.Topic) error {
	return r.db.Save(topic).Error
}

func (r *topicRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Topic{}, "id = ?", id).Error
}
