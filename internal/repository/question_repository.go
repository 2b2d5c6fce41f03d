package repository

import (
	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uuid.UUID) (*model.Question, error)
	FindByIDWithChoices(id uuid.UUID) (*model.Question, error)
	FindByTopicID(topicID uuid.UUID) ([]model.Question, error)
	FindPoolByTopicID(topicID uuid.UUID) ([]model.Question, error)
	FindByIDs(ids []uuid.UUID) ([]model.Question, error)
	FindCorrectChoices(questionIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	CountByTopicID(topicID uuid.UUID) (int64, error)
	Update(question *model.Question) error
	ReplaceChoices(questionID uuid.UUID, choices []model.Choice) error
	Delete(id uuid.UUID) error
	IsReferencedByAttempt(id uuid.UUID) (bool, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	// GORM creates the associated choices together with the question.
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uuid.UUID) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDWithChoices(id uuid.UUID) (*model.Question, error) {
	var question model.Question
	err := r.db.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("choices.sort_order ASC NULLS LAST, choices.created_at ASC")
	}).First(&question, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByTopicID(topicID uuid.UUID) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("Choices").
		Where("topic_id = ?", topicID).
		Order("created_at DESC").
		Find(&questions).Error
	return questions, err
}

// FindPoolByTopicID loads the assembly pool for a topic with choices, in a
// stable base order; exam assembly applies group-aware ordering on top.
func (r *questionRepository) FindPoolByTopicID(topicID uuid.UUID) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("Choices").
		Where("topic_id = ?", topicID).
		Order("created_at ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindByIDs(ids []uuid.UUID) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("Choices").Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// FindCorrectChoices resolves the authoritative correct choice per question.
// Fetched fresh at submission time; the client's shuffled view is never trusted.
func (r *questionRepository) FindCorrectChoices(questionIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	var choices []model.Choice
	err := r.db.Where("question_id IN ? AND is_correct = ?", questionIDs, true).Find(&choices).Error
	if err != nil {
		return nil, err
	}
	correct := make(map[uuid.UUID]uuid.UUID, len(choices))
	for _, c := range choices {
		correct[c.QuestionID] = c.ID
	}
	return correct, nil
}

func (r *questionRepository) CountByTopicID(topicID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("topic_id = ?", topicID).Count(&count).Error
	return count, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

// ReplaceChoices swaps a question's choices as a unit inside one transaction.
func (r *questionRepository) ReplaceChoices(questionID uuid.UUID, choices []model.Choice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", questionID).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		for i := range choices {
			choices[i].QuestionID = questionID
		}
		return tx.Create(&choices).Error
	})
}

func (r *questionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Question{}, "id = ?", id).Error
}

func (r *questionRepository) IsReferencedByAttempt(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.ExamAnswerDetail{}).Where("question_id = ?", id).Count(&count).Error
	return count > 0, err
}
