package dto

import (
	"time"

	"github.com/google/uuid"
)

// TopicWeightDTO is one (topic, question_count, sort_order) tuple of an exam set.
type TopicWeightDTO struct {
	TopicID       uuid.UUID `json:"topic_id" binding:"required"`
	QuestionCount int       `json:"question_count" binding:"required,gt=0"`
	SortOrder     int       `json:"sort_order"`
}

type ExamSetCreateDTO struct {
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	Duration     int              `json:"duration" binding:"required,gt=0"` // minutes
	Featured     bool             `json:"featured"`
	TopicWeights []TopicWeightDTO `json:"topic_weights" binding:"omitempty,dive"`
}

type ExamSetUpdateDTO struct {
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	Duration     int              `json:"duration" binding:"required,gt=0"`
	Featured     bool             `json:"featured"`
	TopicWeights []TopicWeightDTO `json:"topic_weights" binding:"omitempty,dive"`
}

type ExamSetStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=draft published archived"`
}

type ExamSetTopicResponseDTO struct {
	TopicID       uuid.UUID `json:"topic_id"`
	TopicName     string    `json:"topic_name"`
	QuestionCount int       `json:"question_count"`
	SortOrder     int       `json:"sort_order"`
}

type ExamSetResponseDTO struct {
	ID          uuid.UUID                 `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Duration    int                       `json:"duration"`
	Status      string                    `json:"status"`
	Featured    bool                      `json:"featured"`
	Topics      []ExamSetTopicResponseDTO `json:"topics,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// ExamSetSummaryDTO is the listing entry shown to test-takers.
type ExamSetSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Duration      int       `json:"duration"`
	Featured      bool      `json:"featured"`
	QuestionCount int       `json:"question_count"`
}
