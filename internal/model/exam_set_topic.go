package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamSetTopic is a topic weight: how many questions an exam set draws from a
// topic and where that block sits in the presentation order.
type ExamSetTopic struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ExamSetID     uuid.UUID `json:"exam_set_id" gorm:"type:uuid;not null;index"`
	TopicID       uuid.UUID `json:"topic_id" gorm:"type:uuid;not null;index"`
	Topic         Topic     `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	QuestionCount int       `json:"question_count" gorm:"not null"`
	SortOrder     int       `json:"sort_order" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
