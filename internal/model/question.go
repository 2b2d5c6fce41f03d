package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeText  = "text"
	QuestionTypeImage = "image"
)

// Question is immutable once an exam attempt references it; there is no versioning.
type Question struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TopicID          uuid.UUID      `json:"topic_id" gorm:"type:uuid;not null;index"`
	Topic            Topic          `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	QuestionText     string         `json:"question_text" gorm:"type:text"`
	QuestionType     string         `json:"question_type" gorm:"not null;default:'text'"` // "text", "image"
	QuestionImageURL *string        `json:"question_image_url,omitempty"`
	GroupID          *uuid.UUID     `json:"group_id,omitempty" gorm:"type:uuid;index"`
	GroupOrder       *int           `json:"group_order,omitempty"`
	Choices          []Choice       `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
