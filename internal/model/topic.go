package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Topic struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string         `json:"name" gorm:"not null"`
	SubjectID uuid.UUID      `json:"subject_id" gorm:"type:uuid;not null;index"`
	Subject   Subject        `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:TopicID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
