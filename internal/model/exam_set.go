package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExamSetStatusDraft     = "draft"
	ExamSetStatusPublished = "published"
	ExamSetStatusArchived  = "archived"
)

// ExamSet is a named, timed bundle of topic weights defining an exam.
type ExamSet struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Duration    int            `json:"duration" gorm:"not null"` // minutes
	Status      string         `json:"status" gorm:"not null;default:'draft'"` // "draft", "published", "archived"
	Featured    bool           `json:"featured" gorm:"not null;default:false"`
	Topics      []ExamSetTopic `json:"topics,omitempty" gorm:"foreignKey:ExamSetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
