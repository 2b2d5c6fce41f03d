package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Choice is one answer option. Exactly one choice per question should carry
// IsCorrect = true; the catalog service rejects writes that violate this.
type Choice struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	QuestionID     uuid.UUID      `json:"question_id" gorm:"type:uuid;not null;index"`
	ChoiceText     *string        `json:"choice_text,omitempty" gorm:"type:text"`
	ChoiceImageURL *string        `json:"choice_image_url,omitempty"`
	IsCorrect      bool           `json:"is_correct" gorm:"not null;default:false"`
	SortOrder      *int           `json:"sort_order,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
