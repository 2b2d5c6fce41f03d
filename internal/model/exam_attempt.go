package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TopicResult is one entry of the attempt's per-topic breakdown, stored as JSONB.
type TopicResult struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Name    string `json:"name"`
}

// ExamAttempt is one completed run of a user through an assembled question
// sequence. Created once, at submission time, together with its answer details;
// never mutated after.
type ExamAttempt struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index"`
	ExamSetID      uuid.UUID          `json:"exam_set_id" gorm:"type:uuid;not null;index"`
	ExamSet        ExamSet            `json:"exam_set,omitempty" gorm:"foreignKey:ExamSetID"`
	Score          int                `json:"score" gorm:"not null"`
	TotalQuestions int                `json:"total_questions" gorm:"not null"`
	TopicResults   datatypes.JSON     `json:"topic_results" gorm:"type:jsonb"`
	StartedAt      time.Time          `json:"started_at" gorm:"not null"`
	CompletedAt    time.Time          `json:"completed_at" gorm:"not null"`
	Details        []ExamAnswerDetail `json:"details,omitempty" gorm:"foreignKey:ExamAttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`
}
