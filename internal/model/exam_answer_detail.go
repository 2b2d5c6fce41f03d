package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamAnswerDetail is one row per question in an attempt's sequence.
// SelectedChoiceID is nil when the question was left unanswered.
type ExamAnswerDetail struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ExamAttemptID    uuid.UUID  `json:"exam_attempt_id" gorm:"type:uuid;not null;index"`
	QuestionID       uuid.UUID  `json:"question_id" gorm:"type:uuid;not null;index"`
	Question         Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedChoiceID *uuid.UUID `json:"selected_choice_id,omitempty" gorm:"type:uuid"`
	IsCorrect        bool       `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt        time.Time  `json:"created_at"`
}
