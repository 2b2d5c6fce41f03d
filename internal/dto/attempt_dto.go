package dto

import (
	"time"

	"github.com/google/uuid"
)

type TopicResultDTO struct {
	TopicID uuid.UUID `json:"topic_id"`
	Name    string    `json:"name"`
	Correct int       `json:"correct"`
	Total   int       `json:"total"`
}

type AttemptSummaryDTO struct {
	ID             uuid.UUID `json:"id"`
	ExamSetID      uuid.UUID `json:"exam_set_id"`
	ExamSetName    string    `json:"exam_set_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// AnswerReviewDTO compares the selected choice against the correct one for a
// single question. Read-only; the review view never edits an attempt.
type AnswerReviewDTO struct {
	QuestionID       uuid.UUID           `json:"question_id"`
	QuestionText     string              `json:"question_text"`
	QuestionType     string              `json:"question_type"`
	QuestionImageURL *string             `json:"question_image_url,omitempty"`
	TopicName        string              `json:"topic_name"`
	Choices          []ChoiceResponseDTO `json:"choices"`
	SelectedChoiceID *uuid.UUID          `json:"selected_choice_id,omitempty"`
	CorrectChoiceID  *uuid.UUID          `json:"correct_choice_id,omitempty"`
	IsCorrect        bool                `json:"is_correct"`
}

type AttemptDetailDTO struct {
	ID             uuid.UUID         `json:"id"`
	ExamSetID      uuid.UUID         `json:"exam_set_id"`
	ExamSetName    string            `json:"exam_set_name"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	TopicResults   []TopicResultDTO  `json:"topic_results"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	StartedAt      time.Time         `json:"started_at"`
	CompletedAt    time.Time         `json:"completed_at"`
	Answers        []AnswerReviewDTO `json:"answers"`
}
