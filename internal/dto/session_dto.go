package dto

import (
	"github.com/google/uuid"
)

// SessionChoiceDTO is one answer option in the attempt's shuffled order.
// Correctness flags never leave the server while a session is live.
type SessionChoiceDTO struct {
	ID             uuid.UUID `json:"id"`
	ChoiceText     *string   `json:"choice_text,omitempty"`
	ChoiceImageURL *string   `json:"choice_image_url,omitempty"`
}

type SessionQuestionDTO struct {
	ID               uuid.UUID          `json:"id"`
	QuestionText     string             `json:"question_text"`
	QuestionType     string             `json:"question_type"`
	QuestionImageURL *string            `json:"question_image_url,omitempty"`
	Choices          []SessionChoiceDTO `json:"choices"`
}

// SessionStateDTO is the full client view of an in-progress session.
type SessionStateDTO struct {
	ExamSetID        uuid.UUID               `json:"exam_set_id"`
	ExamSetName      string                  `json:"exam_set_name"`
	Status           string                  `json:"status"`
	Questions        []SessionQuestionDTO    `json:"questions"`
	Answers          map[uuid.UUID]uuid.UUID `json:"answers"`
	Current          int                     `json:"current"`
	RemainingSeconds int                     `json:"remaining_seconds"`
	TotalQuestions   int                     `json:"total_questions"`
}

type SelectAnswerDTO struct {
	ChoiceID uuid.UUID `json:"choice_id" binding:"required"`
}

type NavigateDTO struct {
	Index     *int   `json:"index"` // explicit goTo target; nil means relative move
	Direction string `json:"direction" binding:"omitempty,oneof=next prev"`
}

// SubmitResponseDTO points the client at the review view for the new attempt.
type SubmitResponseDTO struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
}
