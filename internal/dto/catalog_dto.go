package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Subjects & Topics ---

type SubjectCreateDTO struct {
	Name string `json:"name" binding:"required"`
}

type SubjectResponseDTO struct {
	ID     uuid.UUID          `json:"id"`
	Name   string             `json:"name"`
	Topics []TopicResponseDTO `json:"topics,omitempty"`
}

type TopicCreateDTO struct {
	Name      string    `json:"name" binding:"required"`
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
}

type TopicResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SubjectID uuid.UUID `json:"subject_id"`
}

// --- Questions & Choices ---

// ChoiceCreateDTO is used within QuestionCreateDTO. Either text or image
// payload must be present; exactly one choice per question may be correct.
type ChoiceCreateDTO struct {
	ChoiceText     *string `json:"choice_text"`
	ChoiceImageURL *string `json:"choice_image_url"`
	IsCorrect      bool    `json:"is_correct"`
	SortOrder      *int    `json:"sort_order"`
}

type QuestionCreateDTO struct {
	TopicID          uuid.UUID         `json:"topic_id" binding:"required"`
	QuestionText     string            `json:"question_text"`
	QuestionType     string            `json:"question_type" binding:"required,oneof=text image"`
	QuestionImageURL *string           `json:"question_image_url"`
	GroupID          *uuid.UUID        `json:"group_id"`
	GroupOrder       *int              `json:"group_order"`
	Choices          []ChoiceCreateDTO `json:"choices" binding:"required,min=2,dive"`
}

type ChoiceResponseDTO struct {
	ID             uuid.UUID `json:"id"`
	ChoiceText     *string   `json:"choice_text,omitempty"`
	ChoiceImageURL *string   `json:"choice_image_url,omitempty"`
	IsCorrect      bool      `json:"is_correct"`
	SortOrder      *int      `json:"sort_order,omitempty"`
}

type QuestionResponseDTO struct {
	ID               uuid.UUID           `json:"id"`
	TopicID          uuid.UUID           `json:"topic_id"`
	QuestionText     string              `json:"question_text"`
	QuestionType     string              `json:"question_type"`
	QuestionImageURL *string             `json:"question_image_url,omitempty"`
	GroupID          *uuid.UUID          `json:"group_id,omitempty"`
	GroupOrder       *int                `json:"group_order,omitempty"`
	Choices          []ChoiceResponseDTO `json:"choices,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// UploadResponseDTO is returned by the image upload endpoint.
type UploadResponseDTO struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}
