package service

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/repository"
)

// AttemptService serves the read-only review/reporting side of persisted
// attempts.
type AttemptService interface {
	GetAttemptDetails(attemptID, userID uuid.UUID) (*dto.AttemptDetailDTO, error)
	ListUserAttempts(userID uuid.UUID) ([]dto.AttemptSummaryDTO, error)
}

type attemptService struct {
	attemptRepo repository.AttemptRepository
}

func NewAttemptService(attemptRepo repository.AttemptRepository) AttemptService {
	return &attemptService{attemptRepo: attemptRepo}
}

func (s *attemptService) GetAttemptDetails(attemptID, userID uuid.UUID) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		return nil, fmt.Errorf("attempt not found with ID %s: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("attempt %s does not belong to the current user", attemptID)
	}

	resp := dto.AttemptDetailDTO{
		ID:             attempt.ID,
		ExamSetID:      attempt.ExamSetID,
		ExamSetName:    attempt.ExamSet.Name,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		StartedAt:      attempt.StartedAt,
		CompletedAt:    attempt.CompletedAt,
		ElapsedSeconds: int(attempt.CompletedAt.Sub(attempt.StartedAt).Seconds()),
	}

	var topicResults map[string]model.TopicResult
	if err := json.Unmarshal(attempt.TopicResults, &topicResults); err != nil {
		log.Warn().Err(err).Str("attemptID", attemptID.String()).Msg("Could not decode topic results")
	}
	for idStr, tally := range topicResults {
		topicID, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		resp.TopicResults = append(resp.TopicResults, dto.TopicResultDTO{
			TopicID: topicID,
			Name:    tally.Name,
			Correct: tally.Correct,
			Total:   tally.Total,
		})
	}
	sort.Slice(resp.TopicResults, func(i, j int) bool {
		return resp.TopicResults[i].Name < resp.TopicResults[j].Name
	})

	for _, detail := range attempt.Details {
		review := dto.AnswerReviewDTO{
			QuestionID:       detail.QuestionID,
			QuestionText:     detail.Question.QuestionText,
			QuestionType:     detail.Question.QuestionType,
			QuestionImageURL: detail.Question.QuestionImageURL,
			TopicName:        detail.Question.Topic.Name,
			SelectedChoiceID: detail.SelectedChoiceID,
			IsCorrect:        detail.IsCorrect,
		}
		for _, choice := range detail.Question.Choices {
			var choiceDTO dto.ChoiceResponseDTO
			copier.Copy(&choiceDTO, &choice)
			review.Choices = append(review.Choices, choiceDTO)
			if choice.IsCorrect {
				correctID := choice.ID
				review.CorrectChoiceID = &correctID
			}
		}
		resp.Answers = append(resp.Answers, review)
	}

	return &resp, nil
}

func (s *attemptService) ListUserAttempts(userID uuid.UUID) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}
	dtos := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for _, attempt := range attempts {
		dtos = append(dtos, dto.AttemptSummaryDTO{
			ID:             attempt.ID,
			ExamSetID:      attempt.ExamSetID,
			ExamSetName:    attempt.ExamSet.Name,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			StartedAt:      attempt.StartedAt,
			CompletedAt:    attempt.CompletedAt,
		})
	}
	return dtos, nil
}
