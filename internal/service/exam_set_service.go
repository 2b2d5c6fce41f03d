package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/repository"
)

type ExamSetService interface {
	Create(req dto.ExamSetCreateDTO) (*dto.ExamSetResponseDTO, error)
	Get(id uuid.UUID) (*dto.ExamSetResponseDTO, error)
	ListAll() ([]dto.ExamSetResponseDTO, error)
	ListPublished() ([]dto.ExamSetSummaryDTO, error)
	Update(id uuid.UUID, req dto.ExamSetUpdateDTO) (*dto.ExamSetResponseDTO, error)
	SetStatus(id uuid.UUID, status string) (*dto.ExamSetResponseDTO, error)
	Delete(id uuid.UUID) error
}

type examSetService struct {
	examSetRepo  repository.ExamSetRepository
	topicRepo    repository.TopicRepository
	questionRepo repository.QuestionRepository
}

func NewExamSetService(
	examSetRepo repository.ExamSetRepository,
	topicRepo repository.TopicRepository,
	questionRepo repository.QuestionRepository,
) ExamSetService {
	return &examSetService{
		examSetRepo:  examSetRepo,
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
	}
}

func (s *examSetService) Create(req dto.ExamSetCreateDTO) (*dto.ExamSetResponseDTO, error) {
	if err := s.validateWeights(req.TopicWeights); err != nil {
		return nil, err
	}

	set := model.ExamSet{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Status:      model.ExamSetStatusDraft,
		Featured:    req.Featured,
	}
	for _, w := range req.TopicWeights {
		set.Topics = append(set.Topics, model.ExamSetTopic{
			TopicID:       w.TopicID,
			QuestionCount: w.QuestionCount,
			SortOrder:     w.SortOrder,
		})
	}

	if err := s.examSetRepo.Create(&set); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Create exam set: database error")
		return nil, fmt.Errorf("database error creating exam set: %w", err)
	}
	return s.Get(set.ID)
}

func (s *examSetService) Get(id uuid.UUID) (*dto.ExamSetResponseDTO, error) {
	set, err := s.examSetRepo.FindByIDWithTopics(id)
	if err != nil {
		return nil, fmt.Errorf("exam set not found with ID %s: %w", id, err)
	}
	return s.toResponse(set), nil
}

func (s *examSetService) ListAll() ([]dto.ExamSetResponseDTO, error) {
	sets, err := s.examSetRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching exam sets: %w", err)
	}
	dtos := make([]dto.ExamSetResponseDTO, 0, len(sets))
	for i := range sets {
		dtos = append(dtos, *s.toResponse(&sets[i]))
	}
	return dtos, nil
}

func (s *examSetService) ListPublished() ([]dto.ExamSetSummaryDTO, error) {
	sets, err := s.examSetRepo.FindPublished()
	if err != nil {
		return nil, fmt.Errorf("error fetching published exam sets: %w", err)
	}
	dtos := make([]dto.ExamSetSummaryDTO, 0, len(sets))
	for _, set := range sets {
		withTopics, err := s.examSetRepo.FindByIDWithTopics(set.ID)
		if err != nil {
			log.Warn().Err(err).Str("examSetID", set.ID.String()).Msg("ListPublished: could not load topic weights")
			continue
		}
		total := 0
		for _, w := range withTopics.Topics {
			total += w.QuestionCount
		}
		var summary dto.ExamSetSummaryDTO
		copier.Copy(&summary, &set)
		summary.QuestionCount = total
		dtos = append(dtos, summary)
	}
	return dtos, nil
}

func (s *examSetService) Update(id uuid.UUID, req dto.ExamSetUpdateDTO) (*dto.ExamSetResponseDTO, error) {
	if err := s.validateWeights(req.TopicWeights); err != nil {
		return nil, err
	}
	set, err := s.examSetRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("exam set not found with ID %s: %w", id, err)
	}

	set.Name = req.Name
	set.Description = req.Description
	set.Duration = req.Duration
	set.Featured = req.Featured
	if err := s.examSetRepo.Update(set); err != nil {
		return nil, fmt.Errorf("database error updating exam set: %w", err)
	}

	topics := make([]model.ExamSetTopic, 0, len(req.TopicWeights))
	for _, w := range req.TopicWeights {
		topics = append(topics, model.ExamSetTopic{
			TopicID:       w.TopicID,
			QuestionCount: w.QuestionCount,
			SortOrder:     w.SortOrder,
		})
	}
	if err := s.examSetRepo.ReplaceTopics(id, topics); err != nil {
		return nil, fmt.Errorf("database error replacing topic weights: %w", err)
	}
	return s.Get(id)
}

func (s *examSetService) SetStatus(id uuid.UUID, status string) (*dto.ExamSetResponseDTO, error) {
	set, err := s.examSetRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("exam set not found with ID %s: %w", id, err)
	}
	set.Status = status
	if err := s.examSetRepo.Update(set); err != nil {
		return nil, fmt.Errorf("database error updating exam set status: %w", err)
	}
	return s.Get(id)
}

func (s *examSetService) Delete(id uuid.UUID) error {
	return s.examSetRepo.Delete(id)
}

// validateWeights rejects unknown topics and duplicate sort orders. A
// question_count exceeding the topic's current pool is logged, not rejected:
// the pool may grow before the set is published.
func (s *examSetService) validateWeights(weights []dto.TopicWeightDTO) error {
	seenOrder := make(map[int]bool)
	seenTopic := make(map[uuid.UUID]bool)
	for _, w := range weights {
		if seenOrder[w.SortOrder] {
			return fmt.Errorf("duplicate sort_order %d in topic weights", w.SortOrder)
		}
		seenOrder[w.SortOrder] = true

		if seenTopic[w.TopicID] {
			return fmt.Errorf("topic %s listed twice in topic weights", w.TopicID)
		}
		seenTopic[w.TopicID] = true

		if _, err := s.topicRepo.FindByID(w.TopicID); err != nil {
			return fmt.Errorf("topic not found with ID %s: %w", w.TopicID, err)
		}

		available, err := s.questionRepo.CountByTopicID(w.TopicID)
		if err != nil {
			return fmt.Errorf("error counting questions for topic %s: %w", w.TopicID, err)
		}
		if int64(w.QuestionCount) > available {
			log.Warn().
				Str("topicID", w.TopicID.String()).
				Int("requested", w.QuestionCount).
				Int64("available", available).
				Msg("Topic weight exceeds current question pool")
		}
	}
	return nil
}

func (s *examSetService) toResponse(set *model.ExamSet) *dto.ExamSetResponseDTO {
	var resp dto.ExamSetResponseDTO
	copier.Copy(&resp, set)
	resp.Topics = make([]dto.ExamSetTopicResponseDTO, 0, len(set.Topics))
	for _, w := range set.Topics {
		resp.Topics = append(resp.Topics, dto.ExamSetTopicResponseDTO{
			TopicID:       w.TopicID,
			TopicName:     w.Topic.Name,
			QuestionCount: w.QuestionCount,
			SortOrder:     w.SortOrder,
		})
	}
	return &resp
}
