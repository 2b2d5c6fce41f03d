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

// CatalogService covers the authoring side: subjects, topics, questions and
// their choices.
type CatalogService interface {
	CreateSubject(req dto.SubjectCreateDTO) (*dto.SubjectResponseDTO, error)
	ListSubjects() ([]dto.SubjectResponseDTO, error)
	UpdateSubject(id uuid.UUID, req dto.SubjectCreateDTO) (*dto.SubjectResponseDTO, error)
	DeleteSubject(id uuid.UUID) error

	CreateTopic(req dto.TopicCreateDTO) (*dto.TopicResponseDTO, error)
	ListTopics(subjectID *uuid.UUID) ([]dto.TopicResponseDTO, error)
	UpdateTopic(id uuid.UUID, req dto.TopicCreateDTO) (*dto.TopicResponseDTO, error)
	DeleteTopic(id uuid.UUID) error

	CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	GetQuestion(id uuid.UUID) (*dto.QuestionResponseDTO, error)
	ListQuestionsByTopic(topicID uuid.UUID) ([]dto.QuestionResponseDTO, error)
	UpdateQuestion(id uuid.UUID, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(id uuid.UUID) error
}

type catalogService struct {
	subjectRepo  repository.SubjectRepository
	topicRepo    repository.TopicRepository
	questionRepo repository.QuestionRepository
}

func NewCatalogService(
	subjectRepo repository.SubjectRepository,
	topicRepo repository.TopicRepository,
	questionRepo repository.QuestionRepository,
) CatalogService {
	return &catalogService{
		subjectRepo:  subjectRepo,
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
	}
}

func (s *catalogService) CreateSubject(req dto.SubjectCreateDTO) (*dto.SubjectResponseDTO, error) {
	subject := model.Subject{Name: req.Name}
	if err := s.subjectRepo.Create(&subject); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("CreateSubject: database error")
		return nil, fmt.Errorf("database error creating subject: %w", err)
	}
	var resp dto.SubjectResponseDTO
	copier.Copy(&resp, &subject)
	return &resp, nil
}

func (s *catalogService) ListSubjects() ([]dto.SubjectResponseDTO, error) {
	subjects, err := s.subjectRepo.FindAllWithTopics()
	if err != nil {
		return nil, fmt.Errorf("error fetching subjects: %w", err)
	}
	dtos := make([]dto.SubjectResponseDTO, 0, len(subjects))
	for _, subject := range subjects {
		var resp dto.SubjectResponseDTO
		copier.Copy(&resp, &subject)
		dtos = append(dtos, resp)
	}
	return dtos, nil
}

func (s *catalogService) UpdateSubject(id uuid.UUID, req dto.SubjectCreateDTO) (*dto.SubjectResponseDTO, error) {
	subject, err := s.subjectRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("subject not found with ID %s: %w", id, err)
	}
	subject.Name = req.Name
	if err := s.subjectRepo.Update(subject); err != nil {
		return nil, fmt.Errorf("database error updating subject: %w", err)
	}
	var resp dto.SubjectResponseDTO
	copier.Copy(&resp, subject)
	return &resp, nil
}

func (s *catalogService) DeleteSubject(id uuid.UUID) error {
	return s.subjectRepo.Delete(id)
}

func (s *catalogService) CreateTopic(req dto.TopicCreateDTO) (*dto.TopicResponseDTO, error) {
	if _, err := s.subjectRepo.FindByID(req.SubjectID); err != nil {
		return nil, fmt.Errorf("subject not found with ID %s: %w", req.SubjectID, err)
	}
	topic := model.Topic{Name: req.Name, SubjectID: req.SubjectID}
	if err := s.topicRepo.Create(&topic); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("CreateTopic: database error")
		return nil, fmt.Errorf("database error creating topic: %w", err)
	}
	var resp dto.TopicResponseDTO
	copier.Copy(&resp, &topic)
	return &resp, nil
}

func (s *catalogService) ListTopics(subjectID *uuid.UUID) ([]dto.TopicResponseDTO, error) {
	var (
		topics []model.Topic
		err    error
	)
	if subjectID != nil {
		topics, err = s.topicRepo.FindBySubjectID(*subjectID)
	} else {
		topics, err = s.topicRepo.FindAll()
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching topics: %w", err)
	}
	dtos := make([]dto.TopicResponseDTO, 0, len(topics))
	for _, topic := range topics {
		var resp dto.TopicResponseDTO
		copier.Copy(&resp, &topic)
		dtos = append(dtos, resp)
	}
	return dtos, nil
}

func (s *catalogService) UpdateTopic(id uuid.UUID, req dto.TopicCreateDTO) (*dto.TopicResponseDTO, error) {
	topic, err := s.topicRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("topic not found with ID %s: %w", id, err)
	}
	if _, err := s.subjectRepo.FindByID(req.SubjectID); err != nil {
		return nil, fmt.Errorf("subject not found with ID %s: %w", req.SubjectID, err)
	}
	topic.Name = req.Name
	topic.SubjectID = req.SubjectID
	if err := s.topicRepo.Update(topic); err != nil {
		log.Error().Err(err).Str("topicID", id.String()).Msg("UpdateTopic: database error")
		return nil, fmt.Errorf("database error updating topic: %w", err)
	}
	var resp dto.TopicResponseDTO
	copier.Copy(&resp, topic)
	return &resp, nil
}

func (s *catalogService) DeleteTopic(id uuid.UUID) error {
	return s.topicRepo.Delete(id)
}

func (s *catalogService) CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if err := s.validateQuestion(req, uuid.Nil); err != nil {
		return nil, err
	}
	if _, err := s.topicRepo.FindByID(req.TopicID); err != nil {
		return nil, fmt.Errorf("topic not found with ID %s: %w", req.TopicID, err)
	}

	var question model.Question
	copier.Copy(&question, &req)
	question.Choices = make([]model.Choice, len(req.Choices))
	for i, c := range req.Choices {
		copier.Copy(&question.Choices[i], &c)
	}

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Msg("CreateQuestion: database error")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}

	created, err := s.questionRepo.FindByIDWithChoices(question.ID)
	if err != nil {
		var fallback dto.QuestionResponseDTO
		copier.Copy(&fallback, &question)
		return &fallback, nil
	}
	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, created)
	return &resp, nil
}

func (s *catalogService) GetQuestion(id uuid.UUID) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByIDWithChoices(id)
	if err != nil {
		return nil, fmt.Errorf("question not found with ID %s: %w", id, err)
	}
	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *catalogService) ListQuestionsByTopic(topicID uuid.UUID) ([]dto.QuestionResponseDTO, error) {
	questions, err := s.questionRepo.FindByTopicID(topicID)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	dtos := make([]dto.QuestionResponseDTO, 0, len(questions))
	for _, q := range questions {
		var resp dto.QuestionResponseDTO
		copier.Copy(&resp, &q)
		dtos = append(dtos, resp)
	}
	return dtos, nil
}

// UpdateQuestion replaces the question's fields and its full choice list.
// Rejected when any attempt already references the question: attempts must
// keep pointing at the content that was graded.
func (s *catalogService) UpdateQuestion(id uuid.UUID, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if err := s.validateQuestion(req, id); err != nil {
		return nil, err
	}
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("question not found with ID %s: %w", id, err)
	}

	referenced, err := s.questionRepo.IsReferencedByAttempt(id)
	if err != nil {
		return nil, fmt.Errorf("error checking attempt references: %w", err)
	}
	if referenced {
		return nil, fmt.Errorf("question %s is referenced by an exam attempt and cannot be modified", id)
	}

	question.TopicID = req.TopicID
	question.QuestionText = req.QuestionText
	question.QuestionType = req.QuestionType
	question.QuestionImageURL = req.QuestionImageURL
	question.GroupID = req.GroupID
	question.GroupOrder = req.GroupOrder
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("database error updating question: %w", err)
	}

	choices := make([]model.Choice, len(req.Choices))
	for i, c := range req.Choices {
		copier.Copy(&choices[i], &c)
	}
	if err := s.questionRepo.ReplaceChoices(id, choices); err != nil {
		return nil, fmt.Errorf("database error replacing choices: %w", err)
	}

	return s.GetQuestion(id)
}

func (s *catalogService) DeleteQuestion(id uuid.UUID) error {
	referenced, err := s.questionRepo.IsReferencedByAttempt(id)
	if err != nil {
		return fmt.Errorf("error checking attempt references: %w", err)
	}
	if referenced {
		return fmt.Errorf("question %s is referenced by an exam attempt and cannot be deleted", id)
	}
	return s.questionRepo.Delete(id)
}

// validateQuestion enforces the catalog invariants before any write: a
// payload matching the question type, exactly one correct choice, and no
// duplicate group_order within a group.
func (s *catalogService) validateQuestion(req dto.QuestionCreateDTO, excludeID uuid.UUID) error {
	switch req.QuestionType {
	case model.QuestionTypeText:
		if req.QuestionText == "" {
			return fmt.Errorf("question of type 'text' requires question_text")
		}
	case model.QuestionTypeImage:
		if req.QuestionImageURL == nil || *req.QuestionImageURL == "" {
			return fmt.Errorf("question of type 'image' requires question_image_url")
		}
	default:
		return fmt.Errorf("unknown question type %q", req.QuestionType)
	}

	correctCount := 0
	for _, c := range req.Choices {
		if c.IsCorrect {
			correctCount++
		}
		if (c.ChoiceText == nil || *c.ChoiceText == "") && (c.ChoiceImageURL == nil || *c.ChoiceImageURL == "") {
			return fmt.Errorf("every choice requires a text or image payload")
		}
	}
	if correctCount != 1 {
		return fmt.Errorf("a question must have exactly one correct choice, got %d", correctCount)
	}

	if req.GroupID != nil {
		if req.GroupOrder == nil {
			return fmt.Errorf("a grouped question requires group_order")
		}
		existing, err := s.questionRepo.FindByTopicID(req.TopicID)
		if err != nil {
			return fmt.Errorf("error checking group ordering: %w", err)
		}
		for _, q := range existing {
			if q.ID == excludeID {
				continue
			}
			if q.GroupID != nil && *q.GroupID == *req.GroupID &&
				q.GroupOrder != nil && *q.GroupOrder == *req.GroupOrder {
				return fmt.Errorf("group_order %d is already used in group %s", *req.GroupOrder, *req.GroupID)
			}
		}
	}
	return nil
}
