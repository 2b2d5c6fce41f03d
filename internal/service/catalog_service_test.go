package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/model"
	"gorm.io/gorm"
)

type fakeSubjectRepo struct {
	subjects map[uuid.UUID]*model.Subject
}

func (r *fakeSubjectRepo) Create(subject *model.Subject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	if r.subjects == nil {
		r.subjects = make(map[uuid.UUID]*model.Subject)
	}
	r.subjects[subject.ID] = subject
	return nil
}
func (r *fakeSubjectRepo) FindByID(id uuid.UUID) (*model.Subject, error) {
	if s, ok := r.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeSubjectRepo) FindAllWithTopics() ([]model.Subject, error) { return nil, nil }
func (r *fakeSubjectRepo) Update(subject *model.Subject) error         { return nil }
func (r *fakeSubjectRepo) Delete(id uuid.UUID) error                   { return nil }

type fakeTopicRepo struct {
	topics map[uuid.UUID]*model.Topic
}

func (r *fakeTopicRepo) Create(topic *model.Topic) error {
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	if r.topics == nil {
		r.topics = make(map[uuid.UUID]*model.Topic)
	}
	r.topics[topic.ID] = topic
	return nil
}
func (r *fakeTopicRepo) FindByID(id uuid.UUID) (*model.Topic, error) {
	if t, ok := r.topics[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeTopicRepo) FindBySubjectID(subjectID uuid.UUID) ([]model.Topic, error) {
	return nil, nil
}
func (r *fakeTopicRepo) FindAll() ([]model.Topic, error) { return nil, nil }
func (r *fakeTopicRepo) Update(topic *model.Topic) error { return nil }
func (r *fakeTopicRepo) Delete(id uuid.UUID) error       { return nil }

func newCatalogFixture() (CatalogService, *fakeQuestionRepo, uuid.UUID) {
	subjectID := uuid.New()
	topicID := uuid.New()
	subjects := &fakeSubjectRepo{subjects: map[uuid.UUID]*model.Subject{
		subjectID: {ID: subjectID, Name: "Math"},
	}}
	topics := &fakeTopicRepo{topics: map[uuid.UUID]*model.Topic{
		topicID: {ID: topicID, Name: "Fractions", SubjectID: subjectID},
	}}
	questions := &fakeQuestionRepo{referenced: map[uuid.UUID]bool{}}
	return NewCatalogService(subjects, topics, questions), questions, topicID
}

func validChoices() []dto.ChoiceCreateDTO {
	return []dto.ChoiceCreateDTO{
		{ChoiceText: strPtr("a half"), IsCorrect: true},
		{ChoiceText: strPtr("a third"), IsCorrect: false},
		{ChoiceText: strPtr("a quarter"), IsCorrect: false},
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	svc, _, topicID := newCatalogFixture()
	groupID := uuid.New()

	twoCorrect := validChoices()
	twoCorrect[1].IsCorrect = true
	noneCorrect := validChoices()
	noneCorrect[0].IsCorrect = false
	emptyChoice := validChoices()
	emptyChoice[2] = dto.ChoiceCreateDTO{IsCorrect: false}

	tests := []struct {
		name    string
		req     dto.QuestionCreateDTO
		wantErr string
	}{
		{
			name: "valid text question",
			req: dto.QuestionCreateDTO{
				TopicID:      topicID,
				QuestionText: "What is 1/2?",
				QuestionType: model.QuestionTypeText,
				Choices:      validChoices(),
			},
		},
		{
			name: "valid image question",
			req: dto.QuestionCreateDTO{
				TopicID:          topicID,
				QuestionType:     model.QuestionTypeImage,
				QuestionImageURL: strPtr("http://cdn/pie.png"),
				Choices:          validChoices(),
			},
		},
		{
			name: "text question without text",
			req: dto.QuestionCreateDTO{
				TopicID:      topicID,
				QuestionType: model.QuestionTypeText,
				Choices:      validChoices(),
			},
			wantErr: "requires question_text",
		},
		{
			name: "image question without image",
			req: dto.QuestionCreateDTO{
				TopicID:      topicID,
				QuestionType: model.QuestionTypeImage,
				Choices:      validChoices(),
			},
			wantErr: "requires question_image_url",
		},
		{
			name: "two correct choices",
			req: dto.QuestionCreateDTO{
				TopicID:      topicID,
				QuestionText: "q",
				QuestionType: model.QuestionTypeText,
				Choices:      twoCorrect,
			},
			wantErr: "exactly one correct choice",
		},
		{
			name: "no correct choice",
			req: dto.QuestionCreateDTO{
				TopicID:      topicID,
				QuestionText: "q",
				QuestionType: model.QuestionTypeText,
				Choices:      noneCorrect,
			},
			wantErr: "exactly one correct choice",
		},
		{
			name: "choice without payload",
			req: dto.QuestionCreateDTO{
				TopicID:      topicID,
				QuestionText: "q",
				QuestionType: model.QuestionTypeText,
				Choices:      emptyChoice,
			},
			wantErr: "text or image payload",
		},
		{
			name: "grouped question without group_order",
			req: dto.QuestionCreateDTO{
				TopicID:      topicID,
				QuestionText: "q",
				QuestionType: model.QuestionTypeText,
				GroupID:      &groupID,
				Choices:      validChoices(),
			},
			wantErr: "requires group_order",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateQuestion(tc.req)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestCreateQuestionRejectsDuplicateGroupOrder(t *testing.T) {
	svc, _, topicID := newCatalogFixture()
	groupID := uuid.New()

	first := dto.QuestionCreateDTO{
		TopicID:      topicID,
		QuestionText: "part one",
		QuestionType: model.QuestionTypeText,
		GroupID:      &groupID,
		GroupOrder:   intPtr(1),
		Choices:      validChoices(),
	}
	if _, err := svc.CreateQuestion(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	duplicate := first
	duplicate.QuestionText = "part one again"
	if _, err := svc.CreateQuestion(duplicate); err == nil {
		t.Fatal("expected duplicate group_order to be rejected")
	}

	second := first
	second.QuestionText = "part two"
	second.GroupOrder = intPtr(2)
	if _, err := svc.CreateQuestion(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateQuestionKeepsOwnGroupOrder(t *testing.T) {
	svc, _, topicID := newCatalogFixture()
	groupID := uuid.New()

	req := dto.QuestionCreateDTO{
		TopicID:      topicID,
		QuestionText: "part one",
		QuestionType: model.QuestionTypeText,
		GroupID:      &groupID,
		GroupOrder:   intPtr(1),
		Choices:      validChoices(),
	}
	created, err := svc.CreateQuestion(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Updating without changing the slot must not collide with itself.
	req.QuestionText = "part one, reworded"
	if _, err := svc.UpdateQuestion(created.ID, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuestionImmutableOnceAttempted(t *testing.T) {
	svc, questions, topicID := newCatalogFixture()

	req := dto.QuestionCreateDTO{
		TopicID:      topicID,
		QuestionText: "q",
		QuestionType: model.QuestionTypeText,
		Choices:      validChoices(),
	}
	created, err := svc.CreateQuestion(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	questions.referenced[created.ID] = true

	if _, err := svc.UpdateQuestion(created.ID, req); err == nil {
		t.Error("expected update of attempted question to be rejected")
	}
	if err := svc.DeleteQuestion(created.ID); err == nil {
		t.Error("expected delete of attempted question to be rejected")
	}
}
