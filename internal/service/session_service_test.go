package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/session"
	"gorm.io/gorm"
)

// memoryStore round-trips snapshots through JSON so tests observe the same
// isolation as the Redis store.
type memoryStore struct {
	mu     sync.Mutex
	snaps  map[string][]byte
	putErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snaps: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.snaps[key]
	if !ok {
		return nil, session.ErrSnapshotNotFound
	}
	var snap session.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *memoryStore) Put(ctx context.Context, key string, snap *session.Snapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.snaps[key] = payload
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, key)
	return nil
}

func (s *memoryStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.snaps[key]
	return ok
}

type fakeExamSetRepo struct {
	set *model.ExamSet
}

func (r *fakeExamSetRepo) Create(set *model.ExamSet) error { return nil }
func (r *fakeExamSetRepo) FindByID(id uuid.UUID) (*model.ExamSet, error) {
	if r.set == nil || r.set.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return r.set, nil
}
func (r *fakeExamSetRepo) FindByIDWithTopics(id uuid.UUID) (*model.ExamSet, error) {
	return r.FindByID(id)
}
func (r *fakeExamSetRepo) FindAll() ([]model.ExamSet, error)       { return nil, nil }
func (r *fakeExamSetRepo) FindPublished() ([]model.ExamSet, error) { return nil, nil }
func (r *fakeExamSetRepo) Update(set *model.ExamSet) error         { return nil }
func (r *fakeExamSetRepo) ReplaceTopics(setID uuid.UUID, topics []model.ExamSetTopic) error {
	return nil
}
func (r *fakeExamSetRepo) Delete(id uuid.UUID) error { return nil }

type fakeQuestionRepo struct {
	questions  []model.Question
	referenced map[uuid.UUID]bool
}

func (r *fakeQuestionRepo) Create(q *model.Question) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	for i := range q.Choices {
		if q.Choices[i].ID == uuid.Nil {
			q.Choices[i].ID = uuid.New()
		}
		q.Choices[i].QuestionID = q.ID
	}
	r.questions = append(r.questions, *q)
	return nil
}
func (r *fakeQuestionRepo) FindByID(id uuid.UUID) (*model.Question, error) {
	return r.FindByIDWithChoices(id)
}
func (r *fakeQuestionRepo) FindByIDWithChoices(id uuid.UUID) (*model.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			return &r.questions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeQuestionRepo) FindByTopicID(topicID uuid.UUID) ([]model.Question, error) {
	return r.FindPoolByTopicID(topicID)
}
func (r *fakeQuestionRepo) FindPoolByTopicID(topicID uuid.UUID) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.TopicID == topicID {
			out = append(out, q)
		}
	}
	return out, nil
}
func (r *fakeQuestionRepo) FindByIDs(ids []uuid.UUID) ([]model.Question, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Question
	for _, q := range r.questions {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}
func (r *fakeQuestionRepo) FindCorrectChoices(questionIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	want := make(map[uuid.UUID]bool, len(questionIDs))
	for _, id := range questionIDs {
		want[id] = true
	}
	correct := make(map[uuid.UUID]uuid.UUID)
	for _, q := range r.questions {
		if !want[q.ID] {
			continue
		}
		for _, c := range q.Choices {
			if c.IsCorrect {
				correct[q.ID] = c.ID
			}
		}
	}
	return correct, nil
}
func (r *fakeQuestionRepo) CountByTopicID(topicID uuid.UUID) (int64, error) {
	pool, _ := r.FindPoolByTopicID(topicID)
	return int64(len(pool)), nil
}
func (r *fakeQuestionRepo) Update(q *model.Question) error { return nil }
func (r *fakeQuestionRepo) ReplaceChoices(questionID uuid.UUID, choices []model.Choice) error {
	return nil
}
func (r *fakeQuestionRepo) Delete(id uuid.UUID) error {
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			break
		}
	}
	return nil
}
func (r *fakeQuestionRepo) IsReferencedByAttempt(id uuid.UUID) (bool, error) {
	return r.referenced[id], nil
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	created  []*model.ExamAttempt
	writeErr error
}

func (r *fakeAttemptRepo) CreateWithDetails(attempt *model.ExamAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	attempt.ID = uuid.New()
	r.created = append(r.created, attempt)
	return nil
}
func (r *fakeAttemptRepo) FindByID(id uuid.UUID) (*model.ExamAttempt, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeAttemptRepo) FindByIDWithDetails(id uuid.UUID) (*model.ExamAttempt, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeAttemptRepo) FindAllByUser(userID uuid.UUID) ([]model.ExamAttempt, error) {
	return nil, nil
}

func (r *fakeAttemptRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

// exam fixture: one published set drawing 3 questions from one topic, each
// question with 4 choices, the first of which is correct.
type sessionFixture struct {
	svc      *sessionService
	store    *memoryStore
	attempts *fakeAttemptRepo
	set      *model.ExamSet
	userID   uuid.UUID
	now      time.Time
}

func strPtr(s string) *string { return &s }

func newSessionFixture(t *testing.T, questionCount int) *sessionFixture {
	t.Helper()

	topicID := uuid.New()
	topic := model.Topic{ID: topicID, Name: "Fractions"}

	var questions []model.Question
	for i := 0; i < questionCount; i++ {
		q := model.Question{
			ID:           uuid.New(),
			TopicID:      topicID,
			QuestionText: "question",
			QuestionType: model.QuestionTypeText,
		}
		for j := 0; j < 4; j++ {
			q.Choices = append(q.Choices, model.Choice{
				ID:         uuid.New(),
				QuestionID: q.ID,
				ChoiceText: strPtr("choice"),
				IsCorrect:  j == 0,
			})
		}
		questions = append(questions, q)
	}

	set := &model.ExamSet{
		ID:       uuid.New(),
		Name:     "Arithmetic Basics",
		Duration: 30,
		Status:   model.ExamSetStatusPublished,
		Topics: []model.ExamSetTopic{
			{TopicID: topicID, Topic: topic, QuestionCount: questionCount, SortOrder: 1},
		},
	}

	qRepo := &fakeQuestionRepo{questions: questions}
	store := newMemoryStore()
	attempts := &fakeAttemptRepo{}

	f := &sessionFixture{
		store:    store,
		attempts: attempts,
		set:      set,
		userID:   uuid.New(),
		now:      time.Now(),
	}
	f.svc = &sessionService{
		examSetRepo:  &fakeExamSetRepo{set: set},
		questionRepo: qRepo,
		attemptRepo:  attempts,
		assembly:     NewAssemblyService(qRepo),
		store:        store,
		scheduler:    session.NewScheduler(),
		now:          func() time.Time { return f.now },
	}
	return f
}

func (f *sessionFixture) key() string {
	return session.Key(f.set.ID, f.userID)
}

func choiceOrder(state *dto.SessionStateDTO) [][]uuid.UUID {
	var order [][]uuid.UUID
	for _, q := range state.Questions {
		var ids []uuid.UUID
		for _, c := range q.Choices {
			ids = append(ids, c.ID)
		}
		order = append(order, ids)
	}
	return order
}

func TestStartOrResumePinsShuffle(t *testing.T) {
	f := newSessionFixture(t, 3)
	ctx := context.Background()

	state, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Status != string(session.StatusInProgress) {
		t.Errorf("expected status in_progress, got %s", state.Status)
	}
	if len(state.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(state.Questions))
	}
	// The shuffled order is a permutation of each question's real choice set.
	qRepo := f.svc.questionRepo.(*fakeQuestionRepo)
	for i, q := range state.Questions {
		stored, err := qRepo.FindByIDWithChoices(q.ID)
		if err != nil {
			t.Fatalf("question %d missing from repo: %v", i, err)
		}
		if len(q.Choices) != len(stored.Choices) {
			t.Fatalf("question %d: expected %d choices, got %d", i, len(stored.Choices), len(q.Choices))
		}
		want := make(map[uuid.UUID]bool, len(stored.Choices))
		for _, c := range stored.Choices {
			want[c.ID] = true
		}
		for _, c := range q.Choices {
			if !want[c.ID] {
				t.Errorf("question %d: choice %s is not part of the question", i, c.ID)
			}
		}
	}
	if state.RemainingSeconds != 30*60 {
		t.Errorf("expected 1800 remaining seconds, got %d", state.RemainingSeconds)
	}

	first := choiceOrder(state)

	// A reload resumes the same snapshot: same questions, same choice order,
	// and no new attempt.
	resumed, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error on resume: %v", err)
	}
	second := choiceOrder(resumed)
	if len(first) != len(second) {
		t.Fatalf("question count changed on resume")
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatalf("question %d: choice count changed on resume", i)
		}
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Errorf("question %d: choice order changed on resume", i)
				break
			}
		}
	}
	if f.attempts.count() != 0 {
		t.Errorf("resume must not create attempts, got %d", f.attempts.count())
	}
}

func TestStartOrResumeRejectsUnpublished(t *testing.T) {
	f := newSessionFixture(t, 2)
	f.set.Status = model.ExamSetStatusDraft

	_, err := f.svc.StartOrResume(context.Background(), f.set.ID, f.userID)
	if !errors.Is(err, ErrExamSetUnavailable) {
		t.Errorf("expected ErrExamSetUnavailable, got %v", err)
	}
}

func TestStartOrResumeEmptySet(t *testing.T) {
	f := newSessionFixture(t, 0)

	_, err := f.svc.StartOrResume(context.Background(), f.set.ID, f.userID)
	if !errors.Is(err, ErrEmptyExamSet) {
		t.Errorf("expected ErrEmptyExamSet, got %v", err)
	}
}

func TestSelectAnswer(t *testing.T) {
	f := newSessionFixture(t, 2)
	ctx := context.Background()

	state, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A choice belonging to the second question is rejected while the first
	// is current.
	wrongChoice := state.Questions[1].Choices[0].ID
	if _, err := f.svc.SelectAnswer(ctx, f.set.ID, f.userID, wrongChoice); !errors.Is(err, ErrChoiceNotInQuestion) {
		t.Errorf("expected ErrChoiceNotInQuestion, got %v", err)
	}

	chosen := state.Questions[0].Choices[2].ID
	updated, err := f.svc.SelectAnswer(ctx, f.set.ID, f.userID, chosen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := updated.Answers[state.Questions[0].ID]; got != chosen {
		t.Errorf("expected answer %s recorded, got %s", chosen, got)
	}

	// Re-selecting overwrites.
	rechosen := state.Questions[0].Choices[1].ID
	updated, err = f.svc.SelectAnswer(ctx, f.set.ID, f.userID, rechosen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := updated.Answers[state.Questions[0].ID]; got != rechosen {
		t.Errorf("expected answer %s after reselect, got %s", rechosen, got)
	}
}

func TestNavigate(t *testing.T) {
	f := newSessionFixture(t, 3)
	ctx := context.Background()

	if _, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// prev at the first question is a no-op.
	state, err := f.svc.Navigate(ctx, f.set.ID, f.userID, dto.NavigateDTO{Direction: "prev"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Current != 0 {
		t.Errorf("expected current 0 after prev at start, got %d", state.Current)
	}

	state, err = f.svc.Navigate(ctx, f.set.ID, f.userID, dto.NavigateDTO{Direction: "next"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Current != 1 {
		t.Errorf("expected current 1 after next, got %d", state.Current)
	}

	target := 2
	state, err = f.svc.Navigate(ctx, f.set.ID, f.userID, dto.NavigateDTO{Index: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Current != 2 {
		t.Errorf("expected current 2 after goTo, got %d", state.Current)
	}

	// next at the last question is a no-op.
	state, err = f.svc.Navigate(ctx, f.set.ID, f.userID, dto.NavigateDTO{Direction: "next"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Current != 2 {
		t.Errorf("expected current 2 after next at end, got %d", state.Current)
	}

	outOfRange := 7
	if _, err := f.svc.Navigate(ctx, f.set.ID, f.userID, dto.NavigateDTO{Index: &outOfRange}); !errors.Is(err, ErrInvalidNavigation) {
		t.Errorf("expected ErrInvalidNavigation, got %v", err)
	}
}

func TestSubmitGradesAndClearsSession(t *testing.T) {
	f := newSessionFixture(t, 3)
	ctx := context.Background()

	state, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Answer the first question correctly. The correct choice is the one the
	// fixture flagged; find it in the shuffled order via the repo's key.
	qRepo := f.svc.questionRepo.(*fakeQuestionRepo)
	correct, _ := qRepo.FindCorrectChoices([]uuid.UUID{state.Questions[0].ID})
	if _, err := f.svc.SelectAnswer(ctx, f.set.ID, f.userID, correct[state.Questions[0].ID]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := f.svc.Submit(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 1 || result.Total != 3 {
		t.Errorf("expected score 1/3, got %d/%d", result.Score, result.Total)
	}

	if f.attempts.count() != 1 {
		t.Fatalf("expected 1 persisted attempt, got %d", f.attempts.count())
	}
	attempt := f.attempts.created[0]
	if attempt.Score != 1 || attempt.TotalQuestions != 3 {
		t.Errorf("attempt: expected 1/3, got %d/%d", attempt.Score, attempt.TotalQuestions)
	}
	if len(attempt.Details) != 3 {
		t.Errorf("expected 3 answer details, got %d", len(attempt.Details))
	}
	answered := 0
	for _, d := range attempt.Details {
		if d.SelectedChoiceID != nil {
			answered++
		}
	}
	if answered != 1 {
		t.Errorf("expected 1 answered detail, got %d", answered)
	}

	if f.store.has(f.key()) {
		t.Error("expected snapshot cleared after submission")
	}

	// A second submit finds no session.
	if _, err := f.svc.Submit(ctx, f.set.ID, f.userID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitRejectedWhileSubmitting(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	if _, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a concurrent submission having flipped the guard.
	snap, err := f.store.Get(ctx, f.key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap.Status = session.StatusSubmitting
	if err := f.store.Put(ctx, f.key(), snap, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.Submit(ctx, f.set.ID, f.userID); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("expected ErrAlreadySubmitted, got %v", err)
	}
	if f.attempts.count() != 0 {
		t.Errorf("expected no attempts, got %d", f.attempts.count())
	}
}

func TestSubmitFailureRevertsToInProgress(t *testing.T) {
	f := newSessionFixture(t, 2)
	ctx := context.Background()

	state, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chosen := state.Questions[0].Choices[0].ID
	if _, err := f.svc.SelectAnswer(ctx, f.set.ID, f.userID, chosen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.attempts.writeErr = errors.New("connection refused")
	if _, err := f.svc.Submit(ctx, f.set.ID, f.userID); err == nil {
		t.Fatal("expected submit to fail")
	}

	// The session fell back to in_progress with answers retained.
	snap, err := f.store.Get(ctx, f.key())
	if err != nil {
		t.Fatalf("expected snapshot to survive failed submit: %v", err)
	}
	if snap.Status != session.StatusInProgress {
		t.Errorf("expected status in_progress after failed submit, got %s", snap.Status)
	}
	if snap.Answers[state.Questions[0].ID] != chosen {
		t.Error("expected answers retained after failed submit")
	}

	// Retry succeeds once the backend recovers.
	f.attempts.writeErr = nil
	result, err := f.svc.Submit(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Total)
	}
	if f.attempts.count() != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", f.attempts.count())
	}
}

func TestResumeAfterDeadlineAutoSubmits(t *testing.T) {
	f := newSessionFixture(t, 2)
	ctx := context.Background()

	if _, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Advance past the 30 minute deadline and try to resume.
	f.now = f.now.Add(31 * time.Minute)
	_, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if f.attempts.count() != 1 {
		t.Errorf("expected the expired session to be submitted, got %d attempts", f.attempts.count())
	}
	if f.store.has(f.key()) {
		t.Error("expected snapshot cleared after deadline submission")
	}
}

func TestDeadlineEnforcedWithoutTimer(t *testing.T) {
	// Every operation enforces the deadline itself; the session expires even
	// when the in-memory timer is gone, as after a process restart.
	ops := []struct {
		name string
		call func(f *sessionFixture, state *dto.SessionStateDTO) error
	}{
		{"select answer", func(f *sessionFixture, state *dto.SessionStateDTO) error {
			_, err := f.svc.SelectAnswer(context.Background(), f.set.ID, f.userID, state.Questions[0].Choices[0].ID)
			return err
		}},
		{"navigate", func(f *sessionFixture, state *dto.SessionStateDTO) error {
			_, err := f.svc.Navigate(context.Background(), f.set.ID, f.userID, dto.NavigateDTO{Direction: "next"})
			return err
		}},
		{"submit", func(f *sessionFixture, state *dto.SessionStateDTO) error {
			_, err := f.svc.Submit(context.Background(), f.set.ID, f.userID)
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			f := newSessionFixture(t, 2)
			ctx := context.Background()

			state, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Lose the timer, as a restart would, then run out the clock.
			f.svc.scheduler.Stop()
			f.now = f.now.Add(2 * time.Hour)

			if err := op.call(f, state); !errors.Is(err, ErrAlreadySubmitted) {
				t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
			}
			if f.attempts.count() != 1 {
				t.Errorf("expected the expired session to be submitted, got %d attempts", f.attempts.count())
			}
			if f.store.has(f.key()) {
				t.Error("expected snapshot cleared after deadline submission")
			}
		})
	}
}

func TestResumeRecoversStuckSubmitting(t *testing.T) {
	f := newSessionFixture(t, 2)
	ctx := context.Background()

	state, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chosen := state.Questions[0].Choices[0].ID
	if _, err := f.svc.SelectAnswer(ctx, f.set.ID, f.userID, chosen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a crash between the status flip and the attempt write.
	snap, err := f.store.Get(ctx, f.key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap.Status = session.StatusSubmitting
	if err := f.store.Put(ctx, f.key(), snap, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The attempt never landed, so resume picks the session back up.
	state, err = f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("expected stuck session to resume, got %v", err)
	}
	if state.Status != string(session.StatusInProgress) {
		t.Errorf("expected status in_progress, got %s", state.Status)
	}
	if state.Answers[state.Questions[0].ID] != chosen {
		t.Error("expected answers retained across recovery")
	}

	snap, err = f.store.Get(ctx, f.key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != session.StatusInProgress {
		t.Errorf("expected persisted status in_progress, got %s", snap.Status)
	}

	// The recovered session submits normally.
	result, err := f.svc.Submit(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Total)
	}
	if f.attempts.count() != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", f.attempts.count())
	}
}

func TestSubmitReleasesSessionLock(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	if _, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.svc.locks.Load(f.key()); !ok {
		t.Fatal("expected a lock entry for the live session")
	}

	if _, err := f.svc.Submit(ctx, f.set.ID, f.userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.svc.locks.Load(f.key()); ok {
		t.Error("expected lock entry released after submission")
	}
}

func TestTimeSpentLedger(t *testing.T) {
	f := newSessionFixture(t, 2)
	ctx := context.Background()

	state, err := f.svc.StartOrResume(ctx, f.set.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.now = f.now.Add(10 * time.Second)
	if _, err := f.svc.Navigate(ctx, f.set.ID, f.userID, dto.NavigateDTO{Direction: "next"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := f.store.Get(ctx, f.key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := snap.TimeSpent[state.Questions[0].ID]; got != 10 {
		t.Errorf("expected 10s on first question, got %d", got)
	}
}
