package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/repository"
	"github.com/sirawit/examportal/internal/scoring"
	"github.com/sirawit/examportal/internal/session"
)

var (
	ErrEmptyExamSet        = errors.New("exam set contains no questions")
	ErrExamSetUnavailable  = errors.New("exam set is not published")
	ErrSessionNotFound     = errors.New("no session in progress")
	ErrAlreadySubmitted    = errors.New("attempt has already been submitted")
	ErrChoiceNotInQuestion = errors.New("choice does not belong to the current question")
	ErrInvalidNavigation   = errors.New("navigation target is out of range")
)

// snapshotGrace keeps the snapshot alive past the deadline so a submission
// that races the TTL still finds its state.
const snapshotGrace = 30 * time.Minute

// SessionService drives an in-progress attempt through
// Initializing → InProgress → Submitting → Completed. A failed submission
// falls back to InProgress with answers retained; nothing moves backwards
// otherwise.
type SessionService interface {
	StartOrResume(ctx context.Context, examSetID, userID uuid.UUID) (*dto.SessionStateDTO, error)
	GetState(ctx context.Context, examSetID, userID uuid.UUID) (*dto.SessionStateDTO, error)
	SelectAnswer(ctx context.Context, examSetID, userID, choiceID uuid.UUID) (*dto.SessionStateDTO, error)
	Navigate(ctx context.Context, examSetID, userID uuid.UUID, req dto.NavigateDTO) (*dto.SessionStateDTO, error)
	Submit(ctx context.Context, examSetID, userID uuid.UUID) (*dto.SubmitResponseDTO, error)
}

type sessionService struct {
	examSetRepo  repository.ExamSetRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	assembly     AssemblyService
	store        session.Store
	scheduler    *session.Scheduler
	locks        sync.Map // session key -> *sync.Mutex
	now          func() time.Time
}

func NewSessionService(
	examSetRepo repository.ExamSetRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	assembly AssemblyService,
	store session.Store,
	scheduler *session.Scheduler,
) SessionService {
	return &sessionService{
		examSetRepo:  examSetRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		assembly:     assembly,
		store:        store,
		scheduler:    scheduler,
		now:          time.Now,
	}
}

// lock serializes all operations on one (exam set, user) session. The timer
// callback and a manual submit go through the same mutex, so the state guard
// in submitLocked is race-free.
func (s *sessionService) lock(key string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *sessionService) StartOrResume(ctx context.Context, examSetID, userID uuid.UUID) (*dto.SessionStateDTO, error) {
	key := session.Key(examSetID, userID)
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.store.Get(ctx, key)
	if err == nil {
		// A snapshot stuck in submitting means the process died before the
		// attempt write landed; resume it as in progress.
		if snap.Status == session.StatusSubmitting {
			snap.Status = session.StatusInProgress
			if putErr := s.store.Put(ctx, key, snap, s.snapshotTTL(snap)); putErr != nil {
				return nil, fmt.Errorf("error persisting session snapshot: %w", putErr)
			}
		}
		if expErr := s.finishExpired(ctx, key, snap); expErr != nil {
			return nil, expErr
		}
		// Re-arm the deadline timer; it is lost on process restart.
		s.armTimer(key, examSetID, userID, snap.Deadline)
		log.Info().Str("key", key).Msg("Resuming exam session from snapshot")
		return s.buildState(snap)
	}
	if !errors.Is(err, session.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("error loading session snapshot: %w", err)
	}

	set, err := s.examSetRepo.FindByIDWithTopics(examSetID)
	if err != nil {
		return nil, fmt.Errorf("exam set not found with ID %s: %w", examSetID, err)
	}
	if set.Status != model.ExamSetStatusPublished {
		return nil, ErrExamSetUnavailable
	}

	sequence, err := s.assembly.Assemble(set)
	if err != nil {
		return nil, err
	}
	if len(sequence) == 0 {
		return nil, ErrEmptyExamSet
	}

	now := s.now()
	snap = &session.Snapshot{
		ExamSetID: examSetID,
		UserID:    userID,
		Status:    session.StatusInitializing,
		Answers:   make(map[uuid.UUID]uuid.UUID),
		TimeSpent: make(map[uuid.UUID]int),
		Current:   0,
		FocusedAt: now,
		StartedAt: now,
		Deadline:  now.Add(time.Duration(set.Duration) * time.Minute),
	}
	for _, aq := range sequence {
		snap.Questions = append(snap.Questions, session.Question{
			QuestionID: aq.Question.ID,
			TopicID:    aq.Question.TopicID,
			TopicName:  aq.TopicName,
			ChoiceIDs:  shuffleChoiceIDs(aq.Question.Choices),
		})
	}

	// The snapshot is materialized with the shuffle pinned; only then does
	// the session become InProgress.
	snap.Status = session.StatusInProgress
	if err := s.store.Put(ctx, key, snap, s.snapshotTTL(snap)); err != nil {
		return nil, fmt.Errorf("error persisting session snapshot: %w", err)
	}
	s.armTimer(key, examSetID, userID, snap.Deadline)

	log.Info().Str("key", key).Int("questions", len(snap.Questions)).Msg("Exam session started")
	return s.buildState(snap)
}

func (s *sessionService) GetState(ctx context.Context, examSetID, userID uuid.UUID) (*dto.SessionStateDTO, error) {
	key := session.Key(examSetID, userID)
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrSnapshotNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.buildState(snap)
}

// SelectAnswer records the chosen choice for the current question and flushes
// the wall-clock time spent on it into the per-question ledger.
func (s *sessionService) SelectAnswer(ctx context.Context, examSetID, userID, choiceID uuid.UUID) (*dto.SessionStateDTO, error) {
	key := session.Key(examSetID, userID)
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.loadInProgress(ctx, key)
	if err != nil {
		return nil, err
	}

	current := snap.Questions[snap.Current]
	if !containsChoice(current.ChoiceIDs, choiceID) {
		return nil, ErrChoiceNotInQuestion
	}

	snap.FlushTime(s.now())
	snap.Answers[current.QuestionID] = choiceID

	if err := s.store.Put(ctx, key, snap, s.snapshotTTL(snap)); err != nil {
		return nil, fmt.Errorf("error persisting session snapshot: %w", err)
	}
	return s.buildState(snap)
}

// Navigate moves the current-question pointer. next/prev are no-ops at the
// sequence boundaries; the ledger for the question being left is flushed
// before moving.
func (s *sessionService) Navigate(ctx context.Context, examSetID, userID uuid.UUID, req dto.NavigateDTO) (*dto.SessionStateDTO, error) {
	key := session.Key(examSetID, userID)
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.loadInProgress(ctx, key)
	if err != nil {
		return nil, err
	}

	target := snap.Current
	switch {
	case req.Index != nil:
		if *req.Index < 0 || *req.Index >= len(snap.Questions) {
			return nil, fmt.Errorf("question index %d: %w", *req.Index, ErrInvalidNavigation)
		}
		target = *req.Index
	case req.Direction == "next":
		if snap.Current < len(snap.Questions)-1 {
			target = snap.Current + 1
		}
	case req.Direction == "prev":
		if snap.Current > 0 {
			target = snap.Current - 1
		}
	default:
		return nil, ErrInvalidNavigation
	}

	snap.FlushTime(s.now())
	snap.Current = target

	if err := s.store.Put(ctx, key, snap, s.snapshotTTL(snap)); err != nil {
		return nil, fmt.Errorf("error persisting session snapshot: %w", err)
	}
	return s.buildState(snap)
}

func (s *sessionService) Submit(ctx context.Context, examSetID, userID uuid.UUID) (*dto.SubmitResponseDTO, error) {
	key := session.Key(examSetID, userID)
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrSnapshotNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if err := s.finishExpired(ctx, key, snap); err != nil {
		return nil, err
	}
	return s.submitLocked(ctx, key, snap, false)
}

// autoSubmit is the timer path. It converges on the same guarded submission
// as a manual submit; a timer firing just after a manual submit is suppressed
// by the state guard.
func (s *sessionService) autoSubmit(examSetID, userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := session.Key(examSetID, userID)
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, session.ErrSnapshotNotFound) {
			log.Error().Err(err).Str("key", key).Msg("Auto-submit: could not load snapshot")
		}
		return
	}

	result, err := s.submitLocked(ctx, key, snap, true)
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return
		}
		log.Error().Err(err).Str("key", key).Msg("Auto-submit failed; session stays in progress")
		return
	}
	log.Info().Str("key", key).Str("attemptID", result.AttemptID.String()).Msg("Session auto-submitted at deadline")
}

// submitLocked performs the Submitting transition. The caller must hold the
// session lock. The status flip is persisted before the grading reads and the
// attempt write, so a second trigger sees Submitting and is rejected.
func (s *sessionService) submitLocked(ctx context.Context, key string, snap *session.Snapshot, auto bool) (*dto.SubmitResponseDTO, error) {
	if snap.Status != session.StatusInProgress {
		return nil, ErrAlreadySubmitted
	}

	now := s.now()
	snap.FlushTime(now)
	snap.Status = session.StatusSubmitting
	if err := s.store.Put(ctx, key, snap, snapshotGrace); err != nil {
		snap.Status = session.StatusInProgress
		return nil, fmt.Errorf("error persisting submitting state: %w", err)
	}

	revert := func() {
		snap.Status = session.StatusInProgress
		if err := s.store.Put(ctx, key, snap, s.snapshotTTL(snap)); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to revert session to in_progress")
		}
	}

	questionIDs := make([]uuid.UUID, 0, len(snap.Questions))
	sequence := make([]scoring.AnsweredQuestion, 0, len(snap.Questions))
	for _, q := range snap.Questions {
		questionIDs = append(questionIDs, q.QuestionID)
		aq := scoring.AnsweredQuestion{
			QuestionID: q.QuestionID,
			TopicID:    q.TopicID,
			TopicName:  q.TopicName,
		}
		if choiceID, answered := snap.Answers[q.QuestionID]; answered {
			selected := choiceID
			aq.SelectedChoiceID = &selected
		}
		sequence = append(sequence, aq)
	}

	correct, err := s.questionRepo.FindCorrectChoices(questionIDs)
	if err != nil {
		revert()
		return nil, fmt.Errorf("error resolving correct choices: %w", err)
	}

	result := scoring.Grade(sequence, correct)

	topicResults := make(map[string]model.TopicResult, len(result.PerTopic))
	for topicID, tally := range result.PerTopic {
		topicResults[topicID.String()] = model.TopicResult(tally)
	}
	topicJSON, err := json.Marshal(topicResults)
	if err != nil {
		revert()
		return nil, fmt.Errorf("error encoding topic results: %w", err)
	}

	attempt := model.ExamAttempt{
		UserID:         snap.UserID,
		ExamSetID:      snap.ExamSetID,
		Score:          result.Score,
		TotalQuestions: len(sequence),
		TopicResults:   topicJSON,
		StartedAt:      snap.StartedAt,
		CompletedAt:    now,
	}
	for _, graded := range result.Answers {
		attempt.Details = append(attempt.Details, model.ExamAnswerDetail{
			QuestionID:       graded.QuestionID,
			SelectedChoiceID: graded.SelectedChoiceID,
			IsCorrect:        graded.IsCorrect,
		})
	}

	if err := s.attemptRepo.CreateWithDetails(&attempt); err != nil {
		log.Error().Err(err).Str("key", key).Bool("auto", auto).Msg("Submit: attempt write failed")
		revert()
		return nil, fmt.Errorf("error persisting attempt: %w", err)
	}

	// Completed: the snapshot is cleared rather than expired, and the timer
	// disarmed.
	if err := s.store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Submit: could not clear session snapshot")
	}
	s.scheduler.Cancel(key)
	snap.Status = session.StatusCompleted
	// Drop the per-key mutex with the snapshot. A caller racing the deletion
	// re-creates one and then finds no session.
	s.locks.Delete(key)

	return &dto.SubmitResponseDTO{
		AttemptID: attempt.ID,
		Score:     result.Score,
		Total:     len(sequence),
	}, nil
}

func (s *sessionService) loadInProgress(ctx context.Context, key string) (*session.Snapshot, error) {
	snap, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrSnapshotNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if snap.Status != session.StatusInProgress {
		return nil, ErrAlreadySubmitted
	}
	if err := s.finishExpired(ctx, key, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// finishExpired auto-submits a session whose deadline has passed. It covers
// the case where the deadline timer was lost, so every operation enforces the
// deadline, not just the timer callback. The caller must hold the session
// lock. Returns ErrAlreadySubmitted once the expired session has been
// submitted; nil when the session is still live.
func (s *sessionService) finishExpired(ctx context.Context, key string, snap *session.Snapshot) error {
	if snap.Status != session.StatusInProgress || !s.now().After(snap.Deadline) {
		return nil
	}
	if _, err := s.submitLocked(ctx, key, snap, true); err != nil {
		return fmt.Errorf("session deadline passed and automatic submission failed: %w", err)
	}
	return ErrAlreadySubmitted
}

func (s *sessionService) armTimer(key string, examSetID, userID uuid.UUID, deadline time.Time) {
	s.scheduler.Schedule(key, deadline, func() {
		s.autoSubmit(examSetID, userID)
	})
}

func (s *sessionService) snapshotTTL(snap *session.Snapshot) time.Duration {
	ttl := time.Until(snap.Deadline) + snapshotGrace
	if ttl < snapshotGrace {
		ttl = snapshotGrace
	}
	return ttl
}

// buildState projects the snapshot plus fresh question content into the
// client view, with choices in the pinned shuffled order and no correctness
// flags.
func (s *sessionService) buildState(snap *session.Snapshot) (*dto.SessionStateDTO, error) {
	set, err := s.examSetRepo.FindByID(snap.ExamSetID)
	if err != nil {
		return nil, fmt.Errorf("exam set not found with ID %s: %w", snap.ExamSetID, err)
	}

	questionIDs := make([]uuid.UUID, 0, len(snap.Questions))
	for _, q := range snap.Questions {
		questionIDs = append(questionIDs, q.QuestionID)
	}
	questions, err := s.questionRepo.FindByIDs(questionIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading session questions: %w", err)
	}
	byID := make(map[uuid.UUID]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	state := &dto.SessionStateDTO{
		ExamSetID:        snap.ExamSetID,
		ExamSetName:      set.Name,
		Status:           string(snap.Status),
		Answers:          snap.Answers,
		Current:          snap.Current,
		RemainingSeconds: snap.Remaining(s.now()),
		TotalQuestions:   len(snap.Questions),
	}

	for _, sq := range snap.Questions {
		q, ok := byID[sq.QuestionID]
		if !ok {
			return nil, fmt.Errorf("question %s in session no longer exists", sq.QuestionID)
		}
		choiceByID := make(map[uuid.UUID]model.Choice, len(q.Choices))
		for _, c := range q.Choices {
			choiceByID[c.ID] = c
		}
		qDTO := dto.SessionQuestionDTO{
			ID:               q.ID,
			QuestionText:     q.QuestionText,
			QuestionType:     q.QuestionType,
			QuestionImageURL: q.QuestionImageURL,
		}
		for _, choiceID := range sq.ChoiceIDs {
			c, ok := choiceByID[choiceID]
			if !ok {
				continue
			}
			qDTO.Choices = append(qDTO.Choices, dto.SessionChoiceDTO{
				ID:             c.ID,
				ChoiceText:     c.ChoiceText,
				ChoiceImageURL: c.ChoiceImageURL,
			})
		}
		state.Questions = append(state.Questions, qDTO)
	}

	return state, nil
}

// shuffleChoiceIDs permutes a question's choice ids. Called exactly once per
// attempt, when the snapshot is first materialized.
func shuffleChoiceIDs(choices []model.Choice) []uuid.UUID {
	ids := make([]uuid.UUID, len(choices))
	for i, c := range choices {
		ids[i] = c.ID
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func containsChoice(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
