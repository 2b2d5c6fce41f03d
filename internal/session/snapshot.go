// Package session holds the resumable exam session: the snapshot that pins an
// attempt's shuffle and answers across page reloads, the store that persists
// it, and the timer that forces submission at the deadline.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the session state. Transitions only move forward, except that a
// failed submission falls back from Submitting to InProgress.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusInProgress   Status = "in_progress"
	StatusSubmitting   Status = "submitting"
	StatusCompleted    Status = "completed"
)

// Question is one entry of the session's fixed sequence. ChoiceIDs carries the
// choice order shuffled exactly once per attempt.
type Question struct {
	QuestionID uuid.UUID   `json:"question_id"`
	TopicID    uuid.UUID   `json:"topic_id"`
	TopicName  string      `json:"topic_name"`
	ChoiceIDs  []uuid.UUID `json:"choice_ids"`
}

// Snapshot is the resumable state of one in-progress attempt, keyed by
// (exam set, user). Reloading the page resumes the same shuffle and answers.
type Snapshot struct {
	ExamSetID uuid.UUID               `json:"exam_set_id"`
	UserID    uuid.UUID               `json:"user_id"`
	Status    Status                  `json:"status"`
	Questions []Question              `json:"questions"`
	Answers   map[uuid.UUID]uuid.UUID `json:"answers"`
	TimeSpent map[uuid.UUID]int       `json:"time_spent"` // seconds per question
	Current   int                     `json:"current"`
	FocusedAt time.Time               `json:"focused_at"` // when the current question was last (re)focused
	StartedAt time.Time               `json:"started_at"`
	Deadline  time.Time               `json:"deadline"`
}

// Key builds the store key for one (exam set, user) pair.
func Key(examSetID, userID uuid.UUID) string {
	return fmt.Sprintf("exam_session:%s:%s", examSetID, userID)
}

// Remaining reports the countdown value at 1-second granularity, never below zero.
func (s *Snapshot) Remaining(now time.Time) int {
	remaining := int(s.Deadline.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FlushTime accumulates the wall-clock delta since the current question was
// last focused into the per-question time ledger, then refocuses it at now.
func (s *Snapshot) FlushTime(now time.Time) {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return
	}
	spent := int(now.Sub(s.FocusedAt).Seconds())
	if spent > 0 {
		qid := s.Questions[s.Current].QuestionID
		s.TimeSpent[qid] += spent
	}
	s.FocusedAt = now
}
