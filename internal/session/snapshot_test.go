package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRemaining(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"future deadline", now.Add(90 * time.Second), 90},
		{"deadline now", now, 0},
		{"past deadline clamps to zero", now.Add(-30 * time.Second), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := &Snapshot{Deadline: tc.deadline}
			if got := snap.Remaining(now); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestFlushTime(t *testing.T) {
	q1 := uuid.New()
	q2 := uuid.New()
	start := time.Now()

	snap := &Snapshot{
		Questions: []Question{{QuestionID: q1}, {QuestionID: q2}},
		TimeSpent: map[uuid.UUID]int{},
		Current:   0,
		FocusedAt: start,
	}

	snap.FlushTime(start.Add(7 * time.Second))
	if snap.TimeSpent[q1] != 7 {
		t.Errorf("expected 7s on first question, got %d", snap.TimeSpent[q1])
	}
	if !snap.FocusedAt.Equal(start.Add(7 * time.Second)) {
		t.Error("expected FocusedAt to be refreshed")
	}

	// Moving to the second question and flushing again accumulates there.
	snap.Current = 1
	snap.FlushTime(start.Add(12 * time.Second))
	if snap.TimeSpent[q2] != 5 {
		t.Errorf("expected 5s on second question, got %d", snap.TimeSpent[q2])
	}

	// Revisiting the first question adds to its existing total.
	snap.Current = 0
	snap.FlushTime(start.Add(15 * time.Second))
	if snap.TimeSpent[q1] != 10 {
		t.Errorf("expected 10s accumulated on first question, got %d", snap.TimeSpent[q1])
	}
}

func TestFlushTimeOutOfRangeIsNoop(t *testing.T) {
	snap := &Snapshot{
		Questions: []Question{},
		TimeSpent: map[uuid.UUID]int{},
		Current:   0,
		FocusedAt: time.Now(),
	}
	snap.FlushTime(time.Now().Add(time.Second))
	if len(snap.TimeSpent) != 0 {
		t.Errorf("expected no time recorded, got %v", snap.TimeSpent)
	}
}

func TestKey(t *testing.T) {
	setID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	want := "exam_session:11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222"
	if got := Key(setID, userID); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
