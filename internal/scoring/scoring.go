// Package scoring computes an attempt's total score and per-topic breakdown.
// It is deliberately free of storage and transport concerns so submission can
// be verified in isolation.
package scoring

import (
	"github.com/google/uuid"
)

// AnsweredQuestion pairs one question of the attempt's sequence with the
// choice the user selected, if any.
type AnsweredQuestion struct {
	QuestionID       uuid.UUID
	TopicID          uuid.UUID
	TopicName        string
	SelectedChoiceID *uuid.UUID
}

// TopicTally is the correct/total count for one topic, restricted to the
// questions actually included in the attempt's sequence.
type TopicTally struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Name    string `json:"name"`
}

// Result is the outcome of grading a full sequence. Score never exceeds the
// sequence length and the per-topic totals always sum to it.
type Result struct {
	Score    int
	PerTopic map[uuid.UUID]TopicTally
	Answers  []GradedAnswer
}

// GradedAnswer mirrors one sequence entry with its correctness verdict.
type GradedAnswer struct {
	QuestionID       uuid.UUID
	SelectedChoiceID *uuid.UUID
	IsCorrect        bool
}

// Grade compares the sequence against the authoritative correct-choice map.
// An unanswered question, or an answer for a question missing from the map,
// scores as incorrect.
func Grade(sequence []AnsweredQuestion, correctByQuestion map[uuid.UUID]uuid.UUID) Result {
	result := Result{
		PerTopic: make(map[uuid.UUID]TopicTally),
		Answers:  make([]GradedAnswer, 0, len(sequence)),
	}

	for _, aq := range sequence {
		correctChoiceID, known := correctByQuestion[aq.QuestionID]
		isCorrect := known && aq.SelectedChoiceID != nil && *aq.SelectedChoiceID == correctChoiceID

		if isCorrect {
			result.Score++
		}

		tally := result.PerTopic[aq.TopicID]
		tally.Name = aq.TopicName
		tally.Total++
		if isCorrect {
			tally.Correct++
		}
		result.PerTopic[aq.TopicID] = tally

		result.Answers = append(result.Answers, GradedAnswer{
			QuestionID:       aq.QuestionID,
			SelectedChoiceID: aq.SelectedChoiceID,
			IsCorrect:        isCorrect,
		})
	}

	return result
}
