package service

import (
	"fmt"
	"sort"

	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/repository"
)

// AssembledQuestion is one entry of the concrete question sequence resolved
// from an exam set's topic weights.
type AssembledQuestion struct {
	Question  model.Question
	TopicName string
}

// AssemblyService resolves an exam set into the fixed, ordered question
// sequence a session runs on. Selection is evaluated once per session start,
// never re-randomized under the user.
type AssemblyService interface {
	Assemble(set *model.ExamSet) ([]AssembledQuestion, error)
}

type assemblyService struct {
	questionRepo repository.QuestionRepository
}

func NewAssemblyService(questionRepo repository.QuestionRepository) AssemblyService {
	return &assemblyService{questionRepo: questionRepo}
}

// Assemble walks the set's topic weights in sort_order, takes the first
// question_count entries of each topic's deterministically ordered pool, and
// concatenates the selections preserving topic order.
func (s *assemblyService) Assemble(set *model.ExamSet) ([]AssembledQuestion, error) {
	var sequence []AssembledQuestion

	for _, weight := range set.Topics {
		pool, err := s.questionRepo.FindPoolByTopicID(weight.TopicID)
		if err != nil {
			return nil, fmt.Errorf("error loading question pool for topic %s: %w", weight.TopicID, err)
		}

		orderPool(pool)

		take := weight.QuestionCount
		if take > len(pool) {
			take = len(pool)
		}
		for _, q := range pool[:take] {
			sequence = append(sequence, AssembledQuestion{
				Question:  q,
				TopicName: weight.Topic.Name,
			})
		}
	}

	return sequence, nil
}

// orderPool pre-orders a topic's pool deterministically so pagination and
// refresh stay stable: questions sharing a group_id stay adjacent in their
// explicit group_order; everything else orders by identifier.
func orderPool(pool []model.Question) {
	sort.SliceStable(pool, func(i, j int) bool {
		ai, aj := poolAnchor(pool[i]), poolAnchor(pool[j])
		if ai != aj {
			return ai < aj
		}
		oi, oj := 0, 0
		if pool[i].GroupOrder != nil {
			oi = *pool[i].GroupOrder
		}
		if pool[j].GroupOrder != nil {
			oj = *pool[j].GroupOrder
		}
		if oi != oj {
			return oi < oj
		}
		return pool[i].ID.String() < pool[j].ID.String()
	})
}

// poolAnchor keys a question's position: group members share their group's
// key so multi-part items never split.
func poolAnchor(q model.Question) string {
	if q.GroupID != nil {
		return q.GroupID.String()
	}
	return q.ID.String()
}
