package app

import (
	"context"
	"math/rand"

	"quiz-arena-service/internal/domain"
)

// QuestionRepository loads question content (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, category string) ([]domain.Question, error)
}

// QuestionService serves randomly ordered question sets for game sessions.
type QuestionService struct {
	questions QuestionRepository
}

func NewQuestionService(questions QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions}
}

// Questions returns up to limit questions for a category, optionally
// filtered by difficulty, in random order.
func (s *QuestionService) Questions(ctx context.Context, category string, difficulty domain.Difficulty, limit int) ([]domain.Question, error) {
	all, err := s.questions.GetQuestions(ctx, category)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Question, 0, len(all))
	for _, q := range all {
		if difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		filtered = append(filtered, q)
	}
	if len(filtered) == 0 {
		return nil, domain.ErrNoQuestions
	}

	rand.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
