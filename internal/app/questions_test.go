package app_test

import (
	"context"
	"testing"
	"time"

	"quiz-arena-service/internal/app"
	"quiz-arena-service/internal/domain"
	"quiz-arena-service/internal/infra/memory"
)

func newQuestionService() *app.QuestionService {
	questions := []domain.Question{
		{ID: "q1", Category: "science", Difficulty: domain.DifficultyEasy},
		{ID: "q2", Category: "science", Difficulty: domain.DifficultyEasy},
		{ID: "q3", Category: "science", Difficulty: domain.DifficultyHard},
	}
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"science": questions,
	}), 5*time.Minute)
	return app.NewQuestionService(repo)
}

func TestQuestionsFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	service := newQuestionService()

	got, err := service.Questions(ctx, "science", domain.DifficultyEasy, 10)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 easy questions, got %d", len(got))
	}

	got, err = service.Questions(ctx, "science", "", 1)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected limit to cap at 1, got %d", len(got))
	}
}

func TestQuestionsNoMatches(t *testing.T) {
	service := newQuestionService()

	if _, err := service.Questions(context.Background(), "history", "", 10); err != domain.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions for unknown category, got %v", err)
	}
}
