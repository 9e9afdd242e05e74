package memory

import (
	"context"
	"testing"
	"time"

	"proctor-scoring-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string]domain.QuestionSet{
			"qset-1": sampleQuestionSet(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "qset-1"); err != nil {
		t.Fatalf("get question set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuestionSet(context.Background(), "qset-1"); err != nil {
		t.Fatalf("get question set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderUnknownSet(t *testing.T) {
	loader := NewStaticQuestionLoader(nil)
	if _, err := loader.LoadQuestionSet(context.Background(), "missing"); err != domain.ErrQuestionSetNotFound {
		t.Fatalf("expected ErrQuestionSetNotFound, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestionSet(ctx, setID)
}

func sampleQuestionSet() domain.QuestionSet {
	return domain.QuestionSet{
		ID: "qset-1",
		Questions: []domain.Question{
			{ID: "1", Prompt: "Unit of stress?", CorrectAnswer: "pascal", Competency: domain.BasicEngineering},
			{ID: "2", Prompt: "Complexity of binary search?", CorrectAnswer: "log n", Competency: domain.Technical},
		},
	}
}
