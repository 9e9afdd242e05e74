package memory

import (
	"context"
	"testing"
	"time"

	"proctor-scoring-service/internal/domain"
)

func TestScoreStoreReplaceSwapsWholeSet(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()

	first := []domain.CompetencyScore{
		{ExamID: 1, Competency: domain.Technical, Percentage: 40},
		{ExamID: 1, Competency: domain.Communication, Percentage: 60},
	}
	if err := store.ReplaceForExam(ctx, 1, first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	second := []domain.CompetencyScore{
		{ExamID: 1, Competency: domain.Technical, Percentage: 90},
	}
	if err := store.ReplaceForExam(ctx, 1, second); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	rows, err := store.ListForExam(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Percentage != 90 {
		t.Fatalf("expected old rows gone, got %+v", rows)
	}
}

func TestExamStoreListCompletedFilters(t *testing.T) {
	ctx := context.Background()
	store := NewExamStore()
	store.Put(domain.Exam{ID: 1, Status: domain.StatusCompleted})
	store.Put(domain.Exam{ID: 2, Status: domain.StatusOngoing})
	store.Put(domain.Exam{ID: 3, Status: domain.StatusCancelled})

	completed, err := store.ListCompleted(ctx)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != 1 {
		t.Fatalf("expected only the completed exam, got %+v", completed)
	}
}

func TestExamStoreUpdateRanks(t *testing.T) {
	ctx := context.Background()
	store := NewExamStore()
	store.Put(domain.Exam{ID: 1, Status: domain.StatusCompleted})
	store.Put(domain.Exam{ID: 2, Status: domain.StatusCompleted})

	err := store.UpdateRanks(ctx, []domain.RankAssignment{
		{ExamID: 1, Rank: 2, Percentile: 0},
		{ExamID: 2, Rank: 1, Percentile: 50},
	})
	if err != nil {
		t.Fatalf("update ranks: %v", err)
	}

	exam, _ := store.GetExam(ctx, 2)
	if exam.Rank != 1 || exam.Percentile != 50 {
		t.Fatalf("rank not applied: %+v", exam)
	}
}

func TestExamStoreMissingExam(t *testing.T) {
	ctx := context.Background()
	store := NewExamStore()
	if _, err := store.GetExam(ctx, 42); err != domain.ErrExamNotFound {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
	if err := store.UpdateExam(ctx, domain.Exam{ID: 42}); err != domain.ErrExamNotFound {
		t.Fatalf("expected ErrExamNotFound on update, got %v", err)
	}
}

func TestViolationStoreOrderingAndScope(t *testing.T) {
	ctx := context.Background()
	store := NewViolationStore()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	store.Append(domain.ViolationEvent{ID: 1, StudentID: 7, ExamID: 2, EventType: domain.ViolationAudioDetected, OccurredAt: base.Add(time.Hour)})
	store.Append(domain.ViolationEvent{ID: 2, StudentID: 7, ExamID: 1, EventType: domain.ViolationGazeDetected, OccurredAt: base})
	store.Append(domain.ViolationEvent{ID: 3, StudentID: 8, ExamID: 1, EventType: domain.ViolationMultiplePersons, OccurredAt: base})

	events, err := store.ListViolations(ctx, 7, 1, domain.ViolationScopeStudent)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("student scope: expected 2 events, got %d", len(events))
	}
	if events[0].ID != 2 {
		t.Fatalf("expected earliest event first, got %+v", events[0])
	}

	events, err = store.ListViolations(ctx, 7, 1, domain.ViolationScopeExam)
	if err != nil {
		t.Fatalf("list exam scope: %v", err)
	}
	if len(events) != 1 || events[0].ID != 2 {
		t.Fatalf("exam scope: expected only the attributed event, got %+v", events)
	}
}
