package memory

import (
	"context"
	"sort"
	"sync"

	"proctor-scoring-service/internal/domain"
)

// ExamStore is an in-memory implementation of app.ExamRepository.
type ExamStore struct {
	mu    sync.RWMutex
	exams map[int64]domain.Exam
}

func NewExamStore() *ExamStore {
	return &ExamStore{exams: make(map[int64]domain.Exam)}
}

// Put seeds or overwrites an exam.
func (s *ExamStore) Put(exam domain.Exam) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams[exam.ID] = exam
}

func (s *ExamStore) GetExam(_ context.Context, id int64) (domain.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exam, ok := s.exams[id]
	if !ok {
		return domain.Exam{}, domain.ErrExamNotFound
	}
	return exam, nil
}

func (s *ExamStore) UpdateExam(_ context.Context, exam domain.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[exam.ID]; !ok {
		return domain.ErrExamNotFound
	}
	s.exams[exam.ID] = exam
	return nil
}

func (s *ExamStore) ListCompleted(_ context.Context) ([]domain.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	completed := make([]domain.Exam, 0, len(s.exams))
	for _, exam := range s.exams {
		if exam.Status == domain.StatusCompleted {
			completed = append(completed, exam)
		}
	}
	// deterministic snapshot; the ranking pass imposes its own order
	sort.Slice(completed, func(i, j int) bool { return completed[i].ID < completed[j].ID })
	return completed, nil
}

func (s *ExamStore) UpdateRanks(_ context.Context, assignments []domain.RankAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assignments {
		exam, ok := s.exams[a.ExamID]
		if !ok {
			return domain.ErrExamNotFound
		}
		exam.Rank = a.Rank
		exam.Percentile = a.Percentile
		s.exams[a.ExamID] = exam
	}
	return nil
}

// ScoreStore is an in-memory implementation of app.ScoreRepository. The
// whole row set for an exam is swapped under one lock, mirroring the
// transactional replace-set the Postgres store provides.
type ScoreStore struct {
	mu     sync.RWMutex
	byExam map[int64][]domain.CompetencyScore
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{byExam: make(map[int64][]domain.CompetencyScore)}
}

func (s *ScoreStore) ReplaceForExam(_ context.Context, examID int64, scores []domain.CompetencyScore) error {
	rows := make([]domain.CompetencyScore, len(scores))
	copy(rows, scores)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byExam[examID] = rows
	return nil
}

func (s *ScoreStore) ListForExam(_ context.Context, examID int64) ([]domain.CompetencyScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]domain.CompetencyScore, len(s.byExam[examID]))
	copy(rows, s.byExam[examID])
	return rows, nil
}

// ViolationStore is an in-memory implementation of app.ViolationRepository.
type ViolationStore struct {
	mu     sync.RWMutex
	events []domain.ViolationEvent
}

func NewViolationStore() *ViolationStore {
	return &ViolationStore{}
}

// Append records an event; the detection subsystem only ever adds.
func (s *ViolationStore) Append(event domain.ViolationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *ViolationStore) ListViolations(_ context.Context, studentID, examID int64, scope domain.ViolationScope) ([]domain.ViolationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]domain.ViolationEvent, 0, len(s.events))
	for _, ev := range s.events {
		if ev.StudentID != studentID {
			continue
		}
		if scope == domain.ViolationScopeExam && ev.ExamID != examID {
			continue
		}
		matched = append(matched, ev)
	}
	// earliest first: the tab-switch counter is read off the first event
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].OccurredAt.Before(matched[j].OccurredAt) })
	return matched, nil
}
