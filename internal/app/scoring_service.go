package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"proctor-scoring-service/internal/catalog"
	"proctor-scoring-service/internal/domain"
)

// QuestionRepository loads question banks (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// ViolationRepository reads proctoring events for a student, ordered by
// occurrence time ascending. With ViolationScopeExam only events attributed
// to examID are returned; with ViolationScopeStudent examID is ignored.
type ViolationRepository interface {
	ListViolations(ctx context.Context, studentID, examID int64, scope domain.ViolationScope) ([]domain.ViolationEvent, error)
}

// ScoreRepository persists competency breakdowns. ReplaceForExam swaps the
// exam's entire row set atomically; partial states are never visible to
// readers.
type ScoreRepository interface {
	ReplaceForExam(ctx context.Context, examID int64, scores []domain.CompetencyScore) error
	ListForExam(ctx context.Context, examID int64) ([]domain.CompetencyScore, error)
}

// ExamRepository persists exam attempts and their cohort-relative ranks.
type ExamRepository interface {
	GetExam(ctx context.Context, id int64) (domain.Exam, error)
	UpdateExam(ctx context.Context, exam domain.Exam) error
	ListCompleted(ctx context.Context) ([]domain.Exam, error)
	// UpdateRanks applies a full ranking pass in one transaction.
	UpdateRanks(ctx context.Context, assignments []domain.RankAssignment) error
}

// ScoringService is the post-hoc scoring and recommendation engine. One
// invocation scores one completed exam; callers must serialize concurrent
// scoring of the same exam.
type ScoringService struct {
	exams      ExamRepository
	scores     ScoreRepository
	questions  QuestionRepository
	violations ViolationRepository
	catalog    *catalog.Catalog
	scope      domain.ViolationScope
	feed       *RankingFeed
	now        func() time.Time
}

func NewScoringService(
	exams ExamRepository,
	scores ScoreRepository,
	questions QuestionRepository,
	violations ViolationRepository,
	cat *catalog.Catalog,
	scope domain.ViolationScope,
) *ScoringService {
	if scope == "" {
		scope = domain.ViolationScopeStudent
	}
	return &ScoringService{
		exams:      exams,
		scores:     scores,
		questions:  questions,
		violations: violations,
		catalog:    cat,
		scope:      scope,
		feed:       NewRankingFeed(),
		now:        time.Now,
	}
}

// NewScoringServiceWithClock is test-only for deterministic timestamps.
func NewScoringServiceWithClock(
	exams ExamRepository,
	scores ScoreRepository,
	questions QuestionRepository,
	violations ViolationRepository,
	cat *catalog.Catalog,
	scope domain.ViolationScope,
	now func() time.Time,
) *ScoringService {
	s := NewScoringService(exams, scores, questions, violations, cat, scope)
	s.now = now
	return s
}

// Feed exposes the ranking feed for transport layers.
func (s *ScoringService) Feed() *RankingFeed {
	return s.feed
}

// CalculateTotalScore runs the grading pipeline for an exam: grade answers,
// evaluate and classify competencies, persist the breakdown as one atomic
// replace-set, then subtract the violation deduction, flooring at zero.
// Exam fields such as total_score are NOT written here; persisting the
// returned total is the caller's responsibility.
func (s *ScoringService) CalculateTotalScore(ctx context.Context, exam domain.Exam, questions []domain.Question, answers domain.AnswerSet) (int, error) {
	total, _, _, _, err := s.scoreExam(ctx, exam, questions, answers)
	return total, err
}

func (s *ScoringService) scoreExam(ctx context.Context, exam domain.Exam, questions []domain.Question, answers domain.AnswerSet) (int, []domain.CompetencyScore, gradeResult, domain.ViolationAssessment, error) {
	graded := gradeAnswers(questions, answers)
	if len(graded.unknownTags) > 0 {
		log.Printf("integrity warning: exam %d question set %s carries unknown competency tags: %s",
			exam.ID, exam.QuestionSetID, strings.Join(graded.unknownTags, ", "))
	}

	scores := evaluateCompetencies(exam.ID, graded.raw)
	classifyStrengthsWeaknesses(scores)
	if err := s.scores.ReplaceForExam(ctx, exam.ID, scores); err != nil {
		return 0, nil, graded, domain.ViolationAssessment{}, fmt.Errorf("replace competency scores: %w", err)
	}

	assessment, err := s.AssessViolations(ctx, exam)
	if err != nil {
		return 0, nil, graded, domain.ViolationAssessment{}, err
	}

	total := graded.totalRaw() - assessment.Deduction
	if total < 0 {
		total = 0
	}
	return total, scores, graded, assessment, nil
}

// AssessViolations reduces the proctoring events counting against an exam
// to a severity score and deduction, using the service's configured scope.
func (s *ScoringService) AssessViolations(ctx context.Context, exam domain.Exam) (domain.ViolationAssessment, error) {
	events, err := s.violations.ListViolations(ctx, exam.StudentID, exam.ID, s.scope)
	if err != nil {
		return domain.ViolationAssessment{}, fmt.Errorf("list violations: %w", err)
	}
	return assessViolations(events), nil
}

// FinalizeExam is the host-facing entry point: it loads the exam and its
// question bank, scores it, writes the exam totals, marks it completed,
// recomputes the cohort ranking, and returns the full report.
func (s *ScoringService) FinalizeExam(ctx context.Context, examID int64, answers domain.AnswerSet) (domain.ScoreReport, error) {
	exam, err := s.exams.GetExam(ctx, examID)
	if err != nil {
		return domain.ScoreReport{}, err
	}
	qset, err := s.questions.GetQuestionSet(ctx, exam.QuestionSetID)
	if err != nil {
		return domain.ScoreReport{}, err
	}

	total, scores, graded, assessment, err := s.scoreExam(ctx, exam, qset.Questions, answers)
	if err != nil {
		return domain.ScoreReport{}, err
	}

	exam.TotalScore = total
	exam.TotalQuestions = len(qset.Questions)
	exam.CorrectAnswers = graded.correct
	exam.PercentageScore = percentageScore(graded.correct, len(qset.Questions))
	exam.Status = domain.StatusCompleted
	if exam.CompletedAt.IsZero() {
		exam.CompletedAt = s.now()
	}
	if err := s.exams.UpdateExam(ctx, exam); err != nil {
		return domain.ScoreReport{}, fmt.Errorf("update exam: %w", err)
	}

	assignment, err := s.RankCohort(ctx, exam.ID)
	if err != nil {
		return domain.ScoreReport{}, err
	}
	exam.Rank = assignment.Rank
	exam.Percentile = assignment.Percentile

	rec := RecommendCourses(scores, s.catalog)
	return domain.ScoreReport{
		Exam:            exam,
		Breakdown:       scores,
		Priorities:      ComputeImprovementPriorities(scores, s.catalog),
		Recommendations: rec,
		Plan:            BuildActionPlan(rec, scores),
		Violations:      assessment,
	}, nil
}

// Report assembles the read-only report for an already scored exam from
// stored state. Rank and percentile reflect the last ranking pass.
func (s *ScoringService) Report(ctx context.Context, examID int64) (domain.ScoreReport, error) {
	exam, err := s.exams.GetExam(ctx, examID)
	if err != nil {
		return domain.ScoreReport{}, err
	}
	scores, err := s.scores.ListForExam(ctx, examID)
	if err != nil {
		return domain.ScoreReport{}, fmt.Errorf("list competency scores: %w", err)
	}
	assessment, err := s.AssessViolations(ctx, exam)
	if err != nil {
		return domain.ScoreReport{}, err
	}

	rec := RecommendCourses(scores, s.catalog)
	return domain.ScoreReport{
		Exam:            exam,
		Breakdown:       scores,
		Priorities:      ComputeImprovementPriorities(scores, s.catalog),
		Recommendations: rec,
		Plan:            BuildActionPlan(rec, scores),
		Violations:      assessment,
	}, nil
}

// RecomputeRankings takes a snapshot of every completed exam, computes the
// full ranking, persists all assignments in one transaction, and publishes
// the snapshot to feed subscribers. Callers must guarantee exclusive
// access to the cohort for the duration of the pass. At least one
// completed exam must exist.
func (s *ScoringService) RecomputeRankings(ctx context.Context) (domain.RankingSnapshot, error) {
	cohort, err := s.exams.ListCompleted(ctx)
	if err != nil {
		return domain.RankingSnapshot{}, fmt.Errorf("list completed exams: %w", err)
	}
	assignments, err := ComputeRanking(cohort)
	if err != nil {
		return domain.RankingSnapshot{}, err
	}
	if err := s.exams.UpdateRanks(ctx, assignments); err != nil {
		return domain.RankingSnapshot{}, fmt.Errorf("update ranks: %w", err)
	}

	snapshot := domain.RankingSnapshot{Assignments: assignments, UpdatedAt: s.now()}
	s.feed.Publish(snapshot)
	return snapshot, nil
}

// RankCohort runs a ranking pass and returns the assignment of examID.
func (s *ScoringService) RankCohort(ctx context.Context, examID int64) (domain.RankAssignment, error) {
	snapshot, err := s.RecomputeRankings(ctx)
	if err != nil {
		return domain.RankAssignment{}, err
	}
	for _, a := range snapshot.Assignments {
		if a.ExamID == examID {
			return a, nil
		}
	}
	return domain.RankAssignment{}, domain.ErrExamNotRanked
}

func percentageScore(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}

// AlgorithmInfo is a static description of the scoring rules, surfaced on
// the report endpoint for UI display.
type AlgorithmInfo struct {
	Marks                 map[domain.Competency]int     `json:"marks"`
	MaxScores             map[domain.Competency]int     `json:"maxScores"`
	PerformanceThresholds map[string]string             `json:"performanceThresholds"`
	StrengthRule          string                        `json:"strengthRule"`
	WeaknessRule          string                        `json:"weaknessRule"`
	PriorityFormula       string                        `json:"priorityFormula"`
	Weights               map[domain.Competency]float64 `json:"weights"`
}

// AlgorithmDetails describes the scoring rules in force.
func (s *ScoringService) AlgorithmDetails() AlgorithmInfo {
	weights := make(map[domain.Competency]float64, len(domain.Competencies()))
	for _, comp := range domain.Competencies() {
		weights[comp] = s.catalog.Weight(comp)
	}
	return AlgorithmInfo{
		Marks:     domain.Marks,
		MaxScores: domain.MaxScores,
		PerformanceThresholds: map[string]string{
			"advanced":   ">=85%",
			"proficient": ">=70%",
			"developing": ">=50%",
			"emerging":   ">=30%",
			"novice":     "<30%",
		},
		StrengthRule:    ">=75% & top-2",
		WeaknessRule:    "<60% & bottom-2",
		PriorityFormula: "(75 - score) x weight",
		Weights:         weights,
	}
}
