package domain

import "time"

// Competency is one category of the fixed five-skill taxonomy every exam
// question is tagged with. Scores are computed per competency.
type Competency string

const (
	CriticalThinking Competency = "critical_thinking"
	Communication    Competency = "communication"
	Adaptability     Competency = "adaptability"
	BasicEngineering Competency = "basic_engineering"
	Technical        Competency = "technical"
)

// Competencies returns the taxonomy in canonical order. Grading and
// evaluation iterate in this order so results are deterministic.
func Competencies() []Competency {
	return []Competency{CriticalThinking, Communication, Adaptability, BasicEngineering, Technical}
}

// Marks awarded per correct answer, by competency.
var Marks = map[Competency]int{
	CriticalThinking: 4,
	Communication:    2,
	Adaptability:     1,
	BasicEngineering: 5,
	Technical:        6,
}

// MaxScores is the maximum attainable raw score per competency, derived
// from the fixed question counts (5, 5, 2, 5, 8).
var MaxScores = map[Competency]int{
	CriticalThinking: 5 * 4, // 20
	Communication:    5 * 2, // 10
	Adaptability:     2 * 1, // 2
	BasicEngineering: 5 * 5, // 25
	Technical:        8 * 6, // 48
}

// PerformanceLevel is the ordinal band derived from a competency percentage.
type PerformanceLevel string

const (
	LevelNovice     PerformanceLevel = "novice"
	LevelEmerging   PerformanceLevel = "emerging"
	LevelDeveloping PerformanceLevel = "developing"
	LevelProficient PerformanceLevel = "proficient"
	LevelAdvanced   PerformanceLevel = "advanced"
)

// LevelForPercentage maps a 0-100 percentage to its band. Thresholds are
// checked in descending order; the first match wins.
func LevelForPercentage(pct float64) PerformanceLevel {
	switch {
	case pct >= 85:
		return LevelAdvanced
	case pct >= 70:
		return LevelProficient
	case pct >= 50:
		return LevelDeveloping
	case pct >= 30:
		return LevelEmerging
	default:
		return LevelNovice
	}
}

// Question is one exam question with its answer key and competency tag.
type Question struct {
	ID            string     `json:"id"`
	Prompt        string     `json:"prompt"`
	CorrectAnswer string     `json:"correctAnswer"`
	Competency    Competency `json:"competency"`
}

// QuestionSet is the immutable question bank an exam is taken against.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// AnswerSet maps stringified question IDs to submitted values. A missing
// key counts as an incorrect answer.
type AnswerSet map[string]string

// CompetencyScore is one row of an exam's competency breakdown. The full
// set for an exam is replaced atomically on every scoring run, never
// patched in place.
type CompetencyScore struct {
	ExamID     int64            `json:"examId"`
	Competency Competency       `json:"competency"`
	RawScore   int              `json:"rawScore"`
	MaxScore   int              `json:"maxScore"`
	Percentage float64          `json:"percentage"` // clamped to [0,100]
	Level      PerformanceLevel `json:"level"`
	IsStrength bool             `json:"isStrength"`
	IsWeakness bool             `json:"isWeakness"`
}

// ViolationType classifies a proctoring signal. Unknown types carry zero
// severity weight.
type ViolationType string

const (
	ViolationMultiplePersons ViolationType = "multiple_persons"
	ViolationObjectDetected  ViolationType = "object_detected"
	ViolationAudioDetected   ViolationType = "audio_detected"
	ViolationGazeDetected    ViolationType = "gaze_detected"
)

// ViolationEvent is an append-only proctoring signal produced by the
// detection subsystem. Events belong to a student; ExamID is set when the
// detector can attribute the event to a specific attempt, zero otherwise.
type ViolationEvent struct {
	ID              int64         `json:"id"`
	StudentID       int64         `json:"studentId"`
	ExamID          int64         `json:"examId,omitempty"`
	EventType       ViolationType `json:"eventType"`
	TabSwitchCount  int           `json:"tabSwitchCount"`
	DetectedObjects []string      `json:"detectedObjects,omitempty"`
	OccurredAt      time.Time     `json:"occurredAt"`
}

// ViolationScope selects which events count against an exam: everything
// recorded for the student, or only events attributed to the exam itself.
// Severity was historically computed over all of a student's events; the
// scope is an explicit parameter so callers choose deliberately.
type ViolationScope string

const (
	ViolationScopeStudent ViolationScope = "student"
	ViolationScopeExam    ViolationScope = "exam"
)

// ExamStatus tracks the attempt lifecycle. Only completed exams take part
// in ranking.
type ExamStatus string

const (
	StatusOngoing   ExamStatus = "ongoing"
	StatusCompleted ExamStatus = "completed"
	StatusCancelled ExamStatus = "cancelled"
)

// Exam is one attempt by one student. Rank and Percentile are
// cohort-relative snapshots rewritten by each ranking pass; between passes
// they are stale and must be treated as read-only.
type Exam struct {
	ID              int64      `json:"id"`
	StudentID       int64      `json:"studentId"`
	ExamName        string     `json:"examName"`
	QuestionSetID   string     `json:"questionSetId"`
	TotalQuestions  int        `json:"totalQuestions"`
	CorrectAnswers  int        `json:"correctAnswers"`
	PercentageScore float64    `json:"percentageScore"`
	Status          ExamStatus `json:"status"`
	TotalScore      int        `json:"totalScore"`
	Rank            int        `json:"rank"`
	Percentile      float64    `json:"percentile"`
	CompletedAt     time.Time  `json:"completedAt"`
}

// ImprovementPriority is one entry of the weighted gap analysis: the wider
// the gap to the 75% target and the heavier the competency, the higher it
// sorts.
type ImprovementPriority struct {
	Competency    Competency `json:"competency"`
	Percentage    float64    `json:"percentage"`
	PriorityScore float64    `json:"priorityScore"`
	IsStrength    bool       `json:"isStrength"`
	IsWeakness    bool       `json:"isWeakness"`
}

// CourseRecommendations holds the three deduplicated course tiers.
type CourseRecommendations struct {
	Priority      []string `json:"priorityCourses"`
	Complementary []string `json:"complementaryCourses"`
	Advanced      []string `json:"advancedCourses"`
}

// ActionPlan phases the recommendations over three time horizons.
type ActionPlan struct {
	Next30Days      []string `json:"30_days"`
	Next90Days      []string `json:"90_days"`
	Next6To12Months []string `json:"6_12_months"`
}

// ViolationAssessment is the reduced view of the proctoring signals that
// count against an exam.
type ViolationAssessment struct {
	Severity  float64 `json:"severity"`
	Deduction int     `json:"deduction"`
	Events    int     `json:"events"`
}

// RankAssignment is one exam's position after a ranking pass.
type RankAssignment struct {
	ExamID     int64   `json:"examId"`
	TotalScore int     `json:"totalScore"`
	Rank       int     `json:"rank"`
	Percentile float64 `json:"percentile"`
}

// RankingSnapshot is the full cohort ordering produced by one ranking
// pass, broadcast to feed subscribers.
type RankingSnapshot struct {
	Assignments []RankAssignment `json:"assignments"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ScoreReport bundles everything a host application needs to present one
// scored exam.
type ScoreReport struct {
	Exam            Exam                  `json:"exam"`
	Breakdown       []CompetencyScore     `json:"breakdown"`
	Priorities      []ImprovementPriority `json:"priorities"`
	Recommendations CourseRecommendations `json:"recommendations"`
	Plan            ActionPlan            `json:"actionPlan"`
	Violations      ViolationAssessment   `json:"violations"`
}
