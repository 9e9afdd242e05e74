package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"proctor-scoring-service/internal/domain"
)

type examRow struct {
	bun.BaseModel `bun:"table:exams,alias:e"`

	ID              int64     `bun:"id,pk,autoincrement"`
	StudentID       int64     `bun:"student_id,notnull"`
	ExamName        string    `bun:"exam_name,notnull"`
	QuestionSetID   string    `bun:"question_set_id,notnull"`
	TotalQuestions  int       `bun:"total_questions"`
	CorrectAnswers  int       `bun:"correct_answers"`
	PercentageScore float64   `bun:"percentage_score"`
	Status          string    `bun:"status,notnull,default:'ongoing'"`
	TotalScore      int       `bun:"total_score"`
	Rank            int       `bun:"rank"`
	Percentile      float64   `bun:"percentile"`
	CompletedAt     time.Time `bun:"completed_at,nullzero"`
}

func (r examRow) toDomain() domain.Exam {
	return domain.Exam{
		ID:              r.ID,
		StudentID:       r.StudentID,
		ExamName:        r.ExamName,
		QuestionSetID:   r.QuestionSetID,
		TotalQuestions:  r.TotalQuestions,
		CorrectAnswers:  r.CorrectAnswers,
		PercentageScore: r.PercentageScore,
		Status:          domain.ExamStatus(r.Status),
		TotalScore:      r.TotalScore,
		Rank:            r.Rank,
		Percentile:      r.Percentile,
		CompletedAt:     r.CompletedAt,
	}
}

func examRowFromDomain(e domain.Exam) examRow {
	return examRow{
		ID:              e.ID,
		StudentID:       e.StudentID,
		ExamName:        e.ExamName,
		QuestionSetID:   e.QuestionSetID,
		TotalQuestions:  e.TotalQuestions,
		CorrectAnswers:  e.CorrectAnswers,
		PercentageScore: e.PercentageScore,
		Status:          string(e.Status),
		TotalScore:      e.TotalScore,
		Rank:            e.Rank,
		Percentile:      e.Percentile,
		CompletedAt:     e.CompletedAt,
	}
}

type competencyScoreRow struct {
	bun.BaseModel `bun:"table:competency_scores,alias:cs"`

	ID         int64   `bun:"id,pk,autoincrement"`
	ExamID     int64   `bun:"exam_id,notnull"`
	Competency string  `bun:"competency,notnull"`
	RawScore   int     `bun:"raw_score,notnull"`
	MaxScore   int     `bun:"max_score,notnull"`
	Percentage float64 `bun:"percentage,notnull"`
	Level      string  `bun:"performance_level,notnull"`
	IsStrength bool    `bun:"is_strength,notnull,default:false"`
	IsWeakness bool    `bun:"is_weakness,notnull,default:false"`
}

func (r competencyScoreRow) toDomain() domain.CompetencyScore {
	return domain.CompetencyScore{
		ExamID:     r.ExamID,
		Competency: domain.Competency(r.Competency),
		RawScore:   r.RawScore,
		MaxScore:   r.MaxScore,
		Percentage: r.Percentage,
		Level:      domain.PerformanceLevel(r.Level),
		IsStrength: r.IsStrength,
		IsWeakness: r.IsWeakness,
	}
}

func scoreRowFromDomain(s domain.CompetencyScore) competencyScoreRow {
	return competencyScoreRow{
		ExamID:     s.ExamID,
		Competency: string(s.Competency),
		RawScore:   s.RawScore,
		MaxScore:   s.MaxScore,
		Percentage: s.Percentage,
		Level:      string(s.Level),
		IsStrength: s.IsStrength,
		IsWeakness: s.IsWeakness,
	}
}

type violationEventRow struct {
	bun.BaseModel `bun:"table:violation_events,alias:ve"`

	ID              int64     `bun:"id,pk,autoincrement"`
	StudentID       int64     `bun:"student_id,notnull"`
	ExamID          int64     `bun:"exam_id,nullzero"`
	EventType       string    `bun:"event_type,notnull"`
	TabSwitchCount  int       `bun:"tab_switch_count,notnull,default:0"`
	DetectedObjects []string  `bun:"detected_objects,array"`
	OccurredAt      time.Time `bun:"occurred_at,notnull"`
}

func (r violationEventRow) toDomain() domain.ViolationEvent {
	return domain.ViolationEvent{
		ID:              r.ID,
		StudentID:       r.StudentID,
		ExamID:          r.ExamID,
		EventType:       domain.ViolationType(r.EventType),
		TabSwitchCount:  r.TabSwitchCount,
		DetectedObjects: r.DetectedObjects,
		OccurredAt:      r.OccurredAt,
	}
}
