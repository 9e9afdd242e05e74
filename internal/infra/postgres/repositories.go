package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"proctor-scoring-service/internal/domain"
)

// ExamRepository is the bun-backed implementation of app.ExamRepository.
type ExamRepository struct {
	db *bun.DB
}

func NewExamRepository(db *bun.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

func (r *ExamRepository) GetExam(ctx context.Context, id int64) (domain.Exam, error) {
	row := new(examRow)
	err := r.db.NewSelect().Model(row).Where("e.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exam{}, domain.ErrExamNotFound
	}
	if err != nil {
		return domain.Exam{}, fmt.Errorf("select exam: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ExamRepository) UpdateExam(ctx context.Context, exam domain.Exam) error {
	row := examRowFromDomain(exam)
	res, err := r.db.NewUpdate().Model(&row).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

func (r *ExamRepository) ListCompleted(ctx context.Context) ([]domain.Exam, error) {
	var rows []examRow
	err := r.db.NewSelect().Model(&rows).
		Where("e.status = ?", string(domain.StatusCompleted)).
		Order("e.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select completed exams: %w", err)
	}
	exams := make([]domain.Exam, 0, len(rows))
	for _, row := range rows {
		exams = append(exams, row.toDomain())
	}
	return exams, nil
}

// UpdateRanks rewrites every assignment in a single transaction so readers
// never observe a half-applied ranking pass.
func (r *ExamRepository) UpdateRanks(ctx context.Context, assignments []domain.RankAssignment) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, a := range assignments {
			_, err := tx.NewUpdate().Model((*examRow)(nil)).
				Set("rank = ?", a.Rank).
				Set("percentile = ?", a.Percentile).
				Where("id = ?", a.ExamID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("update rank for exam %d: %w", a.ExamID, err)
			}
		}
		return nil
	})
}

// ScoreRepository is the bun-backed implementation of app.ScoreRepository.
type ScoreRepository struct {
	db *bun.DB
}

func NewScoreRepository(db *bun.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// ReplaceForExam swaps the exam's competency rows inside one transaction.
// The delete and insert commit together, so concurrent readers see either
// the old set or the new one, never a partial mix.
func (r *ScoreRepository) ReplaceForExam(ctx context.Context, examID int64, scores []domain.CompetencyScore) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*competencyScoreRow)(nil)).
			Where("exam_id = ?", examID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete competency scores: %w", err)
		}
		if len(scores) == 0 {
			return nil
		}
		rows := make([]competencyScoreRow, 0, len(scores))
		for _, s := range scores {
			rows = append(rows, scoreRowFromDomain(s))
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert competency scores: %w", err)
		}
		return nil
	})
}

func (r *ScoreRepository) ListForExam(ctx context.Context, examID int64) ([]domain.CompetencyScore, error) {
	var rows []competencyScoreRow
	err := r.db.NewSelect().Model(&rows).
		Where("cs.exam_id = ?", examID).
		Order("cs.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select competency scores: %w", err)
	}
	scores := make([]domain.CompetencyScore, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.toDomain())
	}
	return scores, nil
}

// ViolationRepository is the bun-backed implementation of
// app.ViolationRepository. Events come back earliest-first; the engine
// reads the tab-switch counter off the first event.
type ViolationRepository struct {
	db *bun.DB
}

func NewViolationRepository(db *bun.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

func (r *ViolationRepository) ListViolations(ctx context.Context, studentID, examID int64, scope domain.ViolationScope) ([]domain.ViolationEvent, error) {
	q := r.db.NewSelect().Model((*violationEventRow)(nil)).
		Where("ve.student_id = ?", studentID)
	if scope == domain.ViolationScopeExam {
		q = q.Where("ve.exam_id = ?", examID)
	}

	var rows []violationEventRow
	if err := q.Order("ve.occurred_at ASC", "ve.id ASC").Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("select violation events: %w", err)
	}
	events := make([]domain.ViolationEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, nil
}
