package domain

import "errors"

var (
	// ErrExamNotFound is returned when the referenced exam does not exist.
	ErrExamNotFound = errors.New("exam not found")
	// ErrQuestionSetNotFound indicates the question bank could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrEmptyCohort is returned when a ranking pass runs with no completed exams.
	ErrEmptyCohort = errors.New("no completed exams in cohort")
	// ErrExamNotRanked is returned when an exam is absent from the ranking snapshot.
	ErrExamNotRanked = errors.New("exam not present in ranking snapshot")
)
