package app

import "proctor-scoring-service/internal/domain"

// gradeResult is the outcome of grading one answer set against a question
// bank.
type gradeResult struct {
	// raw holds accumulated marks per competency, zero-initialized for the
	// whole taxonomy.
	raw map[domain.Competency]int
	// correct is the number of exactly-matching answers.
	correct int
	// unknownTags lists competency tags found on questions but absent from
	// the taxonomy. They earn no marks and are surfaced as integrity
	// warnings, never as failures.
	unknownTags []string
}

// gradeAnswers compares submitted answers to the question keys and
// accumulates marks per competency. Answers are looked up by question ID;
// a missing key counts as incorrect. Matching is exact string equality,
// no partial credit.
func gradeAnswers(questions []domain.Question, answers domain.AnswerSet) gradeResult {
	res := gradeResult{raw: make(map[domain.Competency]int, len(domain.Competencies()))}
	for _, comp := range domain.Competencies() {
		res.raw[comp] = 0
	}

	seen := make(map[domain.Competency]bool)
	for _, q := range questions {
		submitted, ok := answers[q.ID]
		if !ok || submitted != q.CorrectAnswer {
			continue
		}
		res.correct++
		mark, known := domain.Marks[q.Competency]
		if !known {
			if !seen[q.Competency] {
				seen[q.Competency] = true
				res.unknownTags = append(res.unknownTags, string(q.Competency))
			}
			continue
		}
		res.raw[q.Competency] += mark
	}
	return res
}

// totalRaw sums the accumulated marks across all competencies.
func (r gradeResult) totalRaw() int {
	total := 0
	for _, v := range r.raw {
		total += v
	}
	return total
}
