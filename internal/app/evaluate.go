package app

import (
	"sort"

	"proctor-scoring-service/internal/domain"
)

// evaluateCompetencies converts raw marks into the five CompetencyScore
// rows for an exam: percentage clamped to [0,100], performance level by
// threshold, strength/weakness flags initialized false. Rows come back in
// canonical taxonomy order.
func evaluateCompetencies(examID int64, raw map[domain.Competency]int) []domain.CompetencyScore {
	scores := make([]domain.CompetencyScore, 0, len(domain.Competencies()))
	for _, comp := range domain.Competencies() {
		max := domain.MaxScores[comp]
		pct := clampPercentage(raw[comp], max)
		scores = append(scores, domain.CompetencyScore{
			ExamID:     examID,
			Competency: comp,
			RawScore:   raw[comp],
			MaxScore:   max,
			Percentage: pct,
			Level:      domain.LevelForPercentage(pct),
		})
	}
	return scores
}

func clampPercentage(raw, max int) float64 {
	if max <= 0 {
		return 0
	}
	pct := float64(raw) / float64(max) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// classifyStrengthsWeaknesses flags the top and bottom performers in place.
// Strength candidates are items at or above 75%; if fewer than two qualify
// the top two by percentage are taken regardless. Weakness candidates are
// items below 60% with a symmetric bottom-two fallback. At most two of
// each are flagged, all flags are reset first, and the two selections are
// independent: with two or fewer items the same competency may carry both
// flags. Empty input is a no-op.
func classifyStrengthsWeaknesses(scores []domain.CompetencyScore) {
	if len(scores) == 0 {
		return
	}
	for i := range scores {
		scores[i].IsStrength = false
		scores[i].IsWeakness = false
	}

	desc := make([]*domain.CompetencyScore, len(scores))
	for i := range scores {
		desc[i] = &scores[i]
	}
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Percentage > desc[j].Percentage })

	strengths := make([]*domain.CompetencyScore, 0, len(desc))
	for _, s := range desc {
		if s.Percentage >= 75 {
			strengths = append(strengths, s)
		}
	}
	if len(strengths) < 2 {
		strengths = desc[:min(2, len(desc))]
	}
	for _, s := range strengths[:min(2, len(strengths))] {
		s.IsStrength = true
	}

	asc := make([]*domain.CompetencyScore, len(desc))
	copy(asc, desc)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Percentage < asc[j].Percentage })

	weaknesses := make([]*domain.CompetencyScore, 0, len(asc))
	for _, s := range asc {
		if s.Percentage < 60 {
			weaknesses = append(weaknesses, s)
		}
	}
	if len(weaknesses) < 2 {
		weaknesses = asc[:min(2, len(asc))]
	}
	for _, s := range weaknesses[:min(2, len(weaknesses))] {
		s.IsWeakness = true
	}
}
