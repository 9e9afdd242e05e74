package app

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"proctor-scoring-service/internal/catalog"
	"proctor-scoring-service/internal/domain"
)

// targetPercentage is the mastery bar the gap analysis measures against.
const targetPercentage = 75

// ComputeImprovementPriorities runs the weighted gap analysis over a
// competency breakdown: gap = max(0, 75 - percentage), priority score =
// round(gap * weight, 3). The result is sorted by priority score
// descending; ties keep the input order.
func ComputeImprovementPriorities(scores []domain.CompetencyScore, cat *catalog.Catalog) []domain.ImprovementPriority {
	priorities := make([]domain.ImprovementPriority, 0, len(scores))
	for _, s := range scores {
		gap := math.Max(0, targetPercentage-s.Percentage)
		priorities = append(priorities, domain.ImprovementPriority{
			Competency:    s.Competency,
			Percentage:    s.Percentage,
			PriorityScore: round3(gap * cat.Weight(s.Competency)),
			IsStrength:    s.IsStrength,
			IsWeakness:    s.IsWeakness,
		})
	}
	sort.SliceStable(priorities, func(i, j int) bool {
		return priorities[i].PriorityScore > priorities[j].PriorityScore
	})
	return priorities
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// RecommendCourses maps the breakdown onto the course catalog. Priority
// courses come from the top two weak competencies (below 60%, with a
// lowest-two-percentage fallback when nothing is below 60). Complementary
// courses cover the 50-75% band and advanced courses everything at 75% or
// above, both ordered by percentage descending. All three lists are
// deduplicated preserving first occurrence.
func RecommendCourses(scores []domain.CompetencyScore, cat *catalog.Catalog) domain.CourseRecommendations {
	priorities := ComputeImprovementPriorities(scores, cat)

	weak := make([]domain.ImprovementPriority, 0, len(priorities))
	for _, p := range priorities {
		if p.Percentage < 60 {
			weak = append(weak, p)
		}
	}
	if len(weak) == 0 {
		lowest := make([]domain.ImprovementPriority, len(priorities))
		copy(lowest, priorities)
		sort.SliceStable(lowest, func(i, j int) bool { return lowest[i].Percentage < lowest[j].Percentage })
		weak = lowest[:min(2, len(lowest))]
	}

	var priority []string
	for _, w := range weak[:min(2, len(weak))] {
		priority = append(priority, cat.PriorityCourses(w.Competency)...)
	}

	desc := make([]domain.CompetencyScore, len(scores))
	copy(desc, scores)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Percentage > desc[j].Percentage })

	var complementary, advanced []string
	for _, s := range desc {
		if s.Percentage >= 50 && s.Percentage < targetPercentage {
			complementary = append(complementary, cat.ComplementaryCourses(s.Competency)...)
		}
	}
	for _, s := range desc {
		if s.Percentage >= targetPercentage {
			advanced = append(advanced, cat.AdvancedCourses(s.Competency)...)
		}
	}

	return domain.CourseRecommendations{
		Priority:      dedupe(priority),
		Complementary: dedupe(complementary),
		Advanced:      dedupe(advanced),
	}
}

// dedupe removes duplicate titles preserving first occurrence. The result
// is never nil so recommendation JSON renders empty arrays, not null.
func dedupe(courses []string) []string {
	out := make([]string, 0, len(courses))
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// BuildActionPlan phases the recommendations into 30-day, 90-day and
// 6-12-month buckets. It is a pure function of the recommendations and the
// flagged strengths; nothing is persisted.
func BuildActionPlan(rec domain.CourseRecommendations, scores []domain.CompetencyScore) domain.ActionPlan {
	plan := domain.ActionPlan{
		Next30Days:      make([]string, 0, 2),
		Next90Days:      make([]string, 0, 2),
		Next6To12Months: make([]string, 0, 3),
	}

	if len(rec.Priority) > 0 {
		plan.Next30Days = append(plan.Next30Days, "Complete priority course: "+rec.Priority[0])
	} else {
		plan.Next30Days = append(plan.Next30Days, "Start with foundational skill-building tasks")
	}
	plan.Next30Days = append(plan.Next30Days, "Practice 30–60 mins daily on weakest competency")

	for _, c := range rec.Complementary[:min(2, len(rec.Complementary))] {
		plan.Next90Days = append(plan.Next90Days, "Complete: "+c)
	}
	if len(plan.Next90Days) == 0 {
		plan.Next90Days = append(plan.Next90Days, "Build a mini-project to reinforce skills")
	}

	for _, c := range rec.Advanced[:min(2, len(rec.Advanced))] {
		plan.Next6To12Months = append(plan.Next6To12Months, "Take advanced course: "+c)
	}
	if len(plan.Next6To12Months) == 0 {
		plan.Next6To12Months = append(plan.Next6To12Months, "Start a specialization/capstone")
	}

	var strengths []string
	for _, s := range scores {
		if s.IsStrength {
			strengths = append(strengths, humanizeCompetency(s.Competency))
		}
	}
	if len(strengths) > 0 {
		plan.Next6To12Months = append(plan.Next6To12Months,
			fmt.Sprintf("Leverage strengths (%s) for internships or projects.", strings.Join(strengths, ", ")))
	}
	return plan
}

var titleCaser = cases.Title(language.English)

// humanizeCompetency renders a taxonomy tag for end users:
// "critical_thinking" -> "Critical Thinking".
func humanizeCompetency(c domain.Competency) string {
	return titleCaser.String(strings.ReplaceAll(string(c), "_", " "))
}
