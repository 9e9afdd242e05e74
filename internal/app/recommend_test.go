package app

import (
	"strings"
	"testing"

	"proctor-scoring-service/internal/catalog"
	"proctor-scoring-service/internal/domain"
)

func TestComputeImprovementPrioritiesFormulaAndOrder(t *testing.T) {
	cat := catalog.Default()
	scores := scoresWithPercentages(map[domain.Competency]float64{
		domain.CriticalThinking: 50, // gap 25 * 0.30 = 7.5
		domain.Communication:    80, // gap 0
		domain.Adaptability:     75, // gap 0
		domain.BasicEngineering: 60, // gap 15 * 0.30 = 4.5
		domain.Technical:        40, // gap 35 * 0.50 = 17.5
	})

	priorities := ComputeImprovementPriorities(scores, cat)
	if len(priorities) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(priorities))
	}

	wantOrder := []domain.Competency{
		domain.Technical, domain.CriticalThinking, domain.BasicEngineering,
		domain.Communication, domain.Adaptability, // zero scores keep input order
	}
	wantScore := map[domain.Competency]float64{
		domain.Technical:        17.5,
		domain.CriticalThinking: 7.5,
		domain.BasicEngineering: 4.5,
		domain.Communication:    0,
		domain.Adaptability:     0,
	}
	for i, p := range priorities {
		if p.Competency != wantOrder[i] {
			t.Fatalf("position %d: expected %s, got %s", i, wantOrder[i], p.Competency)
		}
		if p.PriorityScore != wantScore[p.Competency] {
			t.Fatalf("%s: expected score %v, got %v", p.Competency, wantScore[p.Competency], p.PriorityScore)
		}
	}
	for i := 1; i < len(priorities); i++ {
		if priorities[i].PriorityScore > priorities[i-1].PriorityScore {
			t.Fatalf("priorities not sorted descending at %d: %+v", i, priorities)
		}
	}
}

func TestComputeImprovementPrioritiesRoundsToThree(t *testing.T) {
	cat := catalog.Default()
	// raw 1/3 of max 48 -> 33.333...%, gap 41.666...%, * 0.5 = 20.833...
	scores := []domain.CompetencyScore{
		{Competency: domain.Technical, Percentage: 100.0 / 3.0},
	}
	priorities := ComputeImprovementPriorities(scores, cat)
	if priorities[0].PriorityScore != 20.833 {
		t.Fatalf("expected 20.833, got %v", priorities[0].PriorityScore)
	}
}

func TestRecommendCoursesTiers(t *testing.T) {
	cat := catalog.Default()
	scores := scoresWithPercentages(map[domain.Competency]float64{
		domain.CriticalThinking: 40, // weak: priority 10.5
		domain.Communication:    65, // complementary band
		domain.Adaptability:     50, // complementary band
		domain.BasicEngineering: 80, // advanced band
		domain.Technical:        55, // weak (priority 10) and complementary band
	})

	rec := RecommendCourses(scores, cat)

	wantPriority := []string{
		"Critical Thinking Bootcamp",
		"Problem Solving Workshops",
		"Field-specific Technical Foundations",
	}
	assertCourseList(t, "priority", rec.Priority, wantPriority)

	// 50-75 band ordered by percentage descending: comm 65, tech 55, adapt 50
	wantComplementary := []string{
		"Interpersonal Communication",
		"Applied Technical Projects",
		"Time & Priority Management",
	}
	assertCourseList(t, "complementary", rec.Complementary, wantComplementary)

	assertCourseList(t, "advanced", rec.Advanced, []string{"Advanced Engineering Design"})
}

func TestRecommendCoursesWeakFallback(t *testing.T) {
	cat := catalog.Default()
	// nothing below 60: fall back to the two lowest percentages (65, 70)
	scores := scoresWithPercentages(map[domain.Competency]float64{
		domain.CriticalThinking: 80,
		domain.Communication:    65,
		domain.Adaptability:     70,
		domain.BasicEngineering: 90,
		domain.Technical:        85,
	})

	rec := RecommendCourses(scores, cat)
	want := []string{
		"Technical Writing Essentials",
		"Presentation Skills",
		"Change Management Fundamentals",
	}
	assertCourseList(t, "priority", rec.Priority, want)
}

func TestRecommendCoursesDeduplicates(t *testing.T) {
	shared := "Shared Remediation Course"
	cat := &catalog.Catalog{Competencies: map[domain.Competency]catalog.Tracks{
		domain.CriticalThinking: {Weight: 0.30, Priority: []string{shared, "CT Only"}},
		domain.Technical:        {Weight: 0.50, Priority: []string{shared, "Tech Only"}},
	}}
	scores := scoresWithPercentages(map[domain.Competency]float64{
		domain.CriticalThinking: 10,
		domain.Technical:        20,
	})

	rec := RecommendCourses(scores, cat)
	seen := make(map[string]int)
	for _, c := range rec.Priority {
		seen[c]++
	}
	if seen[shared] != 1 {
		t.Fatalf("expected shared course once, got %d in %v", seen[shared], rec.Priority)
	}
}

func TestBuildActionPlanWithCourses(t *testing.T) {
	rec := domain.CourseRecommendations{
		Priority:      []string{"Critical Thinking Bootcamp", "Problem Solving Workshops"},
		Complementary: []string{"Interpersonal Communication", "Applied Technical Projects", "Extra"},
		Advanced:      []string{"Advanced Engineering Design"},
	}
	scores := scoresWithPercentages(map[domain.Competency]float64{
		domain.CriticalThinking: 90,
		domain.Technical:        85,
	})
	scores[0].IsStrength = true
	scores[1].IsStrength = true

	plan := BuildActionPlan(rec, scores)

	if plan.Next30Days[0] != "Complete priority course: Critical Thinking Bootcamp" {
		t.Fatalf("unexpected 30-day head: %q", plan.Next30Days[0])
	}
	if plan.Next30Days[1] != "Practice 30–60 mins daily on weakest competency" {
		t.Fatalf("missing daily practice reminder: %v", plan.Next30Days)
	}
	// only the first two complementary courses make the 90-day bucket
	if len(plan.Next90Days) != 2 || plan.Next90Days[0] != "Complete: Interpersonal Communication" {
		t.Fatalf("unexpected 90-day bucket: %v", plan.Next90Days)
	}
	if plan.Next6To12Months[0] != "Take advanced course: Advanced Engineering Design" {
		t.Fatalf("unexpected 6-12 month head: %v", plan.Next6To12Months)
	}
	last := plan.Next6To12Months[len(plan.Next6To12Months)-1]
	if last != "Leverage strengths (Critical Thinking, Technical) for internships or projects." {
		t.Fatalf("unexpected strengths line: %q", last)
	}
}

func TestBuildActionPlanFallbacks(t *testing.T) {
	plan := BuildActionPlan(domain.CourseRecommendations{}, nil)

	if plan.Next30Days[0] != "Start with foundational skill-building tasks" {
		t.Fatalf("unexpected 30-day fallback: %v", plan.Next30Days)
	}
	if len(plan.Next90Days) != 1 || plan.Next90Days[0] != "Build a mini-project to reinforce skills" {
		t.Fatalf("expected single 90-day fallback, got %v", plan.Next90Days)
	}
	if len(plan.Next6To12Months) != 1 || plan.Next6To12Months[0] != "Start a specialization/capstone" {
		t.Fatalf("expected single capstone fallback, got %v", plan.Next6To12Months)
	}
}

func TestHumanizeCompetency(t *testing.T) {
	if got := humanizeCompetency(domain.BasicEngineering); got != "Basic Engineering" {
		t.Fatalf("expected Basic Engineering, got %q", got)
	}
}

func assertCourseList(t *testing.T, tier string, got, want []string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("%s courses: expected %v, got %v", tier, want, got)
	}
}
