package app

import (
	"math"
	"testing"
	"time"

	"proctor-scoring-service/internal/domain"
)

func TestAssessViolationsSeverityAndDeduction(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []domain.ViolationEvent{
		{EventType: domain.ViolationMultiplePersons, TabSwitchCount: 4, OccurredAt: base},
		{EventType: domain.ViolationObjectDetected, TabSwitchCount: 99, OccurredAt: base.Add(time.Minute)},
	}

	// 0.30 + 0.25 + min(4*0.15, 0.75) = 1.15; the second event's counter is ignored
	got := assessViolations(events)
	if math.Abs(got.Severity-1.15) > 1e-9 {
		t.Fatalf("expected severity 1.15, got %f", got.Severity)
	}
	if got.Deduction != 2 {
		t.Fatalf("expected deduction 2, got %d", got.Deduction)
	}

	// dropping the tab switches lands below the cutoff
	events[0].TabSwitchCount = 0
	got = assessViolations(events[:2])
	if math.Abs(got.Severity-0.55) > 1e-9 {
		t.Fatalf("expected severity 0.55, got %f", got.Severity)
	}
	if got.Deduction != 0 {
		t.Fatalf("expected no deduction, got %d", got.Deduction)
	}
}

func TestAssessViolationsTabSwitchCap(t *testing.T) {
	events := []domain.ViolationEvent{
		{EventType: domain.ViolationGazeDetected, TabSwitchCount: 50},
	}
	got := assessViolations(events)
	if math.Abs(got.Severity-0.85) > 1e-9 { // 0.10 + capped 0.75
		t.Fatalf("expected severity 0.85, got %f", got.Severity)
	}
}

func TestAssessViolationsUnknownTypeIgnored(t *testing.T) {
	events := []domain.ViolationEvent{
		{EventType: "yawning_detected"},
	}
	got := assessViolations(events)
	if got.Severity != 0 || got.Deduction != 0 {
		t.Fatalf("unknown event type must carry zero weight, got %+v", got)
	}
}

func TestAssessViolationsEmpty(t *testing.T) {
	got := assessViolations(nil)
	if got.Severity != 0 || got.Deduction != 0 || got.Events != 0 {
		t.Fatalf("expected zero assessment, got %+v", got)
	}
}
