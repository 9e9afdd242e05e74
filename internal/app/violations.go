package app

import "proctor-scoring-service/internal/domain"

// Severity weight per violation type. Unknown types contribute nothing.
var violationWeights = map[domain.ViolationType]float64{
	domain.ViolationMultiplePersons: 0.30,
	domain.ViolationObjectDetected:  0.25,
	domain.ViolationAudioDetected:   0.15,
	domain.ViolationGazeDetected:    0.10,
}

const (
	tabSwitchWeight = 0.15
	tabSwitchCap    = 0.75
	severityCutoff  = 1.0
	// Flat penalty applied once severity crosses the cutoff.
	severityDeduction = 2
)

// assessViolations reduces a student's proctoring events to a severity
// score and an integer deduction. Events must be ordered by occurrence
// time ascending; the tab-switch counter is read from the earliest event
// only, capped at 0.75 severity. An empty slice yields zero severity and
// zero deduction.
func assessViolations(events []domain.ViolationEvent) domain.ViolationAssessment {
	var severity float64
	for _, ev := range events {
		severity += violationWeights[ev.EventType]
	}
	if len(events) > 0 {
		tab := float64(events[0].TabSwitchCount) * tabSwitchWeight
		if tab > tabSwitchCap {
			tab = tabSwitchCap
		}
		severity += tab
	}

	deduction := 0
	if severity >= severityCutoff {
		deduction = severityDeduction
	}
	return domain.ViolationAssessment{
		Severity:  severity,
		Deduction: deduction,
		Events:    len(events),
	}
}
