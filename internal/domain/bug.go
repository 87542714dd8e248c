package domain

import "sort"

// Severity ranks a bug for triage and score penalties. The labels sort
// lexicographically from most to least severe, so plain string ordering
// ranks bugs correctly.
type Severity string

const (
	SeverityP0 Severity = "P0_BLOCKER"
	SeverityP1 Severity = "P1_CRITICAL"
	SeverityP2 Severity = "P2_HIGH"
	SeverityP3 Severity = "P3_LOW"
)

// Rank returns the numeric rank of a severity, 0 being most severe.
// Unknown severities rank after P3.
func (s Severity) Rank() int {
	switch s {
	case SeverityP0:
		return 0
	case SeverityP1:
		return 1
	case SeverityP2:
		return 2
	case SeverityP3:
		return 3
	}
	return 4
}

// Bug is one defect found while validating an exercise. The ID is unique
// within a report run, assigned by the orchestrator after aggregation.
type Bug struct {
	ID                string   `json:"id"`
	Severity          Severity `json:"severity"`
	Category          string   `json:"category"`
	ExerciseID        string   `json:"exercise_id"`
	Description       string   `json:"description"`
	Recommendation    string   `json:"recommendation,omitempty"`
	VerificationSteps []string `json:"verification_steps,omitempty"`
	Reviewed          bool     `json:"reviewed,omitempty"` // Track if the bug was triaged in the viewer
}

// SortBugs orders bugs most severe first, keeping source order within a
// severity.
func SortBugs(bugs []Bug) {
	sort.SliceStable(bugs, func(i, j int) bool {
		return bugs[i].Severity < bugs[j].Severity
	})
}

// MostSevere returns the severity tag of the worst bug, or "none" when the
// list is empty.
func MostSevere(bugs []Bug) string {
	if len(bugs) == 0 {
		return "none"
	}
	worst := bugs[0].Severity
	for _, b := range bugs[1:] {
		if b.Severity < worst {
			worst = b.Severity
		}
	}
	return string(worst)
}
