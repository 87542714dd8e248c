// Package metrics computes the course quality score and checks performance
// budgets. Both are pure reporting transforms; neither changes pass/fail.
package metrics

import (
	"math"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Score weights. Three independently capped axes summed to at most 100.
const (
	CoverageWeight    = 30
	DefectsWeight     = 40
	ReliabilityWeight = 30
)

// SeverityPenalty is the defect score deduction per bug. A single P0 alone
// saturates the defect axis to zero.
var SeverityPenalty = map[domain.Severity]int{
	domain.SeverityP0: 40,
	domain.SeverityP1: 20,
	domain.SeverityP2: 5,
	domain.SeverityP3: 1,
}

// Breakdown is the quality score decomposed into its auditable axes.
type Breakdown struct {
	Coverage    int `json:"coverage"`
	Defects     int `json:"defects"`
	Reliability int `json:"reliability"`
	Total       int `json:"total"`
}

// QualityScore computes the composite score for a course run.
//
// Coverage: round(30 * tested/total). An exercise counts as tested only
// when its categories actually ran: skipped exercises and environment
// errors are excluded.
// Defects: max(0, 40 - sum of severity penalties).
// Reliability: round(30 * (clean passes + idem passes) / (2*tested)).
func QualityScore(results []domain.ExerciseTestResults, totalExercises int, bugs []domain.Bug) Breakdown {
	var b Breakdown

	tested := 0
	cleanPasses := 0
	idemPasses := 0
	for _, er := range results {
		if er.Status == domain.StatusSkipped || er.Status == domain.StatusError {
			continue
		}
		tested++
		if tr, ok := er.Category(domain.CategoryCleanup); ok && tr.Passed {
			cleanPasses++
		}
		if tr, ok := er.Category(domain.CategoryIdempotency); ok && tr.Passed {
			idemPasses++
		}
	}

	if totalExercises > 0 {
		b.Coverage = int(math.Round(CoverageWeight * float64(tested) / float64(totalExercises)))
	}

	penalty := 0
	for _, bug := range bugs {
		penalty += SeverityPenalty[bug.Severity]
	}
	b.Defects = DefectsWeight - penalty
	if b.Defects < 0 {
		b.Defects = 0
	}

	if tested > 0 {
		b.Reliability = int(math.Round(ReliabilityWeight * float64(cleanPasses+idemPasses) / float64(2*tested)))
	}

	b.Total = b.Coverage + b.Defects + b.Reliability
	if b.Total > 100 {
		b.Total = 100
	}
	return b
}
