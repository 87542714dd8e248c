package domain

// Category tags one validation concern applied to an exercise
type Category string

const (
	CategoryPrereq      Category = "TC-PREREQ"
	CategoryIdempotency Category = "TC-IDEM"
	CategorySolution    Category = "TC-SOL"
	CategoryCleanup     Category = "TC-CLEAN"
	CategoryGrading     Category = "TC-GRADE"
	CategoryWorkflow    Category = "TC-WORKFLOW"
	CategoryWebUI       Category = "TC-WEB"
	CategoryFramework   Category = "TC-DYNOLABS"
)

// Phase is the scheduling group a category belongs to for one exercise run
type Phase int

const (
	// PhaseGate runs first and alone; its failure skips everything else
	PhaseGate Phase = iota
	// PhaseIndependent categories run concurrently once the gate passed
	PhaseIndependent
	// PhaseFinal categories run sequentially after the independent phase
	PhaseFinal
)

// categoryPhases is the static phase membership table. Dispatch is by tag,
// never by executor type name.
var categoryPhases = map[Category]Phase{
	CategoryPrereq:      PhaseGate,
	CategoryIdempotency: PhaseIndependent,
	CategorySolution:    PhaseIndependent,
	CategoryWorkflow:    PhaseIndependent,
	CategoryWebUI:       PhaseIndependent,
	CategoryFramework:   PhaseIndependent,
	CategoryGrading:     PhaseFinal,
	CategoryCleanup:     PhaseFinal,
}

// FinalPhaseOrder fixes the sequential order of the final phase: grading
// inspects the state the earlier phases left behind, cleanup always last.
var FinalPhaseOrder = []Category{CategoryGrading, CategoryCleanup}

// Phase returns the scheduling phase for the category. Unknown tags land in
// the independent phase so a new category can never jump the gate.
func (c Category) Phase() Phase {
	if p, ok := categoryPhases[c]; ok {
		return p
	}
	return PhaseIndependent
}
