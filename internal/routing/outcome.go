package routing

// SolveStatus classifies the outcome of a search-phase attempt. The fallback
// heuristic reports StatusHeuristic so callers can distinguish solution
// quality. StatusOptimal means the improvement phase converged to a local
// optimum with every location assigned; it is not a proof of global
// optimality.
type SolveStatus string

const (
	StatusOptimal   SolveStatus = "OPTIMAL"   // converged to a local optimum within the budget
	StatusFeasible  SolveStatus = "FEASIBLE"  // feasible solution, budget exhausted before convergence
	StatusNotSolved SolveStatus = "NOT_SOLVED"
	StatusTimeout   SolveStatus = "FAIL_TIMEOUT"
	StatusFailed    SolveStatus = "FAIL"
	StatusInvalid   SolveStatus = "INVALID_MODEL"
	StatusHeuristic SolveStatus = "HEURISTIC (nearest neighbor)"
)

// SolveOutcome is the tagged result of one solver path. The optimizer falls
// through to the nearest-neighbor heuristic on any outcome that carries no
// solution, so an optional or failing solver is a first-class branch rather
// than an exception-handling accident.
type SolveOutcome struct {
	Status     SolveStatus
	Routes     []VehicleRoute
	Unassigned []string
	Err        error
}

// HasSolution reports whether the outcome carries usable routes.
func (o SolveOutcome) HasSolution() bool {
	return o.Status == StatusOptimal || o.Status == StatusFeasible
}

// Objective selects the arc-cost evaluator used by the search phase.
type Objective string

const (
	ObjectiveDistance Objective = "distance"
	ObjectiveTime     Objective = "time"
)
