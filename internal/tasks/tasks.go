// package tasks implements the social and like/unlike workflows over the
// graph store and the songs microservice.
package tasks

// OutcomeState is the terminal state of a cross-store workflow.
type OutcomeState int

const (
	// StateSuccess means both stores are consistent at completion (or the
	// no-op shortcut was taken).
	StateSuccess OutcomeState = iota
	// StateRejected means a precondition failed before either store was
	// mutated; there is nothing to reconcile.
	StateRejected
	// StatePartialFailure means one store mutated and the other did not.
	// There is no automatic path back to StateSuccess; reconciliation, if
	// any, is an external concern.
	StatePartialFailure
)

// String implements [fmt.Stringer] for log output.
func (s OutcomeState) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateRejected:
		return "rejected"
	case StatePartialFailure:
		return "partial_failure"
	default:
		return "unknown"
	}
}

// LikeResult is the outcome of one like/unlike invocation.
type LikeResult struct {
	State   OutcomeState
	NoOp    bool   // the graph edge already existed; no counter mutation was performed
	Message string // human-readable summary for the response envelope
	Err     error  // underlying cause, wrapping a shared sentinel
}

// OK reports whether the workflow left both stores consistent.
func (r LikeResult) OK() bool {
	return r.State == StateSuccess
}
