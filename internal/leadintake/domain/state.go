// Package domain provides core business rules for the lead intake bounded context.
package domain

// State is a lead's position in the intake lifecycle.
//
// Transitions:
//
//	Received → Validated → Submitted        (success)
//	Received → Rejected                     (validation failure)
//	Received → Validated → SubmissionFailed (downstream unavailable)
type State string

const (
	StateReceived         State = "Received"
	StateValidated        State = "Validated"
	StateSubmitted        State = "Submitted"
	StateRejected         State = "Rejected"
	StateSubmissionFailed State = "Submission_Failed"
)

// validTransitions enumerates the allowed state machine edges.
var validTransitions = map[State][]State{
	StateReceived:  {StateValidated, StateRejected},
	StateValidated: {StateSubmitted, StateSubmissionFailed},
}

// terminalStates are states a lead never leaves. Rejected and
// Submission_Failed are both terminal failures, but they must never be
// conflated: one is user-correctable, the other is not.
var terminalStates = map[State]bool{
	StateSubmitted:        true,
	StateRejected:         true,
	StateSubmissionFailed: true,
}

// IsTerminal returns true when no further transition is allowed.
func IsTerminal(s State) bool {
	return terminalStates[s]
}

// CanTransition reports whether moving from one state to another is a
// valid state machine edge.
func CanTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
