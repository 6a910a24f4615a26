package model

// State is the lifecycle state shared by lectures and enrollments.
type State string

const (
	StateApply State = "APPLY"
	StateDone  State = "DONE"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s == StateApply || s == StateDone
}

// CanTransitionTo reports whether moving from s to next is allowed.
// APPLY may stay or close; DONE is terminal.
func (s State) CanTransitionTo(next State) bool {
	switch s {
	case StateApply:
		return next == StateApply || next == StateDone
	case StateDone:
		return next == StateDone
	default:
		return next.Valid()
	}
}
