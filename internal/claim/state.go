package claim

import (
	"errors"
	"fmt"
)

// State is the claim lifecycle of one spin
type State int

const (
	StateUnclaimed State = iota
	StateClaiming
	StateClaimed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnclaimed:
		return "unclaimed"
	case StateClaiming:
		return "claiming"
	case StateClaimed:
		return "claimed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrInvalidTransition is returned when a claim moves out of order
var ErrInvalidTransition = errors.New("invalid claim transition")

// Transition validates a move between claim states.
// Claimed is terminal; Failed may be retried.
func Transition(from, to State) (State, error) {
	switch {
	case to == StateClaiming && (from == StateUnclaimed || from == StateFailed):
		return to, nil
	case from == StateClaiming && (to == StateClaimed || to == StateFailed):
		return to, nil
	}
	return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
