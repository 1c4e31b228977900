package wheel

import (
	"errors"
	"fmt"
)

// State is the animator lifecycle state
type State int

const (
	StateIdle State = iota
	StateSpinning
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpinning:
		return "spinning"
	case StateSettled:
		return "settled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives a state transition
type Event int

const (
	EventSpin Event = iota
	EventSettle
	EventAcknowledge
)

func (e Event) String() string {
	switch e {
	case EventSpin:
		return "spin"
	case EventSettle:
		return "settle"
	case EventAcknowledge:
		return "acknowledge"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ErrInvalidTransition is returned when an event is not allowed in the current state
var ErrInvalidTransition = errors.New("invalid wheel transition")

// Transition is the pure state function of the animator.
// Spinning is only reachable from Idle, and Settled only returns to Idle on acknowledge.
func Transition(from State, ev Event) (State, error) {
	switch {
	case from == StateIdle && ev == EventSpin:
		return StateSpinning, nil
	case from == StateSpinning && ev == EventSettle:
		return StateSettled, nil
	case from == StateSettled && ev == EventAcknowledge:
		return StateIdle, nil
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
}
