package transfer

import "reflect"

// TransitionResult is the outcome of applying a single state change: the
// state that replaces the input state, and the events the change produced.
// Construction performs no validation; it is the dispatcher's job to reject a
// result with an absent new state or a nil event, since that is a bug in the
// transition function, not bad input data.
type TransitionResult struct {
	NewState State
	Events   []Event
}

// Equal reports structural equality of both the new state and the event list.
func (tr TransitionResult) Equal(other TransitionResult) bool {
	if !reflect.DeepEqual(tr.NewState, other.NewState) {
		return false
	}
	if len(tr.Events) != len(other.Events) {
		return false
	}
	for i := range tr.Events {
		if !reflect.DeepEqual(tr.Events[i], other.Events[i]) {
			return false
		}
	}
	return true
}
