package core

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"paych/core/transfer"
)

var (
	// ErrEmptyBatch is returned when Dispatch is called with no state
	// changes. This is a caller bug: producers must hand over non-empty,
	// ordered batches.
	ErrEmptyBatch = errors.New("dispatch called with an empty state change batch")

	// ErrInvalidTransition flags a transition function that broke its
	// contract, e.g. returned no new state or a nil event. The node's
	// state must be considered suspect after seeing this.
	ErrInvalidTransition = errors.New("transition function violated its contract")
)

// TransitionFunc applies one state change to one state and returns the
// replacement state plus the produced events. It must be pure and
// deterministic: no clocks, no randomness, no I/O, no iteration over
// unordered containers. Crash recovery replays the logged state changes
// through the same function and must reproduce the pre-crash state exactly.
// A nil input state means the node has no state yet and the function is
// expected to produce the initial one.
type TransitionFunc func(state transfer.State, change transfer.StateChange) transfer.TransitionResult

// StateManager owns the mutable current-state cell for one node and advances
// it by applying StateChange batches through the injected transition
// function.
//
// The manager performs no locking. All calls must come from a single owner
// goroutine; producers hand their batches to that owner instead of calling
// Dispatch themselves.
type StateManager struct {
	stateTransition TransitionFunc
	currentState    transfer.State
	logger          *slog.Logger
}

// NewStateManager builds a manager around the given transition function and
// initial state. The initial state may be nil when the node boots without a
// snapshot; the first transition is then expected to create it.
func NewStateManager(stateTransition TransitionFunc, currentState transfer.State, logger *slog.Logger) (*StateManager, error) {
	if stateTransition == nil {
		return nil, errors.New("state transition function must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StateManager{
		stateTransition: stateTransition,
		currentState:    currentState,
		logger:          logger,
	}, nil
}

// CurrentState returns the latest published state. Callers must treat it as
// immutable; older snapshots may still be referenced by the write-ahead log.
func (sm *StateManager) CurrentState() transfer.State {
	return sm.currentState
}

// Dispatch folds an ordered, non-empty batch of state changes through the
// transition function and publishes the final state.
//
// The fold runs on a defensive copy of the current state, so the transition
// function can never mutate the previously published snapshot. The returned
// event lists align one-to-one with the input batch. The final state is
// published only after the whole batch succeeded: a contract violation
// aborts the batch with ErrInvalidTransition and leaves the published state
// untouched. Callers must treat that error as fatal for the node, not as a
// condition to retry.
func (sm *StateManager) Dispatch(stateChanges []transfer.StateChange) (transfer.State, [][]transfer.Event, error) {
	if len(stateChanges) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	// The previous snapshot may still be referenced elsewhere, so the
	// transition function only ever sees a fresh copy.
	var nextState transfer.State
	if sm.currentState != nil {
		beforeCopy := time.Now()
		nextState = sm.currentState.Copy()
		sm.logger.Debug("copied state before applying state changes",
			"duration", time.Since(beforeCopy))
	}

	events := make([][]transfer.Event, 0, len(stateChanges))
	for i, stateChange := range stateChanges {
		if stateChange == nil {
			return nil, nil, fmt.Errorf("%w: state change %d is nil", ErrInvalidTransition, i)
		}
		iteration := sm.stateTransition(nextState, stateChange)
		if iteration.NewState == nil {
			return nil, nil, fmt.Errorf("%w: no new state for %q", ErrInvalidTransition, stateChange.ChangeType())
		}
		for _, event := range iteration.Events {
			if event == nil {
				return nil, nil, fmt.Errorf("%w: nil event produced by %q", ErrInvalidTransition, stateChange.ChangeType())
			}
		}

		// The working state is internal, no copy needed between
		// iterations.
		events = append(events, iteration.Events)
		nextState = iteration.NewState
	}

	sm.currentState = nextState
	return nextState, events, nil
}
