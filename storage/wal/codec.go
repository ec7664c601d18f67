package wal

import (
	"encoding/json"
	"fmt"
	"reflect"

	"paych/core/transfer"
)

// envelope wraps a serialized state change or state with the tag needed to
// pick the concrete type back out on restore.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Registry maps type tags to factories for the open sets of StateChange and
// State variants the surrounding domain logic defines. All registration must
// happen before the log is opened; the registry is not synchronized.
type Registry struct {
	changes   map[string]func() transfer.StateChange
	states    map[string]func() transfer.State
	stateTags map[reflect.Type]string
}

func NewRegistry() *Registry {
	return &Registry{
		changes:   make(map[string]func() transfer.StateChange),
		states:    make(map[string]func() transfer.State),
		stateTags: make(map[reflect.Type]string),
	}
}

// RegisterStateChange registers a factory for one state change variant. The
// tag is taken from the zero value's ChangeType. Factories must return
// pointers so decoded records can be unmarshalled in place.
func (r *Registry) RegisterStateChange(factory func() transfer.StateChange) {
	tag := factory().ChangeType()
	if _, dup := r.changes[tag]; dup {
		panic(fmt.Sprintf("wal: duplicate state change registration %q", tag))
	}
	r.changes[tag] = factory
}

// RegisterState registers a factory for one state variant under an explicit
// tag, used for snapshot round-trips.
func (r *Registry) RegisterState(tag string, factory func() transfer.State) {
	if _, dup := r.states[tag]; dup {
		panic(fmt.Sprintf("wal: duplicate state registration %q", tag))
	}
	r.states[tag] = factory
	r.stateTags[reflect.TypeOf(factory())] = tag
}

func (r *Registry) encodeStateChange(change transfer.StateChange) ([]byte, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("wal: encode state change %q: %w", change.ChangeType(), err)
	}
	return json.Marshal(envelope{Type: change.ChangeType(), Data: data})
}

func (r *Registry) decodeStateChange(raw []byte) (transfer.StateChange, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("wal: decode state change envelope: %w", err)
	}
	factory, ok := r.changes[env.Type]
	if !ok {
		return nil, fmt.Errorf("wal: unregistered state change type %q", env.Type)
	}
	change := factory()
	if err := json.Unmarshal(env.Data, change); err != nil {
		return nil, fmt.Errorf("wal: decode state change %q: %w", env.Type, err)
	}
	return change, nil
}

func (r *Registry) encodeState(state transfer.State) ([]byte, error) {
	tag, ok := r.stateTags[reflect.TypeOf(state)]
	if !ok {
		return nil, fmt.Errorf("wal: unregistered state type %T", state)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("wal: encode state %q: %w", tag, err)
	}
	return json.Marshal(envelope{Type: tag, Data: data})
}

func (r *Registry) decodeState(raw []byte) (transfer.State, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("wal: decode state envelope: %w", err)
	}
	factory, ok := r.states[env.Type]
	if !ok {
		return nil, fmt.Errorf("wal: unregistered state type %q", env.Type)
	}
	state := factory()
	if err := json.Unmarshal(env.Data, state); err != nil {
		return nil, fmt.Errorf("wal: decode state %q: %w", env.Type, err)
	}
	return state, nil
}
