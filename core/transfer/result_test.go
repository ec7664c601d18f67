package transfer

import "testing"

type fakeState struct {
	Counter int `json:"counter"`
}

func (s *fakeState) Copy() State {
	cp := *s
	return &cp
}

type fakeEvent struct {
	Tag string `json:"tag"`
}

func (e fakeEvent) EventType() string { return "event.fake" }

func TestTransitionResultEqual(t *testing.T) {
	a := TransitionResult{NewState: &fakeState{Counter: 1}, Events: []Event{fakeEvent{Tag: "x"}}}
	b := TransitionResult{NewState: &fakeState{Counter: 1}, Events: []Event{fakeEvent{Tag: "x"}}}

	if !a.Equal(b) {
		t.Fatal("structurally equal results compared unequal")
	}

	differentState := TransitionResult{NewState: &fakeState{Counter: 2}, Events: []Event{fakeEvent{Tag: "x"}}}
	if a.Equal(differentState) {
		t.Fatal("results with different states compared equal")
	}

	differentEvents := TransitionResult{NewState: &fakeState{Counter: 1}, Events: []Event{fakeEvent{Tag: "y"}}}
	if a.Equal(differentEvents) {
		t.Fatal("results with different events compared equal")
	}

	fewerEvents := TransitionResult{NewState: &fakeState{Counter: 1}}
	if a.Equal(fewerEvents) {
		t.Fatal("results with different event counts compared equal")
	}
}

func TestSuccessOrError(t *testing.T) {
	success := NewSuccessOrError()
	if !success.Ok() || success.Fail() {
		t.Fatal("empty result must be a success")
	}
	if msg := success.AsErrorMessage(); msg != "" {
		t.Fatalf("success has error message %q", msg)
	}

	failure := NewSuccessOrError("a", "b")
	if failure.Ok() || !failure.Fail() {
		t.Fatal("result with messages must be a failure")
	}
	if msg := failure.AsErrorMessage(); msg != "a / b" {
		t.Fatalf("got %q, want %q", msg, "a / b")
	}

	accumulated := NewSuccessOrError()
	accumulated.Add("nonce mismatch")
	accumulated.Add("wrong locksroot")
	if accumulated.Ok() {
		t.Fatal("accumulated messages must fail the result")
	}
	if msg := accumulated.AsErrorMessage(); msg != "nonce mismatch / wrong locksroot" {
		t.Fatalf("got %q", msg)
	}
}
