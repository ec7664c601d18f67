package transfer

// The node recovers from a crash by replaying a write-ahead log: the latest
// snapshot is restored and the pending state changes are re-applied through
// the same transition function. That only works if the transition function is
// deterministic and every StateChange is idempotent, since the log delivers
// at-least-once. Inputs and outputs are kept under separate interfaces
// (StateChange and Event) so a transition can never produce a result that
// needs further processing before it is snapshottable.

// State is a snapshot of a portion of the node's knowledge. States may be
// nested, carry data only, and are treated as immutable: every transition
// operates on a fresh copy and the previous version is never touched again.
// Don't duplicate state data across two States; reference by identifier
// instead.
type State interface {
	// Copy returns a deep copy sharing no mutable memory with the
	// receiver. Dispatch relies on this to hand the reducer a working
	// copy while older snapshots stay referenced by the log.
	Copy() State
}

// StateChange declares a transition to be applied to a State. State changes
// are incoming: a blockchain log, a protocol message, a timer, a user action.
// They carry data only and must be idempotent.
//
// Nomenclature convention:
//   - "Receive" prefix for protocol messages.
//   - "ContractReceive" prefix for smart contract logs.
//   - "Action" prefix for other interactions.
type StateChange interface {
	// ChangeType returns a stable tag identifying the concrete variant,
	// used by the write-ahead log codec and by structured logs.
	ChangeType() string
}

// Event describes a side effect required by the execution of a state change.
// Events are outgoing, are never stored in a State, and the consumer owns the
// actual side effect and its delivery semantics.
//
// Nomenclature convention:
//   - "Send" prefix for protocol messages.
//   - "ContractSend" prefix for smart contract function calls.
//   - "Event" prefix for node notifications.
type Event interface {
	// EventType returns a stable tag identifying the concrete variant.
	EventType() string
}
