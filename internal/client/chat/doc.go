// Package chat implements the conversation controller: the message history of
// one active conversation, reconciled across an asynchronous send cycle and
// conversation switches.
//
// # State
//
// All history changes go through Reduce, a pure transition over State:
//
//	Idle ──Submitted──▶ Sending ──Reconciled──▶ Reconciled
//	                       │
//	                       └────Failed────▶ Failed
//
// Reconciled and Failed are resting phases: like Idle they admit the next
// send. State.Messages is never mutated in place; every transition that
// changes history builds a new slice.
//
// # Single flight
//
// State.Pending holds the placeholder identifier of the outstanding send. It
// is cleared only when that send's request resolves, so at most one send is
// ever in flight, switches and resets included.
//
// State.Generation changes on every switch and reset. A response is applied
// only in the generation it was submitted in; a later one is dropped on
// arrival (Abandoned) instead of being appended to the wrong history.
// State.Loading refuses sends between a switch and the end of its history
// fetch.
package chat
