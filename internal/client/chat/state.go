package chat

import (
	"github.com/dmitrijs2005/filechat/internal/client/models"
)

// Phase is the lifecycle stage of the most recent send.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseReconciled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseReconciled:
		return "reconciled"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the conversation view.
type State struct {
	Phase Phase
	// ConversationID is the active conversation; zero means none exists yet.
	ConversationID int64
	Messages       []models.Message
	// Pending is the placeholder identifier of the send in flight, zero when
	// nothing is in flight. It survives switches and resets: the send stays
	// in flight until its request resolves.
	Pending int64
	// Generation changes on every switch and reset. A response is applied
	// only in the generation its send was submitted in.
	Generation uint64
	// Loading is set from a switch until its history fetch resolves.
	Loading bool
}

// InFlight reports whether a send is outstanding.
func (s State) InFlight() bool {
	return s.Phase == PhaseSending
}

// AcceptsSend reports whether a new send may be submitted.
func (s State) AcceptsSend() bool {
	return !s.InFlight() && !s.Loading
}

// Action is a state transition understood by Reduce.
type Action interface {
	apply(State) State
}

// Submitted appends the optimistic user message of a new send.
type Submitted struct {
	Placeholder models.Message
}

// Reconciled replaces the placeholder with the server's canonical pair.
type Reconciled struct {
	PlaceholderID  int64
	Generation     uint64
	ConversationID int64
	User           models.Message
	Assistant      models.Message
}

// Failed replaces the placeholder with an error notice.
type Failed struct {
	PlaceholderID int64
	Generation    uint64
	Notice        models.Message
}

// Abandoned releases a send whose response arrived after a switch or reset.
// History is left alone apart from removing the placeholder, if still shown.
type Abandoned struct {
	PlaceholderID int64
}

// Switched starts loading a conversation and makes it active. Messages are
// kept until the history arrives; a send in flight stays in flight.
type Switched struct {
	ConversationID int64
}

// LoadFailed ends a history fetch that failed. The active conversation and
// the displayed messages are kept.
type LoadFailed struct{}

// HistoryLoaded replaces the history wholesale.
type HistoryLoaded struct {
	ConversationID int64
	Messages       []models.Message
}

// Reset returns to the "no conversation" state.
type Reset struct{}

// Reduce applies a to s and returns the next state. Transitions that do not
// apply to s, such as a reconciliation for a placeholder that is no longer
// pending, return s unchanged.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

// Stale reports whether a response to the send placeholderID, submitted in
// generation, no longer applies to s.
func Stale(s State, placeholderID int64, generation uint64) bool {
	return s.Phase != PhaseSending || s.Pending != placeholderID || s.Generation != generation
}

func (a Submitted) apply(s State) State {
	if !s.AcceptsSend() {
		return s
	}
	s.Messages = appendMessages(s.Messages, a.Placeholder)
	s.Phase = PhaseSending
	s.Pending = a.Placeholder.ID
	return s
}

func (a Reconciled) apply(s State) State {
	if Stale(s, a.PlaceholderID, a.Generation) {
		return s
	}
	s.Messages = appendMessages(without(s.Messages, a.PlaceholderID), a.User, a.Assistant)
	if a.ConversationID != 0 {
		s.ConversationID = a.ConversationID
	}
	s.Phase = PhaseReconciled
	s.Pending = 0
	return s
}

func (a Failed) apply(s State) State {
	if Stale(s, a.PlaceholderID, a.Generation) {
		return s
	}
	s.Messages = appendMessages(without(s.Messages, a.PlaceholderID), a.Notice)
	s.Phase = PhaseFailed
	s.Pending = 0
	return s
}

func (a Abandoned) apply(s State) State {
	if s.Phase != PhaseSending || s.Pending != a.PlaceholderID {
		return s
	}
	s.Messages = without(s.Messages, a.PlaceholderID)
	s.Phase = PhaseIdle
	s.Pending = 0
	return s
}

func (a Switched) apply(s State) State {
	s.ConversationID = a.ConversationID
	s.Generation++
	s.Loading = true
	if !s.InFlight() {
		s.Phase = PhaseIdle
	}
	return s
}

func (LoadFailed) apply(s State) State {
	s.Loading = false
	return s
}

func (a HistoryLoaded) apply(s State) State {
	msgs := make([]models.Message, len(a.Messages))
	copy(msgs, a.Messages)
	s.ConversationID = a.ConversationID
	s.Messages = msgs
	s.Loading = false
	if !s.InFlight() {
		s.Phase = PhaseIdle
	}
	return s
}

func (Reset) apply(s State) State {
	next := State{Phase: PhaseIdle, Generation: s.Generation + 1}
	if s.InFlight() {
		next.Phase = PhaseSending
		next.Pending = s.Pending
	}
	return next
}

// appendMessages returns a new slice; the input is left untouched.
func appendMessages(msgs []models.Message, add ...models.Message) []models.Message {
	out := make([]models.Message, 0, len(msgs)+len(add))
	out = append(out, msgs...)
	return append(out, add...)
}

func without(msgs []models.Message, id int64) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
