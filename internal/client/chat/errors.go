package chat

import (
	"errors"
	"fmt"
)

// FailureNotice is the assistant message shown in place of a failed reply.
const FailureNotice = "Sorry, I encountered an error. Please try again."

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("a message is already being sent")

	// ErrHistoryLoading is returned by Send while a switched-to conversation
	// is still loading.
	ErrHistoryLoading = errors.New("conversation history is loading")
)

// HistoryLoadError reports a failed history fetch. The previously displayed
// messages are kept.
type HistoryLoadError struct {
	ConversationID int64
	Err            error
}

func (e *HistoryLoadError) Error() string {
	return fmt.Sprintf("load history of conversation %d: %v", e.ConversationID, e.Err)
}

func (e *HistoryLoadError) Unwrap() error { return e.Err }

// SendError records a failed send. It is not returned by Send: the failure
// is shown in the history as FailureNotice and kept in LastError.
type SendError struct {
	ConversationID int64
	Err            error
}

func (e *SendError) Error() string {
	if e.ConversationID == 0 {
		return fmt.Sprintf("send message: %v", e.Err)
	}
	return fmt.Sprintf("send message to conversation %d: %v", e.ConversationID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
