package models

import (
	"fmt"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Citation is a piece of evidence attached to an assistant message.
// A nil PageNumber means the evidence is file-level.
type Citation struct {
	Filename   string `json:"filename"`
	PageNumber *int   `json:"page_number,omitempty"`
}

// String renders the citation as "filename" or "filename (p. N)".
func (c Citation) String() string {
	if c.PageNumber == nil {
		return c.Filename
	}
	return fmt.Sprintf("%s (p. %d)", c.Filename, *c.PageNumber)
}

// Message is one turn of a conversation.
//
// Server-assigned identifiers are positive. Placeholders created locally while
// a send is in flight carry negative identifiers, see IsPlaceholder.
type Message struct {
	ID        int64      `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	FileIDs   []int64    `json:"file_ids"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsPlaceholder reports whether the message was created on the client and
// has not been confirmed by the server.
func (m Message) IsPlaceholder() bool {
	return m.ID < 0
}

// ChatRequest is the body of POST /api/chat/.
type ChatRequest struct {
	Message        string  `json:"message"`
	ConversationID int64   `json:"conversation_id,omitempty"`
	FileIDs        []int64 `json:"file_ids,omitempty"`
}

// ChatResponse is the server's answer to a chat request: the canonical user
// message and the generated assistant message.
type ChatResponse struct {
	ConversationID int64      `json:"conversation_id"`
	Message        Message    `json:"message"`
	Response       Message    `json:"response"`
	Citations      []Citation `json:"citations,omitempty"`
}

// Normalize moves top-level citations onto the assistant message when the
// server did not embed them there.
func (r *ChatResponse) Normalize() {
	if len(r.Response.Citations) == 0 && len(r.Citations) > 0 {
		r.Response.Citations = r.Citations
	}
	if r.Response.Role == "" {
		r.Response.Role = RoleAssistant
	}
	if r.Message.Role == "" {
		r.Message.Role = RoleUser
	}
}

// History is the body of GET /api/chat/history/{id}/.
type History struct {
	ID       int64     `json:"id"`
	Messages []Message `json:"messages"`
}
