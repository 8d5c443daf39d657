package chat

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/logging"
)

// API is the part of the backend the controller consumes.
type API interface {
	SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	GetConversationHistory(ctx context.Context, conversationID int64) (*models.History, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithConversationChange registers fn to be called when the server assigns
// a new conversation identifier to a send. It is called once per new
// conversation, outside the controller's lock.
func WithConversationChange(fn func(conversationID int64)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithClock overrides the clock used for placeholder identifiers and
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns the message history of the active conversation.
// API calls are made without holding the lock.
type Controller struct {
	api      API
	log      logging.Logger
	now      func() time.Time
	onChange func(int64)

	mu         sync.Mutex
	state      State
	lastTempID int64
	lastErr    error
}

func NewController(api API, log logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		api: api,
		log: log.With("component", "chat"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot. The Messages slice is a copy.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Messages = slices.Clone(c.state.Messages)
	return s
}

func (c *Controller) Messages() []models.Message {
	return c.State().Messages
}

func (c *Controller) ConversationID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ConversationID
}

func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.InFlight()
}

// Loading reports whether the history of a switched-to conversation is
// still being fetched.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Loading
}

// LastError returns the most recent *SendError or *HistoryLoadError, or nil
// if the last send or load succeeded.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// nextPlaceholderID returns a negative identifier derived from the local
// clock. Identifiers strictly decrease, so they never repeat and never
// collide with server identifiers.
func (c *Controller) nextPlaceholderID() int64 {
	id := -c.now().UnixMilli()
	if id >= c.lastTempID {
		id = c.lastTempID - 1
	}
	c.lastTempID = id
	return id
}

// Send submits text scoped to fileScope and returns the assistant message
// it added to the history: the server's answer, or FailureNotice if the
// request failed. The cause of a failure is not returned; it is available
// from LastError.
//
// It returns ErrEmptyMessage for blank text, ErrSendInFlight while another
// send is outstanding and ErrHistoryLoading while a switched-to history is
// being fetched; in these cases the state is unchanged. Otherwise a
// placeholder user message is appended before the request is issued.
//
// A response that arrives after a switch or reset is dropped and Send
// returns a nil message. The send still counts as in flight until then.
func (c *Controller) Send(ctx context.Context, text string, fileScope []int64) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state.InFlight() {
		c.mu.Unlock()
		return nil, ErrSendInFlight
	}
	if c.state.Loading {
		c.mu.Unlock()
		return nil, ErrHistoryLoading
	}
	scope := slices.Clone(fileScope)
	placeholder := models.Message{
		ID:        c.nextPlaceholderID(),
		Role:      models.RoleUser,
		Content:   text,
		FileIDs:   scope,
		CreatedAt: c.now(),
	}
	c.state = Reduce(c.state, Submitted{Placeholder: placeholder})
	conversationID := c.state.ConversationID
	generation := c.state.Generation
	c.mu.Unlock()

	resp, err := c.api.SendMessage(ctx, models.ChatRequest{
		Message:        text,
		ConversationID: conversationID,
		FileIDs:        scope,
	})

	c.mu.Lock()
	if Stale(c.state, placeholder.ID, generation) {
		c.state = Reduce(c.state, Abandoned{PlaceholderID: placeholder.ID})
		c.mu.Unlock()
		c.log.Info(ctx, "stale send response dropped",
			"conversation_id", conversationID, "placeholder_id", placeholder.ID, "failed", err != nil)
		return nil, nil
	}

	if err != nil {
		notice := models.Message{
			ID:        c.nextPlaceholderID(),
			Role:      models.RoleAssistant,
			Content:   FailureNotice,
			FileIDs:   []int64{},
			CreatedAt: c.now(),
		}
		c.state = Reduce(c.state, Failed{PlaceholderID: placeholder.ID, Generation: generation, Notice: notice})
		c.lastErr = &SendError{ConversationID: conversationID, Err: err}
		c.mu.Unlock()
		c.log.Error(ctx, "error sending message", "conversation_id", conversationID, "file_ids", scope, "error", err)
		return &notice, nil
	}

	prev := c.state.ConversationID
	c.state = Reduce(c.state, Reconciled{
		PlaceholderID:  placeholder.ID,
		Generation:     generation,
		ConversationID: resp.ConversationID,
		User:           resp.Message,
		Assistant:      resp.Response,
	})
	next := c.state.ConversationID
	c.lastErr = nil
	c.mu.Unlock()

	c.log.Debug(ctx, "message reconciled",
		"conversation_id", next, "message_id", resp.Message.ID, "response_id", resp.Response.ID,
		"citations", len(resp.Response.Citations))

	if next != prev && c.onChange != nil {
		c.onChange(next)
	}
	reply := resp.Response
	return &reply, nil
}

// LoadHistory makes conversationID active and replaces the history with the
// server's. The identifier becomes active before the fetch and stays active
// if the fetch fails; in that case the displayed messages are kept and a
// *HistoryLoadError is returned. Sends are refused until the fetch resolves.
// A load overtaken by a later load, switch or reset is discarded.
func (c *Controller) LoadHistory(ctx context.Context, conversationID int64) error {
	c.mu.Lock()
	generation := c.beginLoadLocked(conversationID)
	c.mu.Unlock()

	return c.finishLoad(ctx, conversationID, generation)
}

// SetConversation is the switch detector for an identifier supplied by the
// hosting context. It loads the history only when conversationID is set and
// differs from the active one, and reports whether it did. Concurrent calls
// with the same identifier trigger a single load.
func (c *Controller) SetConversation(ctx context.Context, conversationID int64) (bool, error) {
	c.mu.Lock()
	if conversationID == 0 || conversationID == c.state.ConversationID {
		c.mu.Unlock()
		return false, nil
	}
	generation := c.beginLoadLocked(conversationID)
	c.mu.Unlock()

	return true, c.finishLoad(ctx, conversationID, generation)
}

func (c *Controller) beginLoadLocked(conversationID int64) uint64 {
	c.state = Reduce(c.state, Switched{ConversationID: conversationID})
	return c.state.Generation
}

func (c *Controller) finishLoad(ctx context.Context, conversationID int64, generation uint64) error {
	history, err := c.api.GetConversationHistory(ctx, conversationID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.state.Generation || c.state.ConversationID != conversationID {
		c.log.Info(ctx, "stale history dropped", "conversation_id", conversationID)
		return nil
	}

	if err != nil {
		loadErr := &HistoryLoadError{ConversationID: conversationID, Err: err}
		c.state = Reduce(c.state, LoadFailed{})
		c.lastErr = loadErr
		c.log.Error(ctx, "error loading conversation", "conversation_id", conversationID, "error", err)
		return loadErr
	}

	c.state = Reduce(c.state, HistoryLoaded{ConversationID: conversationID, Messages: history.Messages})
	c.lastErr = nil
	return nil
}

// Reset clears the history and the active conversation. The next send
// starts a new conversation. A response still in flight is dropped when it
// arrives; until then the send keeps blocking new ones.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, Reset{})
	c.lastErr = nil
}
