// Package workspace is the hosting composition of the client. It owns the
// selection set and the conversation identifier, hands the selection to the
// roster by reference, and feeds the current selection and conversation to
// the chat controller at the moment of use.
package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/filechat/internal/client/chat"
	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/client/roster"
	"github.com/dmitrijs2005/filechat/internal/client/selection"
	"github.com/dmitrijs2005/filechat/internal/logging"
	"golang.org/x/sync/errgroup"
)

// API is the backend surface shared by both controllers.
type API interface {
	chat.API
	roster.API
}

// ConversationStore persists the active conversation across runs.
type ConversationStore interface {
	LastConversation(ctx context.Context) (int64, error)
	SaveLastConversation(ctx context.Context, id int64) error
}

type Workspace struct {
	Selection *selection.Set
	Chat      *chat.Controller
	Roster    *roster.Controller

	store ConversationStore
	log   logging.Logger

	mu             sync.Mutex
	conversationID int64
}

// New wires both controllers around a fresh selection set.
func New(api API, store ConversationStore, confirm roster.Confirmer, log logging.Logger, pageSize int) *Workspace {
	w := &Workspace{
		Selection: selection.New(),
		store:     store,
		log:       log.With("component", "workspace"),
	}
	w.Chat = chat.NewController(api, log, chat.WithConversationChange(w.adoptConversation))
	w.Roster = roster.NewController(api, w.Selection, confirm, log, roster.WithPageSize(pageSize))
	return w
}

// Open restores the last conversation and loads the first roster page
// concurrently. Each load records its own failure; Open returns them joined.
func (w *Workspace) Open(ctx context.Context) error {
	id, err := w.store.LastConversation(ctx)
	if err != nil {
		w.log.Warn(ctx, "error restoring conversation", "error", err)
		id = 0
	}

	w.mu.Lock()
	w.conversationID = id
	w.mu.Unlock()

	var (
		g       errgroup.Group
		chatErr error
		pageErr error
	)
	if id != 0 {
		g.Go(func() error {
			_, chatErr = w.Chat.SetConversation(ctx, id)
			return nil
		})
	}
	g.Go(func() error {
		pageErr = w.Roster.LoadPage(ctx, 1)
		return nil
	})
	_ = g.Wait()

	return errors.Join(chatErr, pageErr)
}

// ConversationID is the identifier the hosting context currently holds.
func (w *Workspace) ConversationID() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conversationID
}

// OpenConversation switches to id. The chat controller reloads only if id
// differs from its active conversation.
func (w *Workspace) OpenConversation(ctx context.Context, id int64) error {
	w.setConversation(ctx, id)
	_, err := w.Chat.SetConversation(ctx, id)
	return err
}

// NewConversation forgets the active conversation; the next message starts
// a new one.
func (w *Workspace) NewConversation(ctx context.Context) {
	w.Chat.Reset()
	w.setConversation(ctx, 0)
}

// Send scopes text to the files selected right now. It returns the
// assistant message added to the history, or nil if the response was
// dropped by a switch.
func (w *Workspace) Send(ctx context.Context, text string) (*models.Message, error) {
	return w.Chat.Send(ctx, text, w.Selection.IDs())
}

func (w *Workspace) adoptConversation(id int64) {
	// called by the chat controller without a request context
	w.setConversation(context.Background(), id)
}

func (w *Workspace) setConversation(ctx context.Context, id int64) {
	w.mu.Lock()
	changed := w.conversationID != id
	w.conversationID = id
	w.mu.Unlock()

	if !changed {
		return
	}
	if err := w.store.SaveLastConversation(ctx, id); err != nil {
		w.log.Warn(ctx, "error saving conversation", "conversation_id", id, "error", err)
	}
}
