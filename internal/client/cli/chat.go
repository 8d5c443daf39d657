package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filechat/internal/client/chat"
	"github.com/dmitrijs2005/filechat/internal/client/notice"
)

// Say sends text, scoped to the selected files, in the background. The
// answer is printed when it arrives; the REPL stays usable meanwhile, but a
// second message is refused until then.
func (a *App) Say(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return chat.ErrEmptyMessage
	}
	st := a.workspace.Chat.State()
	if st.InFlight() {
		printlnFn("Still waiting for the previous answer")
		return chat.ErrSendInFlight
	}
	if st.Loading {
		printlnFn("Conversation is still loading")
		return chat.ErrHistoryLoading
	}

	hintStyle.Fprintln(a.out, "thinking...")

	a.sends.Add(1)
	go func() {
		defer a.sends.Done()
		a.send(ctx, text)
	}()
	return nil
}

func (a *App) send(ctx context.Context, text string) {
	reply, err := a.workspace.Send(ctx, text)
	switch {
	case errors.Is(err, chat.ErrSendInFlight):
		printlnFn("Still waiting for the previous answer")
	case errors.Is(err, chat.ErrHistoryLoading):
		printlnFn("Conversation is still loading")
	}
	// nil when the conversation was switched or reset while the request was out
	if err != nil || reply == nil {
		return
	}
	fmt.Fprintln(a.out)
	printMessage(a.out, *reply)
}

// History prints the active conversation.
func (a *App) History(ctx context.Context) error {
	if id := a.workspace.ConversationID(); id != 0 {
		hintStyle.Fprintf(a.out, "Conversation %d\n", id)
	}
	printMessages(a.out, a.workspace.Chat.Messages(), a.workspace.Selection.Len())
	if a.workspace.Chat.InFlight() {
		hintStyle.Fprintln(a.out, "thinking...")
	}
	return nil
}

// Open switches to a stored conversation and prints it.
func (a *App) Open(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	err = a.workspace.OpenConversation(ctx, id)
	a.syncChatBanner()
	a.renderBanners()
	if err == nil {
		_ = a.History(ctx)
	}
	return err
}

// NewChat forgets the active conversation; the next message starts a new one.
func (a *App) NewChat(ctx context.Context) error {
	a.workspace.NewConversation(ctx)
	a.notices.Dismiss(notice.SlotChat)
	printlnFn("Started a new conversation")
	printlnFn(scopeHint(a.workspace.Selection.Len()))
	return nil
}

// syncChatBanner shows a failed history load. Send failures are already
// visible in the conversation itself.
func (a *App) syncChatBanner() {
	var historyErr *chat.HistoryLoadError
	if errors.As(a.workspace.Chat.LastError(), &historyErr) {
		a.notices.Error(notice.SlotChat, describe(historyErr))
	}
}
