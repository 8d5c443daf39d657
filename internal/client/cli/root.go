package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	a.mu.RLock()
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	a.mu.RUnlock()

	if a.workspace != nil && a.workspace.Chat.InFlight() {
		s = s + " thinking"
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s) ", s)
	}
	return s
}

// Root restores the session or asks for credentials, starts the connectivity
// watcher and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to filechat (type 'help' for commands)")

	if !a.restoreSession(ctx) {
		_ = a.Login(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
