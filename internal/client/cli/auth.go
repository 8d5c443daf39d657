package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/filechat/internal/client/client"
	"github.com/dmitrijs2005/filechat/internal/client/services"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirmation = GetConfirmation

// Login prompts the user for credentials and authenticates against the
// server. On success the session is persisted and the workspace is opened.
//
// The password is wiped before returning. When the server cannot be reached
// the mode is switched to offline.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		printlnFn("Login unsuccessful:", err.Error())
		return err
	}

	printlnFn("Login successful")
	a.setUser(userName)
	a.setMode(ModeOnline)
	a.openWorkspace(ctx)
	return nil
}

// restoreSession reinstalls the stored session, if any, and opens the
// workspace. It reports whether the user is logged in afterwards.
func (a *App) restoreSession(ctx context.Context) bool {
	userName, err := a.authService.Restore(ctx)
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			printlnFn("Your session has expired, please log in again")
		} else {
			a.log.Warn(ctx, "error restoring session", "error", err)
		}
		return false
	}
	if userName == "" {
		return false
	}

	printlnFn("Welcome back,", userName)
	a.setUser(userName)
	a.checkOnline(ctx)
	a.openWorkspace(ctx)
	return true
}

// Logout forgets the conversation, the selection and the stored session.
func (a *App) Logout(ctx context.Context) error {
	a.workspace.NewConversation(ctx)
	a.workspace.Selection.Clear()
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.setUser("")
	printlnFn("Logged out")
	return nil
}

// openWorkspace loads the last conversation and the first page of files.
// Failures are shown as banners; the REPL stays usable.
func (a *App) openWorkspace(ctx context.Context) {
	err := a.workspace.Open(ctx)
	a.syncRosterBanner()
	a.syncChatBanner()
	if err != nil {
		a.log.Warn(ctx, "workspace opened with errors", "error", err)
	}
	a.renderBanners()
	a.renderRoster()
}
