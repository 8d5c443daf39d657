package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/filechat/internal/client/chat"
	"github.com/dmitrijs2005/filechat/internal/client/client"
	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/client/notice"
	"github.com/dmitrijs2005/filechat/internal/client/roster"
	"github.com/dmitrijs2005/filechat/internal/client/selection"
	"github.com/fatih/color"
)

var (
	successStyle   = color.New(color.FgGreen)
	errorStyle     = color.New(color.FgRed)
	hintStyle      = color.New(color.Faint)
	retryStyle     = color.New(color.FgYellow, color.Bold)
	userStyle      = color.New(color.FgCyan, color.Bold)
	assistantStyle = color.New(color.FgMagenta, color.Bold)
)

// printRoster writes the current page of files, the pager and the selection
// counter.
//
//	[x] 1  a.pdf  12.00 KB  ready
//	[ ] 5  b.pdf  3.50 KB  uploaded (failed)  [retry]
//	Page 1 of 2
//	1 of 2 selected
func printRoster(w io.Writer, s roster.Snapshot, sel *selection.Set) {
	if len(s.Files) == 0 {
		hintStyle.Fprintln(w, "No files uploaded yet")
		return
	}

	for _, f := range s.Files {
		mark := "[ ]"
		if sel.Contains(f.ID) {
			mark = "[x]"
		}

		status := string(f.Status)
		if f.IngestionPending() && f.IngestionStatus != "" {
			status = fmt.Sprintf("%s (%s)", f.Status, f.IngestionStatus)
		}

		fmt.Fprintf(w, "%s %d  %s  %s  %s", mark, f.ID, f.Filename, f.SizeLabel(), status)
		if f.RetryEligible() {
			fmt.Fprint(w, "  ")
			retryStyle.Fprint(w, "[retry]")
		}
		fmt.Fprintln(w)
	}

	if s.TotalPages > 1 {
		fmt.Fprintf(w, "Page %d of %d\n", s.Page, s.TotalPages)
	}

	selected := 0
	for _, f := range s.Files {
		if sel.Contains(f.ID) {
			selected++
		}
	}
	fmt.Fprintf(w, "%d of %d selected\n", selected, len(s.Files))
}

// printMessages writes the conversation in order. An empty conversation gets
// a hint about the current file scope instead.
func printMessages(w io.Writer, msgs []models.Message, selected int) {
	if len(msgs) == 0 {
		hintStyle.Fprintln(w, scopeHint(selected))
		return
	}
	for _, m := range msgs {
		printMessage(w, m)
	}
}

func printMessage(w io.Writer, m models.Message) {
	switch m.Role {
	case models.RoleAssistant:
		assistantStyle.Fprint(w, "assistant: ")
	default:
		userStyle.Fprint(w, "you: ")
	}
	fmt.Fprint(w, m.Content)
	if m.IsPlaceholder() && m.Role == models.RoleUser {
		hintStyle.Fprint(w, " (sending...)")
	}
	fmt.Fprintln(w)

	if len(m.Citations) > 0 {
		labels := make([]string, len(m.Citations))
		for i, c := range m.Citations {
			labels[i] = c.String()
		}
		hintStyle.Fprintln(w, "  Sources: "+strings.Join(labels, ", "))
	}
	if m.Role == models.RoleAssistant && len(m.FileIDs) > 0 {
		hintStyle.Fprintf(w, "  Referenced %d file(s)\n", len(m.FileIDs))
	}
}

func scopeHint(selected int) string {
	if selected > 0 {
		return fmt.Sprintf("Chatting about %d selected file(s)", selected)
	}
	return "Ask a question about your files"
}

func printBanners(w io.Writer, banners []notice.Banner) {
	for _, b := range banners {
		if b.Kind == notice.KindError {
			errorStyle.Fprintln(w, "! "+b.Text)
			continue
		}
		successStyle.Fprintln(w, b.Text)
	}
}

// describe turns a controller error into a banner text.
func describe(err error) string {
	var (
		loadErr    *roster.LoadError
		mutErr     *roster.MutationError
		historyErr *chat.HistoryLoadError
	)
	switch {
	case errors.As(err, &loadErr):
		return "Failed to load files: " + cause(loadErr.Err)
	case errors.As(err, &mutErr):
		return fmt.Sprintf("Failed to %s file %d: %s", mutErr.Op, mutErr.FileID, cause(mutErr.Err))
	case errors.As(err, &historyErr):
		return fmt.Sprintf("Failed to load conversation %d: %s", historyErr.ConversationID, cause(historyErr.Err))
	default:
		return cause(err)
	}
}

// cause prefers the server's own message over the wrapped error chain.
func cause(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
