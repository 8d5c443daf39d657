package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Files(ctx context.Context) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	Select(ctx context.Context, id string) error
	SelectAll(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Retry(ctx context.Context, id string) error
	Rename(ctx context.Context, id, filename string) error
	Upload(ctx context.Context, path string) error

	Say(ctx context.Context, text string) error
	History(ctx context.Context) error
	Open(ctx context.Context, id string) error
	NewChat(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, exit"
	helpLoggedIn  = "Available commands: files (ls), next, prev, select <id>, all, delete <id>, retry <id>, " +
		"rename <id> <name>, upload <path>, ask <text>, history, open <id>, new, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the filechat CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help              show available commands
//	  - login             authenticate
//	  - exit | quit       leave the program
//
//	Logged in:
//	  - files | ls        reload and list the current page of files
//	  - next | prev       page through files
//	  - select <id>       toggle a file in the chat scope
//	  - all               select the whole page, or clear it when already selected
//	  - delete <id>       delete a file (asks for confirmation)
//	  - retry <id>        restart failed processing of a file
//	  - rename <id> <n>   rename a file
//	  - upload <path>     upload a local file
//	  - ask <text>        ask a question about the selected files
//	  - history           show the active conversation
//	  - open <id>         switch to a stored conversation
//	  - new               start a new conversation
//	  - logout            log out
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fc %s> ", statusFn()))
		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if knownCommand(cmd) {
				printlnFn("Please log in first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "files", "ls":
			_ = a.Files(ctx)
		case "next":
			_ = a.NextPage(ctx)
		case "prev":
			_ = a.PrevPage(ctx)
		case "all":
			_ = a.SelectAll(ctx)
		case "history":
			_ = a.History(ctx)
		case "new":
			_ = a.NewChat(ctx)
		case "logout":
			_ = a.Logout(ctx)

		case "select", "delete", "retry", "open":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "select":
				_ = a.Select(ctx, args[0])
			case "delete":
				_ = a.Delete(ctx, args[0])
			case "retry":
				_ = a.Retry(ctx, args[0])
			case "open":
				_ = a.Open(ctx, args[0])
			}

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, strings.Join(args, " "))

		case "rename":
			if len(args) < 2 {
				printlnFn("Usage: rename <id> <name>")
				continue
			}
			_ = a.Rename(ctx, args[0], strings.Join(args[1:], " "))

		case "ask":
			text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))
			if text == "" {
				printlnFn("Usage: ask <text>")
				continue
			}
			_ = a.Say(ctx, text)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func knownCommand(cmd string) bool {
	switch cmd {
	case "files", "ls", "next", "prev", "select", "all", "delete", "retry", "rename",
		"upload", "ask", "history", "open", "new", "logout":
		return true
	}
	return false
}
