// Package cli provides the interactive filechat command-line client.
//
// It wires configuration, the local session database, API services, and an
// interactive REPL over a workspace that holds the file roster, the file
// selection and the active conversation. Typical flow: restore the stored
// session or prompt for credentials, load the first page of files and the
// last conversation, start a background connectivity watcher, and execute
// user commands.
//
// Key features:
//   - Login / Logout with a persisted session
//   - Upload, list, page through, rename, delete and retry files
//   - Select files and chat about them, with citations
//   - Open a previous conversation or start a new one
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
