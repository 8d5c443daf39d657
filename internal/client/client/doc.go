// Package client contains the API boundary of the filechat CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     chat (SendMessage, GetConversationHistory), the file roster (ListFiles,
//     DeleteFile, RetryFinalize), uploads (PresignUpload, FinalizeUpload),
//     authentication (Login) and liveness (Ping).
//  2. A concrete REST implementation (see HTTPClient) that injects the access
//     token, transparently refreshes it once on 401 and maps HTTP status codes
//     to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrBadRequest,
// ErrServer. Server-provided messages are kept in *APIError.
package client
