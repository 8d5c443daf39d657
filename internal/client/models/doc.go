// Package models defines client-side data models used by the filechat CLI:
// conversation messages with their citations, uploaded file assets and the
// request/response shapes exchanged with the backend.
package models
