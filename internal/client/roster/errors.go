package roster

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfirmed     = errors.New("not confirmed")
	ErrNotRetryEligible = errors.New("file is not eligible for retry")
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrEmptyFilename    = errors.New("filename is empty")
	ErrUnknownFile      = errors.New("file is not on the current page")
)

// LoadError reports a failed page fetch. The previous page stays displayed.
type LoadError struct {
	Page int
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load files page %d: %v", e.Page, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MutationError reports a failed delete or retry. The roster and the
// selection are left untouched.
type MutationError struct {
	Op     string
	FileID int64
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s file %d: %v", e.Op, e.FileID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
