// Package roster implements the file roster controller: a paginated,
// status-driven view of the user's uploaded files and the selection that
// scopes the conversation.
//
// Page loads are tagged with a generation number. Only the most recently
// issued load may replace the snapshot or clear the loading flag; responses
// to older loads are discarded on arrival.
package roster

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/client/selection"
	"github.com/dmitrijs2005/filechat/internal/logging"
)

// DeletePrompt is the question asked before a file is deleted.
const DeletePrompt = "Are you sure you want to delete this file?"

const DefaultPageSize = 20

// API is the part of the backend the roster consumes.
type API interface {
	ListFiles(ctx context.Context, page, pageSize int) (*models.FilePage, error)
	DeleteFile(ctx context.Context, fileID int64) error
	RenameFile(ctx context.Context, fileID int64, filename string) (*models.FileAsset, error)
	RetryFinalize(ctx context.Context, fileID int64) error
}

// Confirmer is the yes/no gate in front of destructive calls.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Snapshot is a consistent view of the roster.
type Snapshot struct {
	Files      []models.FileAsset
	Page       int
	TotalPages int
	Count      int
	Loading    bool
	// Err is the last *LoadError or *MutationError; it is cleared by the
	// next successful operation.
	Err error
}

// Option configures a Controller.
type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

type Controller struct {
	api       API
	selection *selection.Set
	confirm   Confirmer
	log       logging.Logger
	pageSize  int

	mu         sync.Mutex
	files      []models.FileAsset
	page       int
	totalPages int
	count      int
	loading    bool
	gen        uint64
	lastErr    error
}

// NewController builds a roster that mutates sel on delete. sel is shared
// with the rest of the workspace and read at the moment of use.
func NewController(api API, sel *selection.Set, confirm Confirmer, log logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		selection: sel,
		confirm:   confirm,
		log:       log.With("component", "roster"),
		pageSize:  DefaultPageSize,
		page:      1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Files:      slices.Clone(c.files),
		Page:       c.page,
		TotalPages: c.totalPages,
		Count:      c.count,
		Loading:    c.loading,
		Err:        c.lastErr,
	}
}

func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Selection returns the shared selection set.
func (c *Controller) Selection() *selection.Set {
	return c.selection
}

// LoadPage fetches page n and replaces the snapshot. On failure the previous
// page is kept and a *LoadError is returned and recorded. A load overtaken by
// a later one returns nil without touching the snapshot.
func (c *Controller) LoadPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.loading = true
	c.mu.Unlock()

	resp, err := c.api.ListFiles(ctx, n, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.Debug(ctx, "stale page dropped", "page", n)
		return nil
	}
	c.loading = false

	if err != nil {
		loadErr := &LoadError{Page: n, Err: err}
		c.lastErr = loadErr
		c.log.Error(ctx, "error loading files", "page", n, "error", err)
		return loadErr
	}

	c.files = slices.Clone(resp.Results)
	c.page = n
	if resp.Page > 0 {
		c.page = resp.Page
	}
	c.totalPages = resp.TotalPages
	c.count = resp.Count
	c.lastErr = nil
	return nil
}

// Refresh reloads the current page.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	return c.LoadPage(ctx, page)
}

func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	page, total := c.page, c.totalPages
	c.mu.Unlock()
	if page >= total {
		return ErrPageOutOfRange
	}
	return c.LoadPage(ctx, page+1)
}

func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	if page <= 1 {
		return ErrPageOutOfRange
	}
	return c.LoadPage(ctx, page-1)
}

// ToggleSelection flips fileID in the shared selection and reports whether
// it is selected afterwards.
func (c *Controller) ToggleSelection(fileID int64) bool {
	return c.selection.Toggle(fileID)
}

// SelectAll is page-scoped: when every file on the current page is already
// selected it clears the selection, otherwise it selects exactly the files
// on the current page.
func (c *Controller) SelectAll() {
	ids := c.pageIDs()
	if c.selection.ContainsAll(ids) {
		c.selection.Clear()
		return
	}
	c.selection.Replace(ids)
}

// AllSelected reports whether the current page is non-empty and fully
// selected.
func (c *Controller) AllSelected() bool {
	ids := c.pageIDs()
	return len(ids) > 0 && c.selection.ContainsAll(ids)
}

func (c *Controller) pageIDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int64, len(c.files))
	for i, f := range c.files {
		ids[i] = f.ID
	}
	return ids
}

func (c *Controller) lookup(fileID int64) (models.FileAsset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.files {
		if f.ID == fileID {
			return f, true
		}
	}
	return models.FileAsset{}, false
}

// Delete asks for confirmation, deletes fileID and refetches the current
// page; fileID is then removed from the selection. A declined confirmation
// returns ErrNotConfirmed. A failed confirmation or delete returns a
// *MutationError and changes nothing. If the delete succeeds but the refetch fails, the
// *LoadError of the refetch is returned.
func (c *Controller) Delete(ctx context.Context, fileID int64) error {
	ok, err := c.confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		return c.mutationFailed(ctx, "delete", fileID, err)
	}
	if !ok {
		return ErrNotConfirmed
	}

	if err := c.api.DeleteFile(ctx, fileID); err != nil {
		return c.mutationFailed(ctx, "delete", fileID, err)
	}
	c.log.Info(ctx, "file deleted", "file_id", fileID)

	loadErr := c.Refresh(ctx)
	c.selection.Remove(fileID)
	return loadErr
}

// Retry restarts ingestion of a retry-eligible file on the current page and
// refetches the page. The file's status is never changed locally; the new
// state is whatever the refetch reports.
func (c *Controller) Retry(ctx context.Context, fileID int64) error {
	f, ok := c.lookup(fileID)
	if !ok || !f.RetryEligible() {
		return ErrNotRetryEligible
	}

	if err := c.api.RetryFinalize(ctx, fileID); err != nil {
		return c.mutationFailed(ctx, "retry", fileID, err)
	}
	c.log.Info(ctx, "retry triggered", "file_id", fileID)

	return c.Refresh(ctx)
}

// Rename changes the display name of fileID and refetches the page.
func (c *Controller) Rename(ctx context.Context, fileID int64, filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ErrEmptyFilename
	}
	if _, ok := c.lookup(fileID); !ok {
		return ErrUnknownFile
	}

	if _, err := c.api.RenameFile(ctx, fileID, filename); err != nil {
		return c.mutationFailed(ctx, "rename", fileID, err)
	}
	c.log.Info(ctx, "file renamed", "file_id", fileID)

	return c.Refresh(ctx)
}

func (c *Controller) mutationFailed(ctx context.Context, op string, fileID int64, err error) error {
	mutErr := &MutationError{Op: op, FileID: fileID, Err: err}
	c.mu.Lock()
	c.lastErr = mutErr
	c.mu.Unlock()
	c.log.Error(ctx, "file "+op+" failed", "file_id", fileID, "error", err)
	return mutErr
}
