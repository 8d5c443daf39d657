package roster

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/client/selection"
	"github.com/dmitrijs2005/filechat/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer keeps files server-side and pages them like the backend does.
type fakeServer struct {
	mu       sync.Mutex
	files    []models.FileAsset
	listErr  error
	delErr   error
	retryErr error

	listCalls  []int
	deleted    []int64
	retried    []int64
	listHook   func(page int)
	onRetryFix bool
}

func (f *fakeServer) ListFiles(_ context.Context, page, pageSize int) (*models.FilePage, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	hook := f.listHook
	f.mu.Unlock()

	if hook != nil {
		hook(page)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	total := len(f.files)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	return &models.FilePage{
		Results:    append([]models.FileAsset(nil), f.files[start:end]...),
		Count:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (f *fakeServer) DeleteFile(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	for i, file := range f.files {
		if file.ID == id {
			f.files = append(f.files[:i], f.files[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeServer) RenameFile(_ context.Context, id int64, name string) (*models.FileAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.files {
		if f.files[i].ID == id {
			f.files[i].Filename = name
			out := f.files[i]
			return &out, nil
		}
	}
	return nil, errors.New("404")
}

func (f *fakeServer) RetryFinalize(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retryErr != nil {
		return f.retryErr
	}
	f.retried = append(f.retried, id)
	if f.onRetryFix {
		for i := range f.files {
			if f.files[i].ID == id {
				f.files[i].IngestionStatus = "processing"
			}
		}
	}
	return nil
}

func ready(id int64, name string) models.FileAsset {
	return models.FileAsset{ID: id, Filename: name, Size: 1024, Status: models.FileStatusReady, IngestionStatus: models.IngestionComplete}
}

func always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return answer, nil })
}

func newRoster(t *testing.T, srv *fakeServer, sel *selection.Set, confirm Confirmer, pageSize int) *Controller {
	t.Helper()
	return NewController(srv, sel, confirm, logging.Discard(), WithPageSize(pageSize))
}

func fileIDs(files []models.FileAsset) []int64 {
	out := make([]int64, len(files))
	for i, f := range files {
		out[i] = f.ID
	}
	return out
}

func TestLoadPage_ReplacesSnapshot(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a.pdf"), ready(2, "b.pdf"), ready(3, "c.txt")}}
	c := newRoster(t, srv, selection.New(), always(true), 2)

	require.NoError(t, c.LoadPage(context.Background(), 2))

	s := c.Snapshot()
	assert.Equal(t, []int64{3}, fileIDs(s.Files))
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, 2, s.TotalPages)
	assert.Equal(t, 3, s.Count)
	assert.False(t, s.Loading)
	assert.NoError(t, s.Err)
}

func TestLoadPage_FailureKeepsPreviousPage(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a.pdf"), ready(2, "b.pdf")}}
	c := newRoster(t, srv, selection.New(), always(true), 1)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	srv.listErr = errors.New("503")
	err := c.LoadPage(context.Background(), 2)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, loadErr.Page)

	s := c.Snapshot()
	assert.Equal(t, []int64{1}, fileIDs(s.Files))
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 2, s.TotalPages)
	assert.False(t, s.Loading)
	assert.Equal(t, err, s.Err)

	srv.listErr = nil
	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.LastError())
}

func TestLoadPage_StaleResponseDiscarded(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a.pdf"), ready(2, "b.pdf")}}
	c := newRoster(t, srv, selection.New(), always(true), 1)

	slowEntered := make(chan struct{})
	releaseSlow := make(chan struct{})
	srv.listHook = func(page int) {
		if page == 1 {
			close(slowEntered)
			<-releaseSlow
		}
	}

	done := make(chan error, 1)
	go func() { done <- c.LoadPage(context.Background(), 1) }()
	<-slowEntered
	assert.True(t, c.Snapshot().Loading)

	require.NoError(t, c.LoadPage(context.Background(), 2))
	close(releaseSlow)
	require.NoError(t, <-done)

	s := c.Snapshot()
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, []int64{2}, fileIDs(s.Files))
	assert.False(t, s.Loading)
}

func TestLoadPage_LatestIssuedWins(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a.pdf"), ready(2, "b.pdf")}}
	c := newRoster(t, srv, selection.New(), always(true), 1)

	latestEntered := make(chan struct{})
	releaseLatest := make(chan struct{})
	srv.listHook = func(page int) {
		if page == 2 {
			close(latestEntered)
			<-releaseLatest
		}
	}

	done := make(chan error, 1)
	go func() { done <- c.LoadPage(context.Background(), 2) }()
	<-latestEntered

	// page 1 is issued after page 2 and becomes the latest
	require.NoError(t, c.LoadPage(context.Background(), 1))
	assert.False(t, c.Snapshot().Loading)

	close(releaseLatest)
	require.NoError(t, <-done)

	s := c.Snapshot()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, []int64{1}, fileIDs(s.Files))
	assert.False(t, s.Loading)
}

func TestSelectAll_IsOwnInverseOnFullPage(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a"), ready(2, "b"), ready(3, "c"), ready(4, "d")}}
	sel := selection.New(9, 1, 2)
	c := newRoster(t, srv, sel, always(true), 2)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	assert.True(t, c.AllSelected())
	c.SelectAll()
	assert.Empty(t, sel.IDs())
	assert.False(t, c.AllSelected())

	c.SelectAll()
	assert.Equal(t, []int64{1, 2}, sel.IDs())
	assert.True(t, c.AllSelected())
}

func TestSelectAll_PageScoped(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a"), ready(2, "b"), ready(3, "c")}}
	sel := selection.New()
	c := newRoster(t, srv, sel, always(true), 2)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	c.SelectAll()
	assert.Equal(t, []int64{1, 2}, sel.IDs())

	require.NoError(t, c.NextPage(context.Background()))
	assert.False(t, c.AllSelected())
	c.SelectAll()
	assert.Equal(t, []int64{3}, sel.IDs())
}

func TestToggleSelection(t *testing.T) {
	sel := selection.New()
	c := newRoster(t, &fakeServer{}, sel, always(true), 2)

	assert.True(t, c.ToggleSelection(4))
	assert.True(t, c.ToggleSelection(5))
	assert.False(t, c.ToggleSelection(4))
	assert.Equal(t, []int64{5}, sel.IDs())
	assert.Same(t, sel, c.Selection())
}

func TestDelete_RemovesFromRosterAndSelectionOnly(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a"), ready(2, "b"), ready(3, "c")}}
	sel := selection.New(1, 2, 3)
	var prompts []string
	confirm := ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return true, nil
	})
	c := newRoster(t, srv, sel, confirm, 10)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	require.NoError(t, c.Delete(context.Background(), 2))

	assert.Equal(t, []string{DeletePrompt}, prompts)
	assert.Equal(t, []int64{1, 3}, fileIDs(c.Snapshot().Files))
	assert.Equal(t, []int64{1, 3}, sel.IDs())
	assert.Equal(t, []int{1, 1}, srv.listCalls)
}

func TestDelete_Declined(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a")}}
	sel := selection.New(1)
	c := newRoster(t, srv, sel, always(false), 10)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	assert.ErrorIs(t, c.Delete(context.Background(), 1), ErrNotConfirmed)
	assert.Empty(t, srv.deleted)
	assert.Equal(t, []int64{1}, sel.IDs())
}

func TestDelete_ConfirmError(t *testing.T) {
	boom := errors.New("stdin closed")
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a")}}
	c := newRoster(t, srv, selection.New(1), ConfirmFunc(func(context.Context, string) (bool, error) { return false, boom }), 10)

	err := c.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, "delete", mutErr.Op)
	assert.Equal(t, int64(1), mutErr.FileID)
	assert.Equal(t, err, c.LastError())
	assert.Empty(t, srv.deleted)
}

func TestDelete_FailureLeavesStateUntouched(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a"), ready(2, "b")}}
	sel := selection.New(1, 2)
	c := newRoster(t, srv, sel, always(true), 10)
	require.NoError(t, c.LoadPage(context.Background(), 1))
	before := c.Snapshot()

	srv.delErr = errors.New("404")
	err := c.Delete(context.Background(), 2)

	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, "delete", mutErr.Op)
	assert.Equal(t, int64(2), mutErr.FileID)

	after := c.Snapshot()
	assert.Equal(t, before.Files, after.Files)
	assert.Equal(t, []int64{1, 2}, sel.IDs())
	assert.Equal(t, err, after.Err)
	assert.False(t, after.Loading)
}

func TestRetry_EligibilityGate(t *testing.T) {
	failed := models.FileAsset{ID: 5, Filename: "scan.pdf", Status: models.FileStatusUploaded, IngestionStatus: models.IngestionFailed}
	srv := &fakeServer{files: []models.FileAsset{failed, ready(6, "ok.pdf")}, onRetryFix: true}
	c := newRoster(t, srv, selection.New(), always(true), 10)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	files := c.Snapshot().Files
	assert.True(t, files[0].RetryEligible())
	assert.False(t, files[1].RetryEligible())

	assert.ErrorIs(t, c.Retry(context.Background(), 6), ErrNotRetryEligible)
	assert.ErrorIs(t, c.Retry(context.Background(), 404), ErrNotRetryEligible)
	assert.Empty(t, srv.retried)

	require.NoError(t, c.Retry(context.Background(), 5))
	assert.Equal(t, []int64{5}, srv.retried)
	assert.Equal(t, "processing", c.Snapshot().Files[0].IngestionStatus)
}

func TestRetry_NoOptimisticUpdate(t *testing.T) {
	failed := models.FileAsset{ID: 5, Status: models.FileStatusUploaded, IngestionStatus: models.IngestionFailed}
	srv := &fakeServer{files: []models.FileAsset{failed}}
	c := newRoster(t, srv, selection.New(), always(true), 10)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	require.NoError(t, c.Retry(context.Background(), 5))
	assert.Equal(t, models.IngestionFailed, c.Snapshot().Files[0].IngestionStatus)
}

func TestRetry_Failure(t *testing.T) {
	failed := models.FileAsset{ID: 5, Status: models.FileStatusUploaded, IngestionStatus: models.IngestionFailed}
	srv := &fakeServer{files: []models.FileAsset{failed}, retryErr: errors.New("400")}
	c := newRoster(t, srv, selection.New(), always(true), 10)
	require.NoError(t, c.LoadPage(context.Background(), 1))

	var mutErr *MutationError
	require.ErrorAs(t, c.Retry(context.Background(), 5), &mutErr)
	assert.Equal(t, "retry", mutErr.Op)
	assert.Equal(t, []int{1}, srv.listCalls)
}

func TestPaging_Bounds(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a"), ready(2, "b")}}
	c := newRoster(t, srv, selection.New(), always(true), 1)
	ctx := context.Background()
	require.NoError(t, c.LoadPage(ctx, 1))

	assert.ErrorIs(t, c.PrevPage(ctx), ErrPageOutOfRange)
	require.NoError(t, c.NextPage(ctx))
	assert.Equal(t, 2, c.Snapshot().Page)
	assert.ErrorIs(t, c.NextPage(ctx), ErrPageOutOfRange)
	require.NoError(t, c.PrevPage(ctx))
	assert.Equal(t, 1, c.Snapshot().Page)
}

func TestRename(t *testing.T) {
	srv := &fakeServer{files: []models.FileAsset{ready(1, "a.pdf")}}
	c := newRoster(t, srv, selection.New(), always(true), 10)
	ctx := context.Background()
	require.NoError(t, c.LoadPage(ctx, 1))

	assert.ErrorIs(t, c.Rename(ctx, 1, "   "), ErrEmptyFilename)
	assert.ErrorIs(t, c.Rename(ctx, 2, "b.pdf"), ErrUnknownFile)

	require.NoError(t, c.Rename(ctx, 1, " report.pdf "))
	assert.Equal(t, "report.pdf", c.Snapshot().Files[0].Filename)
}
