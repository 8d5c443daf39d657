package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/filechat/internal/client/notice"
	"github.com/dmitrijs2005/filechat/internal/client/roster"
)

// Files refetches the current page and prints it.
func (a *App) Files(ctx context.Context) error {
	err := a.workspace.Roster.Refresh(ctx)
	a.afterRoster()
	return err
}

func (a *App) NextPage(ctx context.Context) error {
	err := a.workspace.Roster.NextPage(ctx)
	if errors.Is(err, roster.ErrPageOutOfRange) {
		printlnFn("Already on the last page")
		return err
	}
	a.afterRoster()
	return err
}

func (a *App) PrevPage(ctx context.Context) error {
	err := a.workspace.Roster.PrevPage(ctx)
	if errors.Is(err, roster.ErrPageOutOfRange) {
		printlnFn("Already on the first page")
		return err
	}
	a.afterRoster()
	return err
}

// Select toggles the file with the given id in the selection.
func (a *App) Select(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	if a.workspace.Roster.ToggleSelection(id) {
		printlnFn(fmt.Sprintf("File %d selected", id))
	} else {
		printlnFn(fmt.Sprintf("File %d unselected", id))
	}
	printlnFn(scopeHint(a.workspace.Selection.Len()))
	return nil
}

// SelectAll selects every file on the page, or clears the selection when
// the page is already fully selected.
func (a *App) SelectAll(ctx context.Context) error {
	a.workspace.Roster.SelectAll()
	a.renderRoster()
	return nil
}

func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	err = a.workspace.Roster.Delete(ctx, id)
	if errors.Is(err, roster.ErrNotConfirmed) {
		printlnFn("Cancelled")
		return err
	}
	if err == nil {
		printlnFn(fmt.Sprintf("File %d deleted", id))
	}
	a.afterRoster()
	return err
}

func (a *App) Retry(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	err = a.workspace.Roster.Retry(ctx, id)
	if errors.Is(err, roster.ErrNotRetryEligible) {
		printlnFn(fmt.Sprintf("File %d is not eligible for retry", id))
		return err
	}
	if err == nil {
		printlnFn(fmt.Sprintf("Processing of file %d restarted", id))
	}
	a.afterRoster()
	return err
}

func (a *App) Rename(ctx context.Context, arg, filename string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	err = a.workspace.Roster.Rename(ctx, id, filename)
	switch {
	case errors.Is(err, roster.ErrEmptyFilename), errors.Is(err, roster.ErrUnknownFile):
		printlnFn(err.Error())
		return err
	case err == nil:
		printlnFn(fmt.Sprintf("File %d renamed", id))
	}
	a.afterRoster()
	return err
}

// Upload sends a local file to storage and refetches the roster. The outcome
// is shown as a transient banner.
func (a *App) Upload(ctx context.Context, path string) error {
	printlnFn("Uploading", filepath.Base(path), "...")

	asset, err := a.uploadService.Upload(ctx, path)
	if err != nil {
		a.notices.Error(notice.SlotUpload, "Upload failed: "+cause(err))
		a.renderBanners()
		return err
	}

	a.notices.Success(notice.SlotUpload, fmt.Sprintf("Uploaded %s", asset.Filename))
	_ = a.workspace.Roster.Refresh(ctx)
	a.afterRoster()
	return nil
}

// afterRoster updates the roster banner and prints the page.
func (a *App) afterRoster() {
	a.syncRosterBanner()
	a.renderBanners()
	a.renderRoster()
}

// syncRosterBanner keeps the roster error banner in step with the
// controller: it stays until an operation succeeds.
func (a *App) syncRosterBanner() {
	if err := a.workspace.Roster.LastError(); err != nil {
		a.notices.Persist(notice.SlotRoster, describe(err))
		return
	}
	a.notices.Dismiss(notice.SlotRoster)
}

func (a *App) renderRoster() {
	printRoster(a.out, a.workspace.Roster.Snapshot(), a.workspace.Selection)
}

func (a *App) renderBanners() {
	printBanners(a.out, a.notices.Active())
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Invalid id:", arg)
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
