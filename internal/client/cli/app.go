package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/filechat/internal/client/client"
	"github.com/dmitrijs2005/filechat/internal/client/config"
	"github.com/dmitrijs2005/filechat/internal/client/notice"
	"github.com/dmitrijs2005/filechat/internal/client/repositories/session"
	"github.com/dmitrijs2005/filechat/internal/client/roster"
	"github.com/dmitrijs2005/filechat/internal/client/services"
	"github.com/dmitrijs2005/filechat/internal/client/workspace"
	"github.com/dmitrijs2005/filechat/internal/filex"
	"github.com/dmitrijs2005/filechat/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	sessionDBName = "session.db"
	pingTimeout   = 3 * time.Second
)

type App struct {
	config        *config.Config
	log           logging.Logger
	authService   services.AuthService
	uploadService services.UploadService
	workspace     *workspace.Workspace
	notices       *notice.Board
	closers       []io.Closer

	reader *bufio.Reader
	out    io.Writer

	mu       sync.RWMutex
	userName string
	mode     Mode

	// sends tracks chat requests running in the background.
	sends sync.WaitGroup
}

// NewApp opens the session database under the configured data directory and
// wires the API client, services and workspace.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error preparing data dir: %w", err)
	}

	logFile := c.LogFile
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(dataDir, logFile)
	}
	log, logCloser, err := logging.New(logging.Options{Backend: c.LogBackend, Level: c.LogLevel, File: logFile})
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dataDir, sessionDBName))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		_ = logCloser.Close()
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, log)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	store := session.NewStore(db)

	a := &App{
		config:        c,
		log:           log,
		authService:   services.NewAuthService(apiClient, store, log),
		uploadService: services.NewUploadService(apiClient, &http.Client{Timeout: c.RequestTimeout}, log),
		notices:       notice.NewBoard(c.UploadSuccessTTL, c.UploadErrorTTL),
		closers:       []io.Closer{db, logCloser},
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
	}
	a.workspace = workspace.New(apiClient, store, roster.ConfirmFunc(a.confirm), log, c.PageSize)
	return a, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)
	a.Root(ctx)
}

func (a *App) close(ctx context.Context) {
	a.sends.Wait()
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "error closing api client", "error", err)
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintln(os.Stderr, "error on shutdown:", err)
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userName != ""
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

// checkOnline pings the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// confirm asks the user a yes/no question on the terminal.
func (a *App) confirm(ctx context.Context, prompt string) (bool, error) {
	return getConfirmation(a.reader, prompt, a.out)
}
