package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filechat/internal/client/config"
	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/client/notice"
	"github.com/dmitrijs2005/filechat/internal/client/roster"
	"github.com/dmitrijs2005/filechat/internal/client/services"
	"github.com/dmitrijs2005/filechat/internal/client/workspace"
	"github.com/dmitrijs2005/filechat/internal/logging"
)

// fakeAPI serves a single page of files and canned chat answers.
type fakeAPI struct {
	mu        sync.Mutex
	files     []models.FileAsset
	histories map[int64][]models.Message
	listErr   error
	deleteErr error
	sendFn    func(req models.ChatRequest) (*models.ChatResponse, error)

	deleted []int64
	retried []int64
	sent    []models.ChatRequest
}

func (f *fakeAPI) ListFiles(ctx context.Context, page, pageSize int) (*models.FilePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &models.FilePage{
		Results:    slices.Clone(f.files),
		Count:      len(f.files),
		Page:       1,
		PageSize:   pageSize,
		TotalPages: 1,
	}, nil
}

func (f *fakeAPI) DeleteFile(ctx context.Context, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, fileID)
	f.files = slices.DeleteFunc(f.files, func(a models.FileAsset) bool { return a.ID == fileID })
	return nil
}

func (f *fakeAPI) RenameFile(ctx context.Context, fileID int64, filename string) (*models.FileAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.files {
		if f.files[i].ID == fileID {
			f.files[i].Filename = filename
			asset := f.files[i]
			return &asset, nil
		}
	}
	return nil, fmt.Errorf("file %d not found", fileID)
}

func (f *fakeAPI) RetryFinalize(ctx context.Context, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retried = append(f.retried, fileID)
	return nil
}

func (f *fakeAPI) SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	f.mu.Lock()
	f.sent = append(f.sent, req)
	fn := f.sendFn
	f.mu.Unlock()
	return fn(req)
}

func (f *fakeAPI) GetConversationHistory(ctx context.Context, conversationID int64) (*models.History, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs, ok := f.histories[conversationID]
	if !ok {
		return nil, fmt.Errorf("conversation %d not found", conversationID)
	}
	return &models.History{ID: conversationID, Messages: slices.Clone(msgs)}, nil
}

type fakeConversationStore struct {
	mu sync.Mutex
	id int64
}

func (s *fakeConversationStore) LastConversation(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

func (s *fakeConversationStore) SaveLastConversation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}

func (s *fakeConversationStore) get() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// fakeAuth embeds the interface; calling a method that is not overridden
// panics, which flags unexpected calls.
type fakeAuth struct {
	services.AuthService

	loginErr    error
	restoreName string
	restoreErr  error
	pingErr     error

	loggedInAs string
	loggedOut  bool
}

func (f *fakeAuth) Login(ctx context.Context, username string, password []byte) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedInAs = username
	return nil
}

func (f *fakeAuth) Restore(ctx context.Context) (string, error) {
	return f.restoreName, f.restoreErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeAuth) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAuth) Close(ctx context.Context) error { return nil }

type fakeUpload struct {
	fn func(path string) (*models.FileAsset, error)
}

func (f *fakeUpload) Upload(ctx context.Context, path string) (*models.FileAsset, error) {
	return f.fn(path)
}

type testApp struct {
	*App
	api   *fakeAPI
	auth  *fakeAuth
	store *fakeConversationStore
	buf   *bytes.Buffer
	lines *[]string
}

// newTestApp builds an App over fakes. input feeds the interactive prompts;
// printlnFn output is collected in lines.
func newTestApp(t *testing.T, api *fakeAPI, input string) *testApp {
	t.Helper()

	var (
		mu    sync.Mutex
		lines []string
	)
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	if api.histories == nil {
		api.histories = map[int64][]models.Message{}
	}

	buf := &bytes.Buffer{}
	auth := &fakeAuth{}
	store := &fakeConversationStore{}
	a := &App{
		config:      &config.Config{OnlineCheckInterval: time.Hour},
		log:         logging.Discard(),
		authService: auth,
		notices:     notice.NewBoard(time.Minute, time.Minute),
		reader:      bufio.NewReader(strings.NewReader(input)),
		out:         buf,
	}
	a.workspace = workspace.New(api, store, roster.ConfirmFunc(a.confirm), a.log, 20)

	return &testApp{App: a, api: api, auth: auth, store: store, buf: buf, lines: &lines}
}

func (ta *testApp) output() string {
	return ta.buf.String()
}

func (ta *testApp) printed() string {
	return strings.Join(*ta.lines, "\n")
}
