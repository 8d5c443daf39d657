package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/logging"
	"github.com/google/uuid"
)

// RequestIDHeaderName correlates client log lines with server log lines.
const RequestIDHeaderName = "X-Request-ID"

const (
	pathLogin        = "/api/auth/login/"
	pathRefresh      = "/api/auth/token/refresh/"
	pathHealth       = "/api/health/"
	pathChat         = "/api/chat/"
	pathHistory      = "/api/chat/history/%d/"
	pathFiles        = "/api/files/"
	pathFile         = "/api/files/%d/"
	pathFileUpdate   = "/api/files/%d/update/"
	pathRetry        = "/api/files/%d/retry-finalize/"
	pathPresign      = "/api/files/presign/"
	pathFinalize     = "/api/files/finalize/"
	maxErrorBodySize = 4 << 10
)

// HTTPClient talks to the backend REST API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
	now     func() time.Time

	mu        sync.RWMutex
	tokens    models.Tokens
	onRefresh func(models.Tokens)
}

// NewHTTPClient builds a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
		now:     time.Now,
	}, nil
}

// SetTokens installs a token pair, e.g. one restored from the session store.
func (c *HTTPClient) SetTokens(t models.Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = t
}

// Tokens returns the current token pair.
func (c *HTTPClient) Tokens() models.Tokens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// OnTokensRefreshed registers fn to be called after every successful refresh.
func (c *HTTPClient) OnTokensRefreshed(fn func(models.Tokens)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefresh = fn
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (models.Tokens, error) {
	req := map[string]string{"username": username, "password": string(password)}

	var tokens models.Tokens
	if err := c.send(ctx, http.MethodPost, pathLogin, nil, req, &tokens, ""); err != nil {
		return models.Tokens{}, err
	}
	c.SetTokens(tokens)
	return tokens, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.send(ctx, http.MethodGet, pathHealth, nil, nil, &resp, ""); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.do(ctx, http.MethodPost, pathChat, nil, req, &resp); err != nil {
		return nil, err
	}
	resp.Normalize()
	return &resp, nil
}

func (c *HTTPClient) GetConversationHistory(ctx context.Context, conversationID int64) (*models.History, error) {
	var resp models.History
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(pathHistory, conversationID), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Messages == nil {
		resp.Messages = []models.Message{}
	}
	return &resp, nil
}

func (c *HTTPClient) ListFiles(ctx context.Context, page, pageSize int) (*models.FilePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	var resp models.FilePage
	if err := c.do(ctx, http.MethodGet, pathFiles, q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, fileID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf(pathFile, fileID), nil, nil, nil)
}

func (c *HTTPClient) RenameFile(ctx context.Context, fileID int64, filename string) (*models.FileAsset, error) {
	var resp models.FileAsset
	req := map[string]string{"filename": filename}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf(pathFileUpdate, fileID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) RetryFinalize(ctx context.Context, fileID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(pathRetry, fileID), nil, struct{}{}, nil)
}

func (c *HTTPClient) PresignUpload(ctx context.Context, req models.PresignRequest) (*models.PresignedUpload, error) {
	var resp models.PresignedUpload
	if err := c.do(ctx, http.MethodPost, pathPresign, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) FinalizeUpload(ctx context.Context, req models.FinalizeRequest) (*models.FileAsset, error) {
	var resp models.FileAsset
	if err := c.do(ctx, http.MethodPost, pathFinalize, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs an authenticated call. An expired access token is refreshed
// up front; a 401 triggers one refresh and one retry.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	tokens := c.Tokens()

	if tokenExpired(tokens.Access, c.now()) && tokens.Refresh != "" {
		if refreshed, err := c.refresh(ctx, tokens.Refresh); err == nil {
			tokens = refreshed
		}
	}

	err := c.send(ctx, method, path, query, in, out, tokens.Access)
	if !errors.Is(err, ErrUnauthorized) || tokens.Refresh == "" {
		return err
	}

	refreshed, rerr := c.refresh(ctx, tokens.Refresh)
	if rerr != nil {
		return err
	}
	return c.send(ctx, method, path, query, in, out, refreshed.Access)
}

func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	var resp models.Tokens
	req := map[string]string{"refresh": refreshToken}
	if err := c.send(ctx, http.MethodPost, pathRefresh, nil, req, &resp, ""); err != nil {
		c.log.Warn(ctx, "token refresh failed", "error", err)
		return models.Tokens{}, err
	}
	if resp.Refresh == "" {
		resp.Refresh = refreshToken
	}

	c.mu.Lock()
	c.tokens = resp
	hook := c.onRefresh
	c.mu.Unlock()

	if hook != nil {
		hook(resp)
	}
	return resp, nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, query url.Values, in, out any, accessToken string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL.JoinPath(path)
	// JoinPath drops the trailing slash the backend routes require.
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	started := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.log.Warn(ctx, "request failed", "request_id", requestID, "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done",
		"request_id", requestID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", c.now().Sub(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return mapStatus(resp.StatusCode, b)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus converts a non-2xx response into an *APIError wrapping the
// matching sentinel error.
func mapStatus(status int, body []byte) error {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		sentinel = ErrUnavailable
	case status >= 500:
		sentinel = ErrServer
	default:
		sentinel = ErrBadRequest
	}
	return &APIError{Status: status, Message: errorMessage(body), Err: sentinel}
}

// errorMessage extracts the human-readable part of an error body:
// {"error": "..."} from views, {"detail": "..."} from the framework.
func errorMessage(body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return strings.TrimSpace(string(body))
}
