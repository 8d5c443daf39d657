// Package services contains application services for the filechat client.
// This file defines the authentication service: login, session restore,
// logout and the liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filechat/internal/client/client"
	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/logging"
)

var ErrSessionExpired = errors.New("session expired, please log in again")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - Restore: reinstall a persisted session; returns the user name, or ""
//     when there is nothing to restore.
//   - Logout: forget the session locally.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Restore(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// AuthClient is the part of the API client the service needs.
type AuthClient interface {
	Login(ctx context.Context, username string, password []byte) (models.Tokens, error)
	Ping(ctx context.Context) error
	Close() error
	SetTokens(t models.Tokens)
	OnTokensRefreshed(fn func(models.Tokens))
}

// SessionStore persists the session between runs.
type SessionStore interface {
	SaveLogin(ctx context.Context, username string, t models.Tokens) error
	SaveTokens(ctx context.Context, t models.Tokens) error
	Login(ctx context.Context) (string, models.Tokens, error)
	Clear(ctx context.Context) error
}

const persistTimeout = 5 * time.Second

type authService struct {
	client AuthClient
	store  SessionStore
	log    logging.Logger
	now    func() time.Time
}

// NewAuthService binds the service to an API client and a session store.
// Tokens refreshed by the client are written back to the store.
func NewAuthService(c AuthClient, store SessionStore, log logging.Logger) AuthService {
	a := &authService{client: c, store: store, log: log.With("component", "auth"), now: time.Now}

	c.OnTokensRefreshed(func(t models.Tokens) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := store.SaveTokens(ctx, t); err != nil {
			a.log.Error(ctx, "error saving refreshed tokens", "error", err)
		}
	})
	return a
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	tokens, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.store.SaveLogin(ctx, username, tokens); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "username", username)
	return nil
}

// Restore returns ErrSessionExpired, and clears the store, when the stored
// refresh token can no longer be used.
func (a *authService) Restore(ctx context.Context) (string, error) {
	username, tokens, err := a.store.Login(ctx)
	if err != nil {
		return "", fmt.Errorf("session loading error: %w", err)
	}
	if username == "" || tokens.Refresh == "" {
		return "", nil
	}

	exp, err := client.TokenExpiry(tokens.Refresh)
	if err == nil && !exp.IsZero() && !a.now().Before(exp) {
		if err := a.store.Clear(ctx); err != nil {
			a.log.Warn(ctx, "error clearing expired session", "error", err)
		}
		return "", ErrSessionExpired
	}

	a.client.SetTokens(tokens)
	return username, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetTokens(models.Tokens{})
	return a.store.Clear(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
