package session

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/dmitrijs2005/filechat/internal/client/models"
)

const (
	keyUsername       = "username"
	keyAccessToken    = "access_token"
	keyRefreshToken   = "refresh_token"
	keyConversationID = "conversation_id"
)

// Store exposes typed accessors over the session table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo() Repository {
	return NewSQLiteRepository(s.db)
}

// withTx runs fn in a transaction; it commits when fn returns nil and rolls
// back otherwise. Panics are rethrown after the rollback.
func (s *Store) withTx(ctx context.Context, fn func(r Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(NewSQLiteRepository(tx))
}

// SaveLogin stores the user name together with its token pair.
func (s *Store) SaveLogin(ctx context.Context, username string, t models.Tokens) error {
	return s.withTx(ctx, func(r Repository) error {
		if err := r.Set(ctx, keyUsername, []byte(username)); err != nil {
			return err
		}
		return saveTokens(ctx, r, t)
	})
}

func (s *Store) SaveTokens(ctx context.Context, t models.Tokens) error {
	return s.withTx(ctx, func(r Repository) error {
		return saveTokens(ctx, r, t)
	})
}

func saveTokens(ctx context.Context, r Repository, t models.Tokens) error {
	if err := r.Set(ctx, keyAccessToken, []byte(t.Access)); err != nil {
		return err
	}
	return r.Set(ctx, keyRefreshToken, []byte(t.Refresh))
}

// Login returns the stored user name and tokens. An empty user name means
// nobody is signed in.
func (s *Store) Login(ctx context.Context) (string, models.Tokens, error) {
	r := s.repo()

	username, err := r.Get(ctx, keyUsername)
	if err != nil {
		return "", models.Tokens{}, err
	}
	access, err := r.Get(ctx, keyAccessToken)
	if err != nil {
		return "", models.Tokens{}, err
	}
	refresh, err := r.Get(ctx, keyRefreshToken)
	if err != nil {
		return "", models.Tokens{}, err
	}
	return string(username), models.Tokens{Access: string(access), Refresh: string(refresh)}, nil
}

// LastConversation returns the last active conversation, zero if none.
func (s *Store) LastConversation(ctx context.Context) (int64, error) {
	v, err := s.repo().Get(ctx, keyConversationID)
	if err != nil || v == nil {
		return 0, err
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		// a corrupt value is treated as no conversation
		return 0, nil
	}
	return id, nil
}

// SaveLastConversation records id; zero forgets the conversation.
func (s *Store) SaveLastConversation(ctx context.Context, id int64) error {
	if id == 0 {
		return s.repo().Delete(ctx, keyConversationID)
	}
	return s.repo().Set(ctx, keyConversationID, []byte(strconv.FormatInt(id, 10)))
}

// Clear signs out: every session value is removed.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo().Clear(ctx)
}
