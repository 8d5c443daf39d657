package client

import (
	"context"

	"github.com/dmitrijs2005/filechat/internal/client/models"
)

// Client is the full API surface the CLI consumes.
type Client interface {
	Close() error
	Login(ctx context.Context, username string, password []byte) (models.Tokens, error)
	Ping(ctx context.Context) error

	SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	GetConversationHistory(ctx context.Context, conversationID int64) (*models.History, error)

	ListFiles(ctx context.Context, page, pageSize int) (*models.FilePage, error)
	DeleteFile(ctx context.Context, fileID int64) error
	RenameFile(ctx context.Context, fileID int64, filename string) (*models.FileAsset, error)
	RetryFinalize(ctx context.Context, fileID int64) error

	PresignUpload(ctx context.Context, req models.PresignRequest) (*models.PresignedUpload, error)
	FinalizeUpload(ctx context.Context, req models.FinalizeRequest) (*models.FileAsset, error)
}
