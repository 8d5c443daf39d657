package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filechat/internal/client/models"
	"github.com/dmitrijs2005/filechat/internal/logging"
	"github.com/dmitrijs2005/filechat/internal/netx"
)

// MaxFileSize is the largest upload the storage policy accepts.
const MaxFileSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("file type is not allowed")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size of 10MB")
	ErrEmptyFile       = errors.New("file is empty")
)

// allowedTypes maps accepted extensions to the type label the server expects.
var allowedTypes = map[string]string{
	"pdf":  "pdf",
	"docx": "docx",
	"txt":  "txt",
	"png":  "png",
	"jpeg": "jpeg",
	"jpg":  "jpg",
}

// FileType returns the server type label for name, or ErrUnsupportedType.
func FileType(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	t, ok := allowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return t, nil
}

// UploadService uploads local files: presign, post to storage, finalize.
type UploadService interface {
	Upload(ctx context.Context, path string) (*models.FileAsset, error)
}

// UploadClient is the part of the API client the service needs.
type UploadClient interface {
	PresignUpload(ctx context.Context, req models.PresignRequest) (*models.PresignedUpload, error)
	FinalizeUpload(ctx context.Context, req models.FinalizeRequest) (*models.FileAsset, error)
}

// postForm is a test seam for netx.PostPresignedForm.
var postForm = netx.PostPresignedForm

type uploadService struct {
	client  UploadClient
	storage *http.Client
	log     logging.Logger
}

// NewUploadService builds an UploadService; storage is the HTTP client used
// for the bucket upload.
func NewUploadService(c UploadClient, storage *http.Client, log logging.Logger) UploadService {
	return &uploadService{client: c, storage: storage, log: log.With("component", "upload")}
}

func (u *uploadService) Upload(ctx context.Context, path string) (*models.FileAsset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if fi.Size() == 0 {
		return nil, ErrEmptyFile
	}
	if fi.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	name := filepath.Base(path)
	fileType, err := FileType(name)
	if err != nil {
		return nil, err
	}

	presigned, err := u.client.PresignUpload(ctx, models.PresignRequest{Filename: name, FileType: fileType, Size: fi.Size()})
	if err != nil {
		return nil, fmt.Errorf("presign error: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := postForm(ctx, u.storage, presigned.URL, presigned.Fields, name, f); err != nil {
		return nil, fmt.Errorf("storage upload error: %w", err)
	}

	asset, err := u.client.FinalizeUpload(ctx, models.FinalizeRequest{
		Key:      presigned.Key,
		Filename: name,
		FileType: fileType,
		Size:     fi.Size(),
	})
	if err != nil {
		return nil, fmt.Errorf("finalize error: %w", err)
	}

	u.log.Info(ctx, "file uploaded", "file_id", asset.ID, "filename", name, "size", fi.Size())
	return asset, nil
}
