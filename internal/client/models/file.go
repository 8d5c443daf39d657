package models

import (
	"fmt"
	"time"
)

// FileStatus describes where an uploaded file is in the processing pipeline.
type FileStatus string

const (
	FileStatusPending    FileStatus = "pending"
	FileStatusUploaded   FileStatus = "uploaded"
	FileStatusProcessing FileStatus = "processing"
	FileStatusReady      FileStatus = "ready"
	FileStatusFailed     FileStatus = "failed"
)

// Ingestion stages reported by the server. Other labels are free-form.
const (
	IngestionComplete = "complete"
	IngestionFailed   = "failed"
)

// FileAsset is one uploaded file as listed by the server.
type FileAsset struct {
	ID              int64          `json:"id"`
	Filename        string         `json:"filename"`
	FileType        string         `json:"file_type,omitempty"`
	Size            int64          `json:"size"`
	UploadedAt      time.Time      `json:"uploaded_at"`
	Status          FileStatus     `json:"status"`
	IngestionStatus string         `json:"ingestion_status"`
	DeletionFailed  bool           `json:"deletion_failed,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// RetryEligible reports whether failed ingestion of the file may be
// restarted. This is the only condition gating the retry affordance.
func (f FileAsset) RetryEligible() bool {
	return f.Status == FileStatusUploaded && f.IngestionStatus == IngestionFailed
}

// IngestionPending reports whether the ingestion stage label should be
// shown next to the status.
func (f FileAsset) IngestionPending() bool {
	return f.IngestionStatus != IngestionComplete
}

// SizeLabel renders the size in kilobytes with two decimals.
func (f FileAsset) SizeLabel() string {
	return fmt.Sprintf("%.2f KB", float64(f.Size)/1024)
}

// FilePage is one page of the file listing.
type FilePage struct {
	Results    []FileAsset `json:"results"`
	Count      int         `json:"count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
