package models

import (
	"time"
)

// Document processing states, derived from the record contents rather
// than stored: an empty summary means processing is still in flight,
// a populated analysis "error" key means the last pass failed.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusError      = "error"
)

// Highlight severities. Normalization defaults a missing severity to
// medium but passes other values through untouched.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Highlight is a span of the extracted text flagged by analysis.
// Highlights are addressed by their position in the document's list;
// Note is user-editable and does not survive re-analysis.
type Highlight struct {
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Snippet  string `json:"snippet"`
	Note     string `json:"note"`
}

type Document struct {
	ID           string                 `json:"id" db:"id"`
	UserID       string                 `json:"userId" db:"user_id"`
	Filename     string                 `json:"filename" db:"filename"`
	OriginalName string                 `json:"originalName" db:"original_name"`
	ContentType  string                 `json:"fileType" db:"content_type"`
	FileSize     int64                  `json:"fileSize" db:"file_size"`
	S3Key        string                 `json:"-" db:"s3_key"`
	Content      string                 `json:"content" db:"content"`
	Summary      string                 `json:"summary" db:"summary"`
	Analysis     map[string]interface{} `json:"analysis" db:"analysis"`
	KeyPoints    []string               `json:"keyPoints" db:"key_points"`
	Highlights   []Highlight            `json:"highlights" db:"highlights"`
	CreatedAt    time.Time              `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time              `json:"updatedAt" db:"updated_at"`
}

// Status reports where the document is in its lifecycle.
func (d *Document) Status() string {
	if d.Analysis != nil {
		if _, ok := d.Analysis["error"]; ok {
			return StatusError
		}
	}
	if d.Summary == "" {
		return StatusProcessing
	}
	return StatusReady
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
	UserID      string
}

type UploadedDocument struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
	Status     string    `json:"status"`
}

type UploadResponse struct {
	Message  string           `json:"message"`
	Document UploadedDocument `json:"document"`
}

type DocumentResponse struct {
	Message  string    `json:"message"`
	Document *Document `json:"document"`
}

type AnnotateRequest struct {
	Note *string `json:"note"`
}
