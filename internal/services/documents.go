package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lexalyze/legal-docs-api/internal/extractor"
	"github.com/lexalyze/legal-docs-api/internal/models"
	"github.com/lexalyze/legal-docs-api/internal/repository"
	"github.com/lexalyze/legal-docs-api/internal/storage"
	"github.com/lexalyze/legal-docs-api/internal/utils"
)

// DocumentProcessor is the orchestration boundary the service hands
// uploaded documents to. *processor.Processor implements it.
type DocumentProcessor interface {
	Process(id string)
	Reanalyze(ctx context.Context, id string) (*models.Document, error)
}

type DocumentService interface {
	Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
	List(ctx context.Context, userID string) ([]models.Document, error)
	Get(ctx context.Context, userID, id string) (*models.Document, error)
	Delete(ctx context.Context, userID, id string) error
	Reanalyze(ctx context.Context, userID, id string) (*models.Document, error)
	AnnotateHighlight(ctx context.Context, userID, id string, index int, note *string) (*models.Document, error)
}

type documentService struct {
	repo      repository.DocumentRepository
	storage   storage.Storage
	processor DocumentProcessor
	logger    *utils.Logger
}

func NewDocumentService(repo repository.DocumentRepository, store storage.Storage, proc DocumentProcessor, logger *utils.Logger) DocumentService {
	return &documentService{
		repo:      repo,
		storage:   store,
		processor: proc,
		logger:    logger,
	}
}

// Upload extracts text synchronously, stores the blob and record, then
// detaches analysis. The response goes out with status "processing";
// clients poll until the summary fills in.
func (s *documentService) Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	text, err := extractor.Extract(req.File, req.ContentType, req.Filename)
	if err != nil {
		s.logger.Warn("Text extraction failed",
			"filename", req.Filename,
			"content_type", req.ContentType,
			"size", len(req.File),
			"error", err)
		return nil, extractionError(err)
	}

	docID := utils.GenerateID()
	s3Key := fmt.Sprintf("documents/%s/%s", docID, req.Filename)

	if err := s.storage.Upload(ctx, s3Key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to store blob", "error", err, "s3_key", s3Key)
		return nil, utils.NewInternalError("Failed to store document")
	}

	now := time.Now()
	doc := &models.Document{
		ID:           docID,
		UserID:       req.UserID,
		Filename:     fmt.Sprintf("doc_%d", now.UnixMilli()),
		OriginalName: req.Filename,
		ContentType:  req.ContentType,
		FileSize:     int64(len(req.File)),
		S3Key:        s3Key,
		Content:      text,
		Summary:      "",
		Analysis:     map[string]interface{}{},
		KeyPoints:    []string{},
		Highlights:   []models.Highlight{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to save document", "error", err, "id", docID)
		// Don't leave an orphaned blob behind.
		_ = s.storage.Delete(ctx, s3Key)
		return nil, utils.NewInternalError("Failed to save document metadata")
	}

	s.logger.Info("Document uploaded",
		"id", docID,
		"filename", req.Filename,
		"content_type", req.ContentType,
		"text_length", len(text))

	s.processor.Process(docID)

	return &models.UploadResponse{
		Message: "Document uploaded successfully",
		Document: models.UploadedDocument{
			ID:         docID,
			Filename:   req.Filename,
			UploadedAt: now,
			Status:     models.StatusProcessing,
		},
	}, nil
}

func (s *documentService) List(ctx context.Context, userID string) ([]models.Document, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err, "user_id", userID)
		return nil, utils.NewInternalError("Failed to retrieve documents")
	}
	return docs, nil
}

func (s *documentService) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	return s.getOwned(ctx, userID, id)
}

func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete document", "error", err, "id", id)
		return utils.NewInternalError("Failed to delete document")
	}

	// Blob removal is best-effort; the record is already gone.
	if err := s.storage.Delete(ctx, doc.S3Key); err != nil {
		s.logger.Warn("Failed to delete blob", "error", err, "s3_key", doc.S3Key)
	}

	return nil
}

func (s *documentService) Reanalyze(ctx context.Context, userID, id string) (*models.Document, error) {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	doc, err := s.processor.Reanalyze(ctx, id)
	if err != nil {
		s.logger.Error("Re-analysis failed", "error", err, "id", id)
		return nil, utils.NewInternalError(err.Error())
	}

	return doc, nil
}

// AnnotateHighlight sets the note on the highlight at the given 0-based
// index. A request without a note is a no-op that still succeeds. Notes
// do not survive re-analysis: the next pass overwrites the whole list.
func (s *documentService) AnnotateHighlight(ctx context.Context, userID, id string, index int, note *string) (*models.Document, error) {
	doc, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(doc.Highlights) {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Highlight index %d is out of range", index))
	}

	if note == nil {
		return doc, nil
	}

	doc.Highlights[index].Note = *note
	if err := s.repo.UpdateHighlights(ctx, id, doc.Highlights); err != nil {
		s.logger.Error("Failed to update highlight note", "error", err, "id", id, "index", index)
		return nil, utils.NewInternalError("Failed to save highlight note")
	}

	return s.getOwned(ctx, userID, id)
}

// getOwned fetches a document and enforces ownership. A document owned
// by someone else reads the same as a missing one.
func (s *documentService) getOwned(ctx context.Context, userID, id string) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil || doc.UserID != userID {
		return nil, utils.NewNotFoundError("Document not found")
	}
	return doc, nil
}

func extractionError(err error) error {
	switch {
	case errors.Is(err, extractor.ErrEmptyContent):
		return utils.NewBadRequestError("Document appears to be empty or contains no extractable text. Please ensure the file contains readable text content.")
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return utils.NewBadRequestError(err.Error())
	case errors.Is(err, extractor.ErrParseFailure):
		return utils.NewBadRequestError(err.Error())
	default:
		return utils.NewInternalError("Failed to extract text from document")
	}
}
