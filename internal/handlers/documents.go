package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lexalyze/legal-docs-api/internal/middleware"
	"github.com/lexalyze/legal-docs-api/internal/models"
	"github.com/lexalyze/legal-docs-api/internal/services"
	"github.com/lexalyze/legal-docs-api/internal/utils"
)

// envelopeSlack is headroom over the file limit for multipart framing,
// so a file at exactly the limit is not rejected for its envelope.
const envelopeSlack = 1 << 20

type DocumentHandler struct {
	service     services.DocumentService
	maxFileSize int64
	logger      *utils.Logger
}

func NewDocumentHandler(service services.DocumentService, maxFileSize int64, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	// Reject oversized requests before reading the body. The body-level
	// guards allow for the envelope; the file itself is checked exactly
	// after reading.
	if r.ContentLength > h.maxFileSize+envelopeSlack {
		respondError(w, h.logger, utils.NewBadRequestError("File too large. Maximum size is 10MB."))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+envelopeSlack)

	if err := r.ParseMultipartForm(h.maxFileSize + envelopeSlack); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			respondError(w, h.logger, utils.NewBadRequestError("File too large. Maximum size is 10MB."))
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("No file uploaded. Please select a file."))
		return
	}
	defer file.Close()

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType)

	// Fail fast on unsupported types, before anything is stored.
	if !isValidContentType(contentType) {
		respondError(w, h.logger, utils.NewBadRequestError(
			"Invalid file type: "+contentType+". Only PDF, DOCX, and TXT files are allowed."))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		respondError(w, h.logger, utils.NewInternalError("Failed to read file"))
		return
	}

	if int64(len(data)) > h.maxFileSize {
		respondError(w, h.logger, utils.NewBadRequestError("File too large. Maximum size is 10MB."))
		return
	}

	if len(data) == 0 {
		respondError(w, h.logger, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	req := &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
		UserID:      middleware.UserID(r.Context()),
	}

	resp, err := h.service.Upload(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, doc)
}

func (h *DocumentHandler) ReanalyzeDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Reanalyze(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, models.DocumentResponse{
		Message:  "Document analyzed successfully",
		Document: doc,
	})
}

func (h *DocumentHandler) AnnotateHighlight(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Highlight index must be a number"))
		return
	}

	// An empty body reads the same as {}: no note, no change.
	var req models.AnnotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid request body"))
		return
	}

	doc, err := h.service.AnnotateHighlight(r.Context(), middleware.UserID(r.Context()), vars["id"], index, req.Note)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, models.DocumentResponse{
		Message:  "Highlight updated successfully",
		Document: doc,
	})
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

// determineContentType resolves the upload's media type: a recognized
// declared type wins, and the filename extension decides when the
// browser reports something generic or unknown.
func determineContentType(filename, headerContentType string) string {
	declared := normalizeMediaType(headerContentType)
	if isValidContentType(declared) {
		return declared
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	}

	return declared
}

// normalizeMediaType strips parameters such as charset and lowercases
// the bare type.
func normalizeMediaType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func isValidContentType(contentType string) bool {
	validTypes := map[string]bool{
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		// Some browsers send these variants for DOCX
		"application/vnd.openxmlformats-officedocument.wordprocessingml": true,
		"application/docx":   true,
		"application/x-docx": true,
		"text/plain":         true,
		"text/markdown":      true,
	}

	return validTypes[contentType]
}
