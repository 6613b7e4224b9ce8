// Package extractor converts uploaded file bytes into plain text.
// Dispatch is by declared media type first, falling back to the filename
// extension when the type is missing or unrecognized.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extract returns the plain-text content of data. It is a pure transform:
// the only side effects are the caller's own logging of size and type.
func Extract(data []byte, contentType, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}

	text, err := dispatch(data, contentType, filename)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}

	return text, nil
}

func dispatch(data []byte, contentType, filename string) (string, error) {
	mime := normalizeMediaType(contentType)

	switch {
	case mime == "application/pdf":
		return ExtractPDF(data)
	case isDOCXMediaType(mime):
		return ExtractDOCX(data)
	case mime == "application/msword":
		return extractLegacyDoc(data)
	case mime == "text/plain" || mime == "text/markdown":
		return ExtractTXT(data)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ExtractPDF(data)
	case ".docx":
		return ExtractDOCX(data)
	case ".doc":
		return extractLegacyDoc(data)
	case ".txt", ".md":
		return ExtractTXT(data)
	}

	return "", fmt.Errorf("%w: %q (supported: PDF, DOCX, DOC, TXT, MD)", ErrUnsupportedFormat, contentType)
}

// extractLegacyDoc gives the old binary .doc format a chance: some files
// with a .doc name are really OOXML archives. A genuine legacy file is
// reported as unsupported with conversion guidance rather than a parse
// failure.
func extractLegacyDoc(data []byte) (string, error) {
	text, err := ExtractDOCX(data)
	if err != nil {
		return "", fmt.Errorf("%w: legacy .doc format detected, please convert to .docx or PDF", ErrUnsupportedFormat)
	}
	return text, nil
}

func normalizeMediaType(contentType string) string {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}

func isDOCXMediaType(mime string) bool {
	switch mime {
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.wordprocessingml",
		"application/docx",
		"application/x-docx":
		return true
	}
	return false
}
