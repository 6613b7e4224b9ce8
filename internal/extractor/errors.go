package extractor

import "errors"

var (
	// ErrUnsupportedFormat means neither the media type nor the filename
	// extension matched a supported format.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyContent means decoding succeeded but produced no text, the
	// usual case being a scanned PDF with no text layer.
	ErrEmptyContent = errors.New("no extractable text content")

	// ErrParseFailure wraps a decode error from one of the format parsers.
	ErrParseFailure = errors.New("failed to parse document")
)
