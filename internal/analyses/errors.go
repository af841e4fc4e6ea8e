package analyses

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrExtraction wraps failures of the text extraction step. No analysis
	// is persisted when it is returned.
	ErrExtraction = errors.New("extraction failed")
)
