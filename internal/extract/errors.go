package extract

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrRasterizeFailed is returned when a PDF could not be rendered to page
	// images at either the configured or the fallback resolution.
	ErrRasterizeFailed = errors.New("PDF rasterization failed")

	// ErrNoPages is returned when rasterization produced no page images.
	ErrNoPages = errors.New("no pages rendered")

	// ErrInvalidDocument is returned when a document file could not be opened
	// or parsed.
	ErrInvalidDocument = errors.New("invalid or corrupted document")

	// ErrAllPagesFailed is returned when every page of a document exhausted
	// its retries.
	ErrAllPagesFailed = errors.New("every page failed extraction")
)

// ExtractionError wraps errors with additional context about the extraction failure.
type ExtractionError struct {
	// Op is the operation that failed (e.g., "extractPDF", "rasterize").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapExtractionError wraps an error as an ExtractionError if it isn't already one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var exErr *ExtractionError
	if errors.As(err, &exErr) {
		return err // Already wrapped
	}

	return &ExtractionError{Op: op, Err: err, Details: details}
}
