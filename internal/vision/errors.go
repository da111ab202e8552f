package vision

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	// ErrUnknownEngine is returned when the configured engine name is not recognized.
	ErrUnknownEngine = errors.New("unknown vision engine")

	// ErrMissingAPIKey is returned when the Gemini engine is created without an API key.
	ErrMissingAPIKey = errors.New("missing API key: set GEMINI_API_KEY environment variable")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrEmptyResponse is returned when the remote service produced no text candidates.
	ErrEmptyResponse = errors.New("remote service returned no text")

	// ErrRecognitionFailed is returned when the remote call itself failed.
	ErrRecognitionFailed = errors.New("text recognition failed")
)

// EngineError wraps errors with additional context about the recognition failure.
type EngineError struct {
	// Op is the operation that failed (e.g., "Generate", "NewGeminiEngine").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("vision: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("vision: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapEngineError wraps an error as an EngineError if it isn't already one.
func WrapEngineError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var engErr *EngineError
	if errors.As(err, &engErr) {
		return err // Already wrapped
	}

	return &EngineError{Op: op, Err: err, Details: details}
}
