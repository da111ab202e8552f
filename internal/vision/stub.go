package vision

import (
	"context"
	"fmt"
	"sync/atomic"
)

// StubEngine is an offline engine returning deterministic placeholder text.
// It doubles as the test engine: FailFunc, when set, decides per page whether
// the call should fail, and Calls counts every Generate invocation.
type StubEngine struct {
	// FailFunc, if non-nil, is consulted before producing text; a non-nil
	// return fails the call with that error.
	FailFunc func(page Page) error

	// TextFunc, if non-nil, overrides the placeholder text.
	TextFunc func(page Page) string

	calls atomic.Int64
}

// NewStubEngine creates a stub engine with default placeholder output.
func NewStubEngine() *StubEngine {
	return &StubEngine{}
}

// Generate returns placeholder text for the page.
func (s *StubEngine) Generate(_ context.Context, page Page) (string, error) {
	s.calls.Add(1)

	if s.FailFunc != nil {
		if err := s.FailFunc(page); err != nil {
			return "", WrapEngineError("Generate", ErrRecognitionFailed, err.Error())
		}
	}
	if s.TextFunc != nil {
		return s.TextFunc(page), nil
	}
	return fmt.Sprintf("[Placeholder OCR text from page %d]", page.Number), nil
}

// Calls reports how many Generate invocations the stub has served.
func (s *StubEngine) Calls() int64 {
	return s.calls.Load()
}

// Close is a no-op.
func (s *StubEngine) Close() error {
	return nil
}
