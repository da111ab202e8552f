// Package vision provides the remote text-recognition capability used by the
// extraction pipeline.
//
// An Engine turns a single page image into text. Four implementations are
// available: Gemini (default), Google Cloud Vision, Google Document AI, and a
// deterministic stub for offline use and tests. The engine is selected at
// construction time via New; callers never branch on environment state.
//
// Required environment variables depend on the engine:
//   - gemini:     GEMINI_API_KEY
//   - vision:     GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
//   - documentai: GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID plus credentials
package vision

import (
	"context"
	"fmt"
)

// DefaultPrompt instructs the model to transcribe a page verbatim.
const DefaultPrompt = "Extract all text from this medical document page. " +
	"Preserve reading order and line breaks. Return only the transcribed text, " +
	"with no commentary."

// Page is a single page image submitted for recognition.
type Page struct {
	// Data is the encoded image bytes.
	Data []byte

	// MIME is the image media type, e.g. "image/jpeg".
	MIME string

	// Number is the 1-based page index within its parent document.
	Number int
}

// Engine performs text recognition on a single page image.
type Engine interface {
	// Generate returns the text recognized on the page. Failures may be
	// transient (network, rate limit) or permanent (invalid input); the
	// engine does not distinguish them.
	Generate(ctx context.Context, page Page) (string, error)

	// Close releases any underlying client resources.
	Close() error
}

// Config selects and parameterizes an engine.
type Config struct {
	Engine          string // gemini, vision, documentai, stub
	APIKey          string // gemini
	Model           string // gemini model name
	Project         string // documentai
	Location        string // documentai, e.g. "us" or "eu"
	ProcessorID     string // documentai
	MaxOutputTokens int
	Temperature     float32
	Prompt          string
}

func (c Config) prompt() string {
	if c.Prompt != "" {
		return c.Prompt
	}
	return DefaultPrompt
}

func (c Config) maxOutputTokens() int32 {
	if c.MaxOutputTokens <= 0 {
		return 8024
	}
	return int32(c.MaxOutputTokens)
}

// New creates the engine named by cfg.Engine.
func New(ctx context.Context, cfg Config) (Engine, error) {
	switch cfg.Engine {
	case "", "gemini":
		return NewGeminiEngine(ctx, cfg)
	case "vision":
		return NewCloudVisionEngine(ctx, cfg)
	case "documentai":
		return NewDocumentAIEngine(ctx, cfg)
	case "stub":
		return NewStubEngine(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
}
