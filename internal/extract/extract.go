// Package extract turns heterogeneous documents into text.
//
// Scanned PDFs are rasterized page by page and sent to a remote vision
// engine; word-processor files are read directly from their structure with
// no remote call; images go through a single recognition call. All remote
// calls pass through a shared admission gate and a retry policy, so one slow
// or failing document never starves or aborts the rest of a batch.
package extract

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docpipe/internal/logger"
	"docpipe/internal/retry"
	"docpipe/internal/textclean"
	"docpipe/internal/vision"
)

// Format is a document's file-type tag.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatImage       Format = "image"
	FormatUnsupported Format = "unsupported"
)

// DetectFormat maps a file path to its format tag by extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF
	case ".docx", ".doc":
		return FormatDOCX
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp":
		return FormatImage
	default:
		return FormatUnsupported
	}
}

// Result is the outcome of extracting one document. Failed documents are
// reported with Success=false and a reason; they are never silently dropped,
// so callers can tell "empty document" from "extraction failed".
type Result struct {
	Path          string        `json:"path"`
	Format        Format        `json:"format"`
	Text          string        `json:"text"`
	Pages         int           `json:"pages,omitempty"`
	Success       bool          `json:"success"`
	FailureReason string        `json:"failure_reason,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// Config holds extraction tuning knobs.
type Config struct {
	// DPI is the PDF rasterization resolution. Default 200; handwritten
	// material needs at least that.
	DPI int

	// FallbackDPI is retried when rasterization at DPI fails, usually from
	// memory pressure on very long documents. Default 100.
	FallbackDPI int

	// MaxConsecutiveRepeats caps character runs and repeated lines during
	// cleaning. Default 20.
	MaxConsecutiveRepeats int

	// Pdftoppm is the rasterizer binary name or absolute path; if empty -> "pdftoppm".
	Pdftoppm string
}

func (c *Config) defaults() {
	if c.DPI <= 0 {
		c.DPI = 200
	}
	if c.FallbackDPI <= 0 {
		c.FallbackDPI = 100
	}
	if c.MaxConsecutiveRepeats <= 0 {
		c.MaxConsecutiveRepeats = textclean.DefaultMaxConsecutive
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
}

// Extractor extracts text from documents, dispatching on file type.
type Extractor struct {
	cfg    Config
	engine vision.Engine
	policy *retry.Policy
	gate   *Gate
	runner Runner
	log    zerolog.Logger
}

// NewExtractor creates an Extractor sharing the given gate across all of its
// remote calls. A nil policy gets the default schedule; a nil gate gets the
// default capacity.
func NewExtractor(cfg Config, engine vision.Engine, policy *retry.Policy, gate *Gate) *Extractor {
	cfg.defaults()
	if policy == nil {
		policy = retry.NewPolicy(0, nil)
	}
	if gate == nil {
		gate = NewGate(DefaultConcurrency)
	}
	return &Extractor{
		cfg:    cfg,
		engine: engine,
		policy: policy,
		gate:   gate,
		runner: execRunner{},
		log:    logger.WithComponent("extract"),
	}
}

// NewExtractorWithRunner creates an Extractor with an explicit command runner (for testing).
func NewExtractorWithRunner(cfg Config, engine vision.Engine, policy *retry.Policy, gate *Gate, runner Runner) *Extractor {
	e := NewExtractor(cfg, engine, policy, gate)
	e.runner = runner
	return e
}

// Extract processes a single document and always returns a Result; errors are
// folded into the result rather than returned.
func (e *Extractor) Extract(ctx context.Context, path string) Result {
	start := time.Now()
	format := DetectFormat(path)
	log := e.log.With().Str("file", filepath.Base(path)).Str("format", string(format)).Logger()

	log.Info().Msg("Processing document")

	var (
		text  string
		pages int
		err   error
	)

	switch format {
	case FormatPDF:
		text, pages, err = e.extractPDF(ctx, path)
	case FormatDOCX:
		text, err = e.extractDOCX(path)
	case FormatImage:
		text, err = e.extractImage(ctx, path)
	default:
		log.Warn().Msg("Unsupported file type, skipping")
	}

	res := Result{
		Path:     path,
		Format:   format,
		Pages:    pages,
		Duration: time.Since(start),
	}

	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
		res.FailureReason = err.Error()
		return res
	}

	res.Text = textclean.Clean(text, e.cfg.MaxConsecutiveRepeats)
	res.Success = true
	log.Info().
		Int("chars", len(res.Text)).
		Int("pages", pages).
		Dur("duration", res.Duration).
		Msg("Extraction complete")
	return res
}

// recognizePage runs one gated, retried remote recognition call. The gate
// slot is held only for the duration of each attempt, not across backoff
// waits.
func (e *Extractor) recognizePage(ctx context.Context, page vision.Page) (string, error) {
	return e.policy.Do(ctx, func(ctx context.Context) (string, error) {
		if err := e.gate.Acquire(ctx); err != nil {
			return "", err
		}
		defer e.gate.Release()
		return e.engine.Generate(ctx, page)
	})
}
