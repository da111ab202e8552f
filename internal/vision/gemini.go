package vision

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docpipe/internal/logger"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiEngine recognizes page text with the Gemini vision API.
type GeminiEngine struct {
	client *genai.Client
	model  *genai.GenerativeModel
	prompt string
	log    zerolog.Logger
}

// NewGeminiEngine creates a Gemini-backed engine. The API key comes from
// cfg.APIKey; temperature is pinned low for transcription fidelity.
func NewGeminiEngine(ctx context.Context, cfg Config) (*GeminiEngine, error) {
	const op = "NewGeminiEngine"

	if cfg.APIKey == "" {
		return nil, WrapEngineError(op, ErrMissingAPIKey, "")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, WrapEngineError(op, err, "failed to create gemini client")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.maxOutputTokens())

	return &GeminiEngine{
		client: client,
		model:  model,
		prompt: cfg.prompt(),
		log:    logger.WithComponent("gemini"),
	}, nil
}

// Generate sends the page image and transcription prompt to Gemini.
func (g *GeminiEngine) Generate(ctx context.Context, page Page) (string, error) {
	const op = "Generate"

	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData(subtypeOf(page.MIME), page.Data),
		genai.Text(g.prompt),
	)
	if err != nil {
		g.log.Warn().Err(err).Int("page", page.Number).Msg("Gemini GenerateContent failed")
		return "", WrapEngineError(op, ErrRecognitionFailed, err.Error())
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", WrapEngineError(op, ErrEmptyResponse, "no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", WrapEngineError(op, ErrEmptyResponse, "candidates contained no text parts")
	}

	return sb.String(), nil
}

// Close releases the underlying client.
func (g *GeminiEngine) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// subtypeOf maps "image/jpeg" to the bare format name genai expects.
func subtypeOf(mime string) string {
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		return mime[i+1:]
	}
	return mime
}
