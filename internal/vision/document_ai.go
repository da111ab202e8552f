package vision

import (
	"context"
	"fmt"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docpipe/internal/logger"
)

// DocumentAIEngine recognizes page text with a Google Document AI OCR processor.
type DocumentAIEngine struct {
	client        *documentai.DocumentProcessorClient
	processorName string
	log           zerolog.Logger
}

// NewDocumentAIEngine creates a Document AI engine. Requires cfg.Project and
// cfg.ProcessorID; cfg.Location defaults to "us". Credentials come from the
// same environment variables as the Cloud Vision engine.
func NewDocumentAIEngine(ctx context.Context, cfg Config) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if cfg.Project == "" || cfg.ProcessorID == "" {
		return nil, WrapEngineError(op, ErrRecognitionFailed, "GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID are required")
	}
	location := cfg.Location
	if location == "" {
		location = "us"
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for non-US processors
	if location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapEngineError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapEngineError(op, err, fmt.Sprintf("failed to create Document AI client for location %s", location))
	}

	return &DocumentAIEngine{
		client:        client,
		processorName: fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.Project, location, cfg.ProcessorID),
		log:           logger.WithComponent("document-ai"),
	}, nil
}

// Generate submits the page image as an inline raw document.
func (d *DocumentAIEngine) Generate(ctx context.Context, page Page) (string, error) {
	const op = "Generate"

	req := &documentaipb.ProcessRequest{
		Name: d.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  page.Data,
				MimeType: page.MIME,
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		d.log.Warn().Err(err).Int("page", page.Number).Msg("Document AI call failed")
		return "", WrapEngineError(op, ErrRecognitionFailed, err.Error())
	}

	if resp.Document == nil || strings.TrimSpace(resp.Document.Text) == "" {
		return "", WrapEngineError(op, ErrEmptyResponse, "processor returned no text")
	}

	return resp.Document.Text, nil
}

// Close releases the underlying client.
func (d *DocumentAIEngine) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
