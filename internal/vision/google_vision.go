package vision

import (
	"context"
	"os"
	"strings"

	visionapi "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docpipe/internal/logger"
)

// CloudVisionEngine recognizes page text with the Google Cloud Vision API's
// document text detection feature.
type CloudVisionEngine struct {
	client *visionapi.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewCloudVisionEngine creates a Cloud Vision engine with credentials from the
// environment: GOOGLE_CREDENTIALS (inline JSON), GOOGLE_APPLICATION_CREDENTIALS
// (file path), or Application Default Credentials as a fallback.
func NewCloudVisionEngine(ctx context.Context, _ Config) (*CloudVisionEngine, error) {
	const op = "NewCloudVisionEngine"

	var client *visionapi.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = visionapi.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapEngineError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = visionapi.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapEngineError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = visionapi.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapEngineError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &CloudVisionEngine{
		client: client,
		log:    logger.WithComponent("cloud-vision"),
	}, nil
}

// NewCloudVisionEngineWithClient creates an engine with an explicit client (for testing).
func NewCloudVisionEngineWithClient(client *visionapi.ImageAnnotatorClient) *CloudVisionEngine {
	return &CloudVisionEngine{
		client: client,
		log:    logger.WithComponent("cloud-vision"),
	}
}

// Generate runs DOCUMENT_TEXT_DETECTION on the page image.
func (v *CloudVisionEngine) Generate(ctx context.Context, page Page) (string, error) {
	const op = "Generate"

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: page.Data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		v.log.Warn().Err(err).Int("page", page.Number).Msg("Vision API call failed")
		return "", WrapEngineError(op, ErrRecognitionFailed, err.Error())
	}

	if len(resp.Responses) == 0 {
		return "", WrapEngineError(op, ErrEmptyResponse, "no response from Vision API")
	}

	annotated := resp.Responses[0]
	if annotated.Error != nil {
		return "", WrapEngineError(op, ErrRecognitionFailed, annotated.Error.Message)
	}

	if annotated.FullTextAnnotation == nil || strings.TrimSpace(annotated.FullTextAnnotation.Text) == "" {
		return "", WrapEngineError(op, ErrEmptyResponse, "no text annotation")
	}

	return annotated.FullTextAnnotation.Text, nil
}

// Close releases the underlying client.
func (v *CloudVisionEngine) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
