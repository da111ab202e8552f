package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"docpipe/internal/logger"
)

// DefaultModel is the classification model used when none is configured.
const DefaultModel = "gpt-4o"

// maxClassifyChars bounds how much document text is sent; the opening pages
// carry the signal.
const maxClassifyChars = 5000

// classificationSchema is the JSON schema enforced on the model's response.
var classificationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"is_claim": {
			"type": ["boolean", "null"],
			"description": "True if legal claim, false if medical documentation, null if ambiguous"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Confidence score"
		},
		"reasoning": {
			"type": "string",
			"description": "Brief explanation of the classification decision"
		},
		"key_indicators": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Key phrases that influenced the classification"
		}
	},
	"required": ["is_claim", "confidence", "reasoning", "key_indicators"],
	"additionalProperties": false
}`)

const systemPrompt = `You are a medical-legal document classifier.

Your task: Classify documents as MEDICAL DOCUMENTATION or LEGAL CLAIM.

**MEDICAL DOCUMENTATION** (is_claim=false):
- Objective clinical observations (symptoms, exam findings, lab results)
- Medical history, diagnoses, treatment plans
- Surgical notes, discharge summaries
- Imaging reports, pathology reports
- Nursing notes, vital signs

**LEGAL CLAIM** (is_claim=true):
- Allegations of malpractice or negligence
- Arguments for damages, compensation requests
- Legal interpretations of medical events
- Blame attribution, fault assignments
- Subjective complaints about care quality

If the document mixes both and neither dominates, set is_claim to null.`

// OpenAIClassifier classifies documents with an OpenAI chat model using
// structured outputs.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAIClassifier creates a classifier backed by the given client.
func NewOpenAIClassifier(client *openai.Client, model string) *OpenAIClassifier {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClassifier{
		client: client,
		model:  model,
		log:    logger.WithComponent("classify"),
	}
}

// Classify sends the document's opening text to the model and decodes the
// structured response.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*Classification, error) {
	if len(text) > maxClassifyChars {
		text = text[:maxClassifyChars]
	}

	c.log.Info().Int("chars", len(text)).Str("model", c.model).Msg("Classifying document")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Document text:\n\n%s", text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "document_classification",
				Schema: classificationSchema,
				Strict: true,
			},
		},
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("classification returned no choices")
	}

	var result Classification
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("invalid classification response: %w", err)
	}

	c.log.Info().
		Str("label", result.Label()).
		Float64("confidence", result.Confidence).
		Msg("Classification complete")

	return &result, nil
}
