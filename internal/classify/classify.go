// Package classify labels extracted document text as medical documentation
// or legal claim material.
//
// The pipeline treats classification as an external collaborator: one call
// per document, behind the Classifier interface. The production
// implementation talks to OpenAI with a structured-output schema; the
// keyword classifier is a deterministic double for offline use and tests.
package classify

import "context"

// Labels assigned to documents.
const (
	LabelClaim     = "claim"
	LabelMedical   = "medical"
	LabelAmbiguous = "ambiguous"
)

// Classification is the structured outcome of classifying one document.
type Classification struct {
	// IsClaim is true for legal claims, false for medical documentation,
	// nil when the document is ambiguous.
	IsClaim *bool `json:"is_claim"`

	// Confidence is the classifier's confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Reasoning is a brief explanation of the decision.
	Reasoning string `json:"reasoning"`

	// KeyIndicators are the phrases that influenced the decision.
	KeyIndicators []string `json:"key_indicators"`
}

// Label maps the three-valued IsClaim onto a label string.
func (c *Classification) Label() string {
	switch {
	case c.IsClaim == nil:
		return LabelAmbiguous
	case *c.IsClaim:
		return LabelClaim
	default:
		return LabelMedical
	}
}

// Classifier decides the document type of extracted text.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}
