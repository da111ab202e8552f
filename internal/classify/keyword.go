package classify

import (
	"context"
	"strings"
)

// claimKeywords are the phrases the heuristic treats as legal-claim signals.
var claimKeywords = []string{
	"allegation",
	"malpractice",
	"negligence",
	"lawsuit",
	"claim",
	"damages",
	"compensation",
}

// KeywordClassifier is a deterministic, offline classifier double based on
// keyword matching. Useful for tests and dry runs; confidence is fixed.
type KeywordClassifier struct{}

// Classify scans the text for claim keywords.
func (KeywordClassifier) Classify(_ context.Context, text string) (*Classification, error) {
	lower := strings.ToLower(text)

	var matched []string
	for _, kw := range claimKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}

	isClaim := len(matched) > 0
	return &Classification{
		IsClaim:       &isClaim,
		Confidence:    0.85,
		Reasoning:     "Keyword heuristic classification",
		KeyIndicators: matched,
	}, nil
}
