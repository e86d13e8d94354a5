package model

import (
	"fmt"
	"strings"
)

// Evaluation is the structured result of one evaluator call.
type Evaluation struct {
	Score       float64        `json:"score"`
	Keywords    []string       `json:"keywords,omitempty"`
	Missing     []string       `json:"missing,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// FeedbackSummary renders the evaluation as prose for the reflector prompt
// and the run report.
func (e *Evaluation) FeedbackSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SEO score: %.1f/100", e.Score)
	if len(e.Keywords) > 0 {
		b.WriteString("\nDetected keywords: " + strings.Join(e.Keywords, ", "))
	}
	if len(e.Missing) > 0 {
		b.WriteString("\nMissing elements: " + strings.Join(e.Missing, ", "))
	}
	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggested improvements: " + strings.Join(e.Suggestions, "; "))
	}
	return b.String()
}
