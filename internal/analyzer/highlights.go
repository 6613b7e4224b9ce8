package analyzer

import (
	"fmt"

	"github.com/lexalyze/legal-docs-api/internal/models"
)

// highlightKeys are the field names under which models have been seen to
// place the highlight array, in precedence order. The first key holding
// an array wins; later keys are ignored even when also present.
var highlightKeys = []string{
	"highlightedRiskClauses",
	"highlightedClauses",
	"highlighted_risks",
	"highlightedRisks",
	"highlights",
}

// NormalizeHighlights reconciles the structured-analysis result into one
// canonical highlight list. An analysis with no recognized highlight
// array normalizes to an empty list; that is not an error.
func NormalizeHighlights(analysis map[string]interface{}) []models.Highlight {
	raw := findHighlightArray(analysis)

	highlights := make([]models.Highlight, 0, len(raw))
	for i, entry := range raw {
		fields, _ := entry.(map[string]interface{})

		h := models.Highlight{
			Title:    stringField(fields, "title"),
			Severity: stringField(fields, "severity"),
			Snippet:  stringField(fields, "snippet"),
			Note:     stringField(fields, "note"),
		}
		if h.Title == "" {
			h.Title = fmt.Sprintf("Highlight %d", i+1)
		}
		if h.Severity == "" {
			// Severity is otherwise passed through unvalidated.
			h.Severity = models.SeverityMedium
		}

		highlights = append(highlights, h)
	}

	return highlights
}

func findHighlightArray(analysis map[string]interface{}) []interface{} {
	for _, key := range highlightKeys {
		if arr, ok := analysis[key].([]interface{}); ok {
			return arr
		}
	}
	return nil
}

func stringField(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
