package analyzer

import (
	"testing"

	"github.com/lexalyze/legal-docs-api/internal/models"
)

func TestNormalizeHighlightsPrecedence(t *testing.T) {
	analysis := map[string]interface{}{
		"highlightedClauses": []interface{}{
			map[string]interface{}{"title": "loser"},
		},
		"highlightedRiskClauses": []interface{}{
			map[string]interface{}{"title": "winner"},
		},
	}

	highlights := NormalizeHighlights(analysis)
	if len(highlights) != 1 {
		t.Fatalf("got %d highlights, want 1", len(highlights))
	}
	if highlights[0].Title != "winner" {
		t.Errorf("highlightedRiskClauses should win over highlightedClauses, got %q", highlights[0].Title)
	}
}

func TestNormalizeHighlightsDefaults(t *testing.T) {
	analysis := map[string]interface{}{
		"highlightedClauses": []interface{}{
			map[string]interface{}{"title": "A"},
		},
	}

	highlights := NormalizeHighlights(analysis)
	if len(highlights) != 1 {
		t.Fatalf("got %d highlights, want 1", len(highlights))
	}

	want := models.Highlight{Title: "A", Severity: "medium", Snippet: "", Note: ""}
	if highlights[0] != want {
		t.Errorf("got %+v, want %+v", highlights[0], want)
	}
}

func TestNormalizeHighlightsTitleFallback(t *testing.T) {
	analysis := map[string]interface{}{
		"highlights": []interface{}{
			map[string]interface{}{"severity": "high", "snippet": "clause text"},
			map[string]interface{}{"title": ""},
		},
	}

	highlights := NormalizeHighlights(analysis)
	if len(highlights) != 2 {
		t.Fatalf("got %d highlights, want 2", len(highlights))
	}
	if highlights[0].Title != "Highlight 1" {
		t.Errorf("got %q, want %q", highlights[0].Title, "Highlight 1")
	}
	if highlights[1].Title != "Highlight 2" {
		t.Errorf("empty title should fall back, got %q", highlights[1].Title)
	}
	if highlights[0].Severity != "high" {
		t.Errorf("got severity %q", highlights[0].Severity)
	}
}

func TestNormalizeHighlightsSeverityPassThrough(t *testing.T) {
	analysis := map[string]interface{}{
		"highlighted_risks": []interface{}{
			map[string]interface{}{"title": "X", "severity": "critical"},
		},
	}

	highlights := NormalizeHighlights(analysis)
	if highlights[0].Severity != "critical" {
		t.Errorf("severity should pass through unvalidated, got %q", highlights[0].Severity)
	}
}

func TestNormalizeHighlightsNoRecognizedKey(t *testing.T) {
	analysis := map[string]interface{}{
		"documentType": "contract",
		"riskClauses":  []interface{}{map[string]interface{}{"title": "ignored"}},
	}

	highlights := NormalizeHighlights(analysis)
	if highlights == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(highlights) != 0 {
		t.Errorf("got %d highlights, want 0", len(highlights))
	}
}

func TestNormalizeHighlightsNonArrayKeySkipped(t *testing.T) {
	// A recognized key whose value is not an array does not win; the
	// scan moves on to the next candidate.
	analysis := map[string]interface{}{
		"highlightedRiskClauses": "not an array",
		"highlights": []interface{}{
			map[string]interface{}{"title": "B"},
		},
	}

	highlights := NormalizeHighlights(analysis)
	if len(highlights) != 1 || highlights[0].Title != "B" {
		t.Errorf("got %+v", highlights)
	}
}

func TestNormalizeHighlightsNonObjectEntry(t *testing.T) {
	analysis := map[string]interface{}{
		"highlights": []interface{}{"just a string"},
	}

	highlights := NormalizeHighlights(analysis)
	if len(highlights) != 1 {
		t.Fatalf("got %d highlights, want 1", len(highlights))
	}
	if highlights[0].Title != "Highlight 1" || highlights[0].Severity != "medium" {
		t.Errorf("got %+v", highlights[0])
	}
}
