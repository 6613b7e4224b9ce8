package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var multiSpace = regexp.MustCompile(` {2,}`)

// ExtractPDF pulls the text layer out of a PDF page by page. Text runs
// sharing a vertical coordinate belong to the same visual line and are
// joined with a space; a coordinate change starts a new line. This only
// approximates the original layout, which is fine for analysis input.
func ExtractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: PDF: %v", ErrParseFailure, err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText := renderPage(page)
		if pageText == "" {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return strings.TrimSpace(textBuilder.String()), nil
}

func renderPage(page pdf.Page) string {
	content := page.Content()

	var b strings.Builder
	var lastY float64
	first := true

	for _, run := range content.Text {
		if first {
			first = false
		} else if run.Y != lastY {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
		lastY = run.Y
		b.WriteString(run.S)
	}

	return multiSpace.ReplaceAllString(b.String(), " ")
}
