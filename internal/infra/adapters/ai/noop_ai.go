package ai

import (
	"context"
	"fmt"
	"html"
	"strings"

	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
)

// NoopGenerator produces deterministic placeholder output for local runs
// without provider credentials.
type NoopGenerator struct{}

var _ adapter.GeneratorAdapter = (*NoopGenerator)(nil)

func NewNoopGenerator() *NoopGenerator { return &NoopGenerator{} }

var noopStyles = []string{
	"A minimal single-column layout with generous whitespace, a near-white background, dark slate text and one restrained accent color used for links and buttons.",
	"A bold magazine-style layout with a full-width hero section, large display typography, high-contrast dark background and warm accent tones throughout.",
	"A friendly card-based layout on a soft pastel background with rounded corners, subtle shadows and a cheerful sans-serif typeface across all headings.",
}

func (g *NoopGenerator) PlanBriefs(_ context.Context, _ *model.ContentModel, n int) ([]string, error) {
	briefs := make([]string, n)
	for i := range briefs {
		briefs[i] = noopStyles[i%len(noopStyles)]
	}
	return briefs, nil
}

func (g *NoopGenerator) GenerateDocument(_ context.Context, content *model.ContentModel, brief string) (string, error) {
	text := content.ExtractedText
	if len(text) > 400 {
		text = text[:400]
	}
	var imgs strings.Builder
	for _, img := range content.ProcessedImages {
		fmt.Fprintf(&imgs, `<img src=%q alt=%q>`, img.URL, img.Alt)
		imgs.WriteString("\n")
	}
	doc := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<h1>%s</h1>
<p><em>%s</em></p>
<p>%s</p>
%s</body>
</html>`,
		html.EscapeString(content.Title),
		html.EscapeString(content.Title),
		html.EscapeString(brief),
		html.EscapeString(text),
		imgs.String(),
	)
	return doc, nil
}
