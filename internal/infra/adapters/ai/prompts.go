package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"webforge/internal/domain/model"
)

const (
	briefSystemPrompt = "You are a senior web designer planning distinct redesigns of an existing page. Answer with JSON only."

	documentSystemPrompt = "You are an expert front-end developer. Produce one complete, self-contained HTML5 document: inline CSS, no external scripts, no commentary. Start with <!DOCTYPE html>."
)

// buildBriefPrompt asks for exactly n design briefs as a JSON object so both
// providers can share one parser.
func buildBriefPrompt(content *model.ContentModel, n, budget int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %d clearly different redesign briefs for the page below. ", n)
	b.WriteString("Each brief is a standalone instruction of 2-4 sentences covering layout, color, typography and tone. ")
	fmt.Fprintf(&b, "Respond with JSON of the shape {\"briefs\": [%d strings]} and nothing else.\n\n", n)
	writePageSummary(&b, content, budget)
	return b.String()
}

func buildDocumentPrompt(content *model.ContentModel, brief string, budget int) string {
	var b strings.Builder
	b.WriteString("Rebuild the page below as a single HTML document following this brief:\n")
	b.WriteString(brief)
	b.WriteString("\n\n")
	writePageSummary(&b, content, budget)
	if len(content.ProcessedImages) > 0 {
		b.WriteString("\nUse these hosted images where they fit:\n")
		for _, img := range content.ProcessedImages {
			fmt.Fprintf(&b, "- %s (alt: %s)\n", img.URL, img.Alt)
		}
	}
	return b.String()
}

func writePageSummary(b *strings.Builder, content *model.ContentModel, budget int) {
	fmt.Fprintf(b, "Title: %s\n", content.Title)
	if content.MetaDescription != "" {
		fmt.Fprintf(b, "Description: %s\n", content.MetaDescription)
	}
	fmt.Fprintf(b, "Page text:\n%s\n", truncateTokens(content.ExtractedText, budget))
}

// truncateTokens trims text to a token budget using the cl100k_base encoding.
// When the encoding cannot be loaded it falls back to a character estimate of
// four characters per token.
func truncateTokens(text string, budget int) string {
	if budget <= 0 {
		return text
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return cutAtRuneStart(text, budget*4)
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return enc.Decode(tokens[:budget])
}

// cutAtRuneStart truncates to at most max bytes without splitting a rune.
func cutAtRuneStart(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

type briefEnvelope struct {
	Briefs []string `json:"briefs"`
}

// parseBriefs accepts the {"briefs": [...]} envelope, a bare JSON array, or
// either of those wrapped in a markdown code fence.
func parseBriefs(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return nil, errors.New("empty planning response")
	}

	var env briefEnvelope
	if err := json.Unmarshal([]byte(s), &env); err == nil && len(env.Briefs) > 0 {
		return env.Briefs, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err == nil && len(list) > 0 {
		return list, nil
	}
	return nil, fmt.Errorf("planning response is not a brief list: %.120s", s)
}
