package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
)

// GeminiAdapter implements brief planning and document generation on the
// Gemini API through the official SDK.
type GeminiAdapter struct {
	client       *genai.Client
	model        string
	maxOutTokens int
	promptBudget int
}

var _ adapter.GeneratorAdapter = (*GeminiAdapter)(nil)

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, maxOutTokens, promptBudget int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, maxOutTokens: maxOutTokens, promptBudget: promptBudget}, nil
}

func (g *GeminiAdapter) PlanBriefs(ctx context.Context, content *model.ContentModel, n int) ([]string, error) {
	text, err := g.generate(ctx, briefSystemPrompt, buildBriefPrompt(content, n, g.promptBudget))
	if err != nil {
		return nil, err
	}
	return parseBriefs(text)
}

func (g *GeminiAdapter) GenerateDocument(ctx context.Context, content *model.ContentModel, brief string) (string, error) {
	return g.generate(ctx, documentSystemPrompt, buildDocumentPrompt(content, brief, g.promptBudget))
}

func (g *GeminiAdapter) generate(ctx context.Context, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}
	if g.maxOutTokens > 0 {
		cfg.MaxOutputTokens = int32(g.maxOutTokens)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
