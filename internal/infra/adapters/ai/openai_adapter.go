package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
)

// OpenAIAdapter implements brief planning and document generation on the
// OpenAI chat completions API.
type OpenAIAdapter struct {
	client       openai.Client
	model        string
	maxOutTokens int
	promptBudget int
}

var _ adapter.GeneratorAdapter = (*OpenAIAdapter)(nil)

func NewOpenAIAdapter(apiKey, model string, maxOutTokens, promptBudget int) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		client:       openai.NewClient(option.WithAPIKey(apiKey)),
		model:        model,
		maxOutTokens: maxOutTokens,
		promptBudget: promptBudget,
	}, nil
}

func (o *OpenAIAdapter) PlanBriefs(ctx context.Context, content *model.ContentModel, n int) ([]string, error) {
	text, err := o.complete(ctx, briefSystemPrompt, buildBriefPrompt(content, n, o.promptBudget))
	if err != nil {
		return nil, err
	}
	return parseBriefs(text)
}

func (o *OpenAIAdapter) GenerateDocument(ctx context.Context, content *model.ContentModel, brief string) (string, error) {
	return o.complete(ctx, documentSystemPrompt, buildDocumentPrompt(content, brief, o.promptBudget))
}

func (o *OpenAIAdapter) complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	}
	if o.maxOutTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxOutTokens))
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
