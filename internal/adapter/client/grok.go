package client

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"hybridgate/internal/domain/entity"
)

const DefaultGrokBaseURL = "https://api.x.ai/v1"

// GrokClient talks to the xAI API through its OpenAI-compatible surface.
type GrokClient struct {
	client openai.Client
	model  string
}

func NewGrokClient(apiKey, baseURL, model string) *GrokClient {
	if baseURL == "" {
		baseURL = DefaultGrokBaseURL
	}
	return &GrokClient{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model: model,
	}
}

func (g *GrokClient) Name() string {
	return "grok"
}

func (g *GrokClient) Query(ctx context.Context, query, queryContext string) (*entity.ExternalResponse, error) {
	start := time.Now()

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(query, queryContext)),
		},
		MaxCompletionTokens: openai.Int(1024),
	})
	if err != nil {
		return nil, fmt.Errorf("grok request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("grok returned no choices")
	}

	content := completion.Choices[0].Message.Content
	return &entity.ExternalResponse{
		Success:        true,
		Response:       content,
		Source:         "grok",
		Confidence:     estimateConfidence(content),
		ProcessingTime: time.Since(start).Seconds(),
		Metadata: map[string]any{
			"model":       completion.Model,
			"tokens_used": completion.Usage.TotalTokens,
		},
	}, nil
}
