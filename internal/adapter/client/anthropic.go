package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"hybridgate/internal/domain/entity"
)

// AnthropicClient answers escalated queries with the Anthropic Messages
// API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *AnthropicClient) Name() string {
	return "anthropic"
}

func (a *AnthropicClient) Query(ctx context.Context, query, queryContext string) (*entity.ExternalResponse, error) {
	start := time.Now()

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(query, queryContext))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	content := sb.String()
	if content == "" {
		return nil, fmt.Errorf("anthropic returned no text content")
	}

	return &entity.ExternalResponse{
		Success:        true,
		Response:       content,
		Source:         "anthropic",
		Confidence:     estimateConfidence(content),
		ProcessingTime: time.Since(start).Seconds(),
		Metadata: map[string]any{
			"model":       string(msg.Model),
			"tokens_used": msg.Usage.InputTokens + msg.Usage.OutputTokens,
		},
	}, nil
}
