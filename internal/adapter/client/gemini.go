package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"hybridgate/internal/domain/entity"
)

// GeminiClient answers escalated queries through Vertex AI.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, projectID, location, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		client: c,
		model:  model,
	}
}

func (g *GeminiClient) Name() string {
	return "gemini"
}

func (g *GeminiClient) Query(ctx context.Context, query, queryContext string) (*entity.ExternalResponse, error) {
	start := time.Now()

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(systemPrompt+"\n\n"+buildPrompt(query, queryContext)), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	content := result.Text()
	if content == "" {
		return nil, fmt.Errorf("gemini returned no text content")
	}

	resp := &entity.ExternalResponse{
		Success:        true,
		Response:       content,
		Source:         "gemini",
		Confidence:     estimateConfidence(content),
		ProcessingTime: time.Since(start).Seconds(),
		Metadata: map[string]any{
			"model": g.model,
		},
	}
	if result.UsageMetadata != nil {
		resp.Metadata["tokens_used"] = result.UsageMetadata.TotalTokenCount
	}
	return resp, nil
}
