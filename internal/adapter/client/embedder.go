package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Embedder vectorizes text for the document store using the Vertex AI
// embedding models (e.g. "text-embedding-004").
type Embedder struct {
	client *genai.Client
	model  string
}

func NewEmbedder(ctx context.Context, projectID, location, model string) (*Embedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding client: %w", err)
	}
	return &Embedder{client: client, model: model}, nil
}

func NewEmbedderFromClient(c *genai.Client, model string) *Embedder {
	return &Embedder{client: c, model: model}
}

func (e *Embedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	return embeddingValues(res)
}

// embeddingValues extracts the first vector from an embedding response.
// The API contract allows an empty result set; callers get an error, not
// a panic.
func embeddingValues(res *genai.EmbedContentResponse) ([]float32, error) {
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, fmt.Errorf("embedding response contains no vectors")
	}
	if len(res.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embedding response contains an empty vector")
	}
	return res.Embeddings[0].Values, nil
}
