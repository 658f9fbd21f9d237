package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestEmbeddingValues(t *testing.T) {
	vals, err := embeddingValues(&genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{
			{Values: []float32{0.1, 0.2, 0.3}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vals)
}

func TestEmbeddingValuesEmptyResponse(t *testing.T) {
	_, err := embeddingValues(nil)
	assert.Error(t, err)

	_, err = embeddingValues(&genai.EmbedContentResponse{})
	assert.Error(t, err)

	_, err = embeddingValues(&genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{}},
	})
	assert.Error(t, err)
}
