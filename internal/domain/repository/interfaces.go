package repository

import (
	"context"

	"hybridgate/internal/domain/entity"
)

// DocumentStore is the search-and-upload collaborator the cache manager
// stores its records in. Implementations must treat metadata filters as
// exact-match conditions.
type DocumentStore interface {
	Search(ctx context.Context, query string, topK int, threshold float32, filters map[string]string) ([]entity.DocumentSnippet, error)
	Upload(ctx context.Context, content string, metadata map[string]string) error
}

// ResponseCache maps (query, context) pairs to previously cached external
// responses. Lookup returns nil on miss, expiry or any store failure;
// Store reports success as a bool. Neither surfaces errors to callers.
type ResponseCache interface {
	Lookup(ctx context.Context, query, queryContext string) *entity.CacheEntry
	Store(ctx context.Context, query string, resp *entity.ExternalResponse, queryContext string) bool
	Statistics(ctx context.Context) (*entity.CacheStatistics, error)
	Backend() string
}

// ExternalProvider answers an escalated query. Implementations tag the
// response with their source identifier.
type ExternalProvider interface {
	Name() string
	Query(ctx context.Context, query, queryContext string) (*entity.ExternalResponse, error)
}

// Embedder turns text into a vector for the document store.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ConnectivityProbe reports whether external services are reachable.
type ConnectivityProbe interface {
	Online(ctx context.Context) bool
}
