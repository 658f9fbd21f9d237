package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hybridgate/internal/domain/entity"
	"hybridgate/internal/domain/repository"
)

// QdrantDocumentStore keeps documents as embedded points with their text
// and metadata in the payload. Searches carry a freshness window so stale
// points never surface.
type QdrantDocumentStore struct {
	client         *qdrant.Client
	collectionName string
	embedder       repository.Embedder
	freshness      time.Duration
	logger         *zap.Logger
}

func NewQdrantDocumentStore(client *qdrant.Client, collectionName string, embedder repository.Embedder, freshness time.Duration, logger *zap.Logger) *QdrantDocumentStore {
	if freshness <= 0 {
		freshness = entity.DefaultCacheTTL
	}
	return &QdrantDocumentStore{
		client:         client,
		collectionName: collectionName,
		embedder:       embedder,
		freshness:      freshness,
		logger:         logger,
	}
}

func (s *QdrantDocumentStore) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.NotFound {
			err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: s.collectionName,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     dim,
					Distance: qdrant.Distance_Cosine,
				}),
			})
			if err != nil {
				return fmt.Errorf("failed to create collection: %w", err)
			}
		} else {
			return err
		}
	}

	// Payload index for the freshness range filter on created_at.
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "created_at",
		FieldType:      qdrant.FieldType_FieldTypeInteger.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		// Index may already exist.
		s.logger.Warn("could not create created_at index", zap.Error(err))
	}

	// Keyword index so exact cache_key lookups skip the vector scan.
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "cache_key",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		s.logger.Warn("could not create cache_key index", zap.Error(err))
	}

	return nil
}

// Search embeds the query text and returns up to topK fresh snippets. The
// score threshold applies only to unfiltered searches; exact metadata
// filters already pin the result set, and the embedding similarity of a
// key-addressed document is not meaningful.
func (s *QdrantDocumentStore) Search(ctx context.Context, query string, topK int, threshold float32, filters map[string]string) ([]entity.DocumentSnippet, error) {
	vector, err := s.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var mustConditions []*qdrant.Condition
	for key, value := range filters {
		mustConditions = append(mustConditions, qdrant.NewMatch(key, value))
	}

	cutoff := time.Now().Add(-s.freshness).Unix()
	mustConditions = append(mustConditions, &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key: "created_at",
				Range: &qdrant.Range{
					Gte: qdrant.PtrOf(float64(cutoff)),
				},
			},
		},
	})

	q := &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         &qdrant.Filter{Must: mustConditions},
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(filters) == 0 && threshold > 0 {
		q.ScoreThreshold = &threshold
	}

	res, err := s.client.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	snippets := make([]entity.DocumentSnippet, 0, len(res))
	for _, hit := range res {
		snippet := entity.DocumentSnippet{
			Content:  hit.Payload["content"].GetStringValue(),
			Score:    hit.Score,
			Metadata: make(map[string]string),
		}
		for k, v := range hit.Payload {
			if k == "content" || k == "created_at" {
				continue
			}
			if sv := v.GetStringValue(); sv != "" {
				snippet.Metadata[k] = sv
			}
		}
		snippets = append(snippets, snippet)
	}
	return snippets, nil
}

// Upload embeds the document and upserts it with its metadata.
func (s *QdrantDocumentStore) Upload(ctx context.Context, content string, metadata map[string]string) error {
	vector, err := s.embedder.CreateEmbedding(ctx, content)
	if err != nil {
		return fmt.Errorf("embedding document: %w", err)
	}

	payload := map[string]any{
		"content":    content,
		"created_at": time.Now().Unix(),
	}
	for k, v := range metadata {
		payload[k] = v
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(uuid.NewString()),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}
	return nil
}
