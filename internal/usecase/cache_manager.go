package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
	"hybridgate/internal/domain/repository"
)

const (
	cacheDocHeader = "External API Cache Entry"
	cacheMarker    = "CACHED_RESPONSE:"

	cacheSearchThreshold = 0.9
	maxCacheScan         = 1000
)

// CacheManager persists external responses as documents in the shared
// document store and serves them back on identical queries. Cache
// operations are best-effort: failures degrade to misses and never
// propagate to the escalation path.
type CacheManager struct {
	store  repository.DocumentStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewCacheManager(store repository.DocumentStore, ttl time.Duration, logger *zap.Logger) *CacheManager {
	if ttl <= 0 {
		ttl = entity.DefaultCacheTTL
	}
	return &CacheManager{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Lookup returns the cached entry for the (query, context) pair, or nil on
// miss, expiry, malformed payload or store failure.
func (m *CacheManager) Lookup(ctx context.Context, query, queryContext string) *entity.CacheEntry {
	key := entity.CacheKey(query, queryContext)

	snippets, err := m.store.Search(ctx, "cache_key:"+key, 1, cacheSearchThreshold, map[string]string{"cache_key": key})
	if err != nil {
		m.logger.Warn("cache lookup failed", zap.String("cache_key", key), zap.Error(err))
		return nil
	}
	if len(snippets) == 0 {
		return nil
	}

	entry, err := parseCacheDocument(snippets[0].Content)
	if err != nil {
		m.logger.Warn("malformed cache entry", zap.String("cache_key", key), zap.Error(err))
		return nil
	}
	if entry.CacheKey != key {
		return nil
	}
	if entry.Expired(m.now()) {
		m.logger.Debug("cache entry expired",
			zap.String("cache_key", key),
			zap.Time("created_at", entry.CreatedAt))
		return nil
	}

	m.logger.Debug("cache hit",
		zap.String("cache_key", key),
		zap.String("source", entry.Source))
	return entry
}

// Store caches a successful external response. Unsuccessful responses are
// never cached. Returns whether the entry was persisted.
func (m *CacheManager) Store(ctx context.Context, query string, resp *entity.ExternalResponse, queryContext string) bool {
	if resp == nil || !resp.Success {
		return false
	}

	entry := entity.NewCacheEntry(query, queryContext, resp, m.ttl, m.now())
	doc, err := renderCacheDocument(entry)
	if err != nil {
		m.logger.Warn("cache entry encoding failed", zap.String("cache_key", entry.CacheKey), zap.Error(err))
		return false
	}

	metadata := map[string]string{
		"source":     "external_api_cache",
		"type":       "cache_entry",
		"cache_key":  entry.CacheKey,
		"query_hash": entity.QueryHash(query),
		"timestamp":  entry.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := m.store.Upload(ctx, doc, metadata); err != nil {
		m.logger.Warn("cache store failed", zap.String("cache_key", entry.CacheKey), zap.Error(err))
		return false
	}

	m.logger.Debug("response cached",
		zap.String("cache_key", entry.CacheKey),
		zap.String("source", entry.Source))
	return true
}

// Statistics scans cache documents and aggregates their state. Malformed
// entries count as expired, keeping total = valid + expired.
func (m *CacheManager) Statistics(ctx context.Context) (*entity.CacheStatistics, error) {
	snippets, err := m.store.Search(ctx, cacheDocHeader, maxCacheScan, 0, map[string]string{"type": "cache_entry"})
	if err != nil {
		return nil, fmt.Errorf("scanning cache entries: %w", err)
	}

	stats := &entity.CacheStatistics{Sources: make(map[string]int)}
	now := m.now()
	for _, s := range snippets {
		stats.TotalEntries++
		entry, err := parseCacheDocument(s.Content)
		if err != nil {
			stats.ExpiredEntries++
			continue
		}
		if entry.Expired(now) {
			stats.ExpiredEntries++
		} else {
			stats.ValidEntries++
		}
		stats.Sources[entry.Source]++
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}
	return stats, nil
}

// Backend names the storage backing this cache.
func (m *CacheManager) Backend() string {
	return "document_store"
}

// renderCacheDocument serializes an entry as a searchable document with a
// human-readable header and a machine-readable trailer line.
func renderCacheDocument(entry *entity.CacheEntry) (string, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(cacheDocHeader + "\n")
	fmt.Fprintf(&b, "Cache-Key: %s\n", entry.CacheKey)
	fmt.Fprintf(&b, "Query: %s\n", entry.Query)
	if entry.Context != "" {
		fmt.Fprintf(&b, "Context: %s\n", entry.Context)
	}
	fmt.Fprintf(&b, "Source: %s\n", entry.Source)
	fmt.Fprintf(&b, "Confidence: %.3f\n", entry.Confidence)
	fmt.Fprintf(&b, "Cached: %s\n", entry.CreatedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n")
	b.WriteString(cacheMarker)
	b.Write(payload)
	return b.String(), nil
}

func parseCacheDocument(content string) (*entity.CacheEntry, error) {
	idx := strings.LastIndex(content, cacheMarker)
	if idx < 0 {
		return nil, fmt.Errorf("cache marker not found")
	}
	raw := strings.TrimSpace(content[idx+len(cacheMarker):])
	var entry entity.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("decoding cache payload: %w", err)
	}
	if entry.CacheKey == "" || entry.CreatedAt.IsZero() {
		return nil, fmt.Errorf("incomplete cache payload")
	}
	return &entry, nil
}
