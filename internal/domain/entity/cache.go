package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// CacheKeyPrefix tags every derived cache key.
const CacheKeyPrefix = "ext_cache_"

// DefaultCacheTTL is the age after which a cached response is stale.
const DefaultCacheTTL = 24 * time.Hour

// NormalizeForKey canonicalizes text before key derivation: trimmed,
// lower-cased, inner whitespace collapsed to single spaces.
func NormalizeForKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CacheKey derives the deterministic key for a (query, context) pair.
// Identical inputs after normalization always yield the same key.
func CacheKey(query, queryContext string) string {
	content := NormalizeForKey(query) + "|" + NormalizeForKey(queryContext)
	sum := sha256.Sum256([]byte(content))
	return CacheKeyPrefix + hex.EncodeToString(sum[:])[:16]
}

// QueryHash is a short fingerprint of the raw query, used for cache entry
// metadata.
func QueryHash(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])[:8]
}

// CacheEntry is one cached external response. Entries are created on
// successful external calls, read on lookup and considered expired once
// now-CreatedAt exceeds TTL.
type CacheEntry struct {
	CacheKey       string        `json:"cache_key"`
	Query          string        `json:"query"`
	Context        string        `json:"context,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	TTL            time.Duration `json:"ttl"`
	Success        bool          `json:"success"`
	Response       string        `json:"response"`
	Source         string        `json:"source"`
	Confidence     float64       `json:"confidence"`
	ProcessingTime float64       `json:"processing_time"`
	Error          string        `json:"error,omitempty"`
}

// NewCacheEntry builds an entry from an external response.
func NewCacheEntry(query, queryContext string, resp *ExternalResponse, ttl time.Duration, now time.Time) *CacheEntry {
	return &CacheEntry{
		CacheKey:       CacheKey(query, queryContext),
		Query:          query,
		Context:        queryContext,
		CreatedAt:      now,
		TTL:            ttl,
		Success:        resp.Success,
		Response:       resp.Response,
		Source:         resp.Source,
		Confidence:     resp.Confidence,
		ProcessingTime: resp.ProcessingTime,
		Error:          resp.Error,
	}
}

// Expired reports whether the entry is past its TTL at the given instant.
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > e.TTL
}

// ToResponse reconstructs the external response this entry was built from,
// marked as served from cache.
func (e *CacheEntry) ToResponse() *ExternalResponse {
	return &ExternalResponse{
		Success:        e.Success,
		Response:       e.Response,
		Source:         e.Source,
		Confidence:     e.Confidence,
		ProcessingTime: e.ProcessingTime,
		Cached:         true,
		Error:          e.Error,
	}
}

// CacheStatistics aggregates the state of the cache store. Malformed
// entries are counted as expired, so TotalEntries = ValidEntries +
// ExpiredEntries always holds.
type CacheStatistics struct {
	TotalEntries   int            `json:"total_entries"`
	ValidEntries   int            `json:"valid_entries"`
	ExpiredEntries int            `json:"expired_entries"`
	Sources        map[string]int `json:"sources"`
	OldestEntry    time.Time      `json:"oldest_entry,omitzero"`
	NewestEntry    time.Time      `json:"newest_entry,omitzero"`
}

// DocumentSnippet is one ranked result from the document store.
type DocumentSnippet struct {
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
