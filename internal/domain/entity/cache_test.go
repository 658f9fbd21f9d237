package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("Wie starte ich nginx neu?", "server context")
	b := CacheKey("Wie starte ich nginx neu?", "server context")
	assert.Equal(t, a, b)
}

func TestCacheKeyNormalizesInput(t *testing.T) {
	a := CacheKey("Wie starte ich nginx neu?", "Ctx")
	b := CacheKey("  wie STARTE ich   nginx neu?  ", "ctx")
	assert.Equal(t, a, b)
}

func TestCacheKeyShape(t *testing.T) {
	key := CacheKey("query", "")
	assert.True(t, strings.HasPrefix(key, CacheKeyPrefix))
	assert.Len(t, key, len(CacheKeyPrefix)+16)
}

func TestCacheKeyDistinguishesContext(t *testing.T) {
	assert.NotEqual(t, CacheKey("query", "a"), CacheKey("query", "b"))
	assert.NotEqual(t, CacheKey("query a", ""), CacheKey("query b", ""))
}

func TestCacheEntryExpiry(t *testing.T) {
	now := time.Now()
	entry := &CacheEntry{CreatedAt: now, TTL: time.Hour}

	assert.False(t, entry.Expired(now))
	assert.False(t, entry.Expired(now.Add(59*time.Minute)))
	assert.True(t, entry.Expired(now.Add(61*time.Minute)))
}

func TestCacheEntryToResponse(t *testing.T) {
	resp := &ExternalResponse{
		Success:        true,
		Response:       "answer",
		Source:         "grok",
		Confidence:     0.8,
		ProcessingTime: 1.5,
	}
	entry := NewCacheEntry("query", "ctx", resp, time.Hour, time.Now())
	require.Equal(t, CacheKey("query", "ctx"), entry.CacheKey)

	out := entry.ToResponse()
	assert.True(t, out.Cached)
	assert.Equal(t, resp.Response, out.Response)
	assert.Equal(t, resp.Source, out.Source)
	assert.Equal(t, resp.Confidence, out.Confidence)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 1.0, Clamp01(1.7))
	assert.Equal(t, 0.5, Clamp01(0.5))
}

func TestThresholdsClamped(t *testing.T) {
	th := ConfidenceThresholds{Escalation: 1.5, High: -0.1, Medium: 0.6, Low: 0.3}.Clamped()
	assert.Equal(t, 1.0, th.Escalation)
	assert.Equal(t, 0.0, th.High)
	assert.Equal(t, 0.6, th.Medium)
}
