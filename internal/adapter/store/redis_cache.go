package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
)

// RedisCache is the key-value response cache backend. Expiry is delegated
// to Redis through per-key TTLs, so reads never see stale entries.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = entity.DefaultCacheTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *RedisCache) Lookup(ctx context.Context, query, queryContext string) *entity.CacheEntry {
	key := entity.CacheKey(query, queryContext)

	raw, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		r.logger.Warn("cache lookup failed", zap.String("cache_key", key), zap.Error(err))
		return nil
	}

	var entry entity.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		r.logger.Warn("malformed cache entry", zap.String("cache_key", key), zap.Error(err))
		return nil
	}
	if entry.CacheKey != key || entry.Expired(time.Now()) {
		return nil
	}
	return &entry
}

func (r *RedisCache) Store(ctx context.Context, query string, resp *entity.ExternalResponse, queryContext string) bool {
	if resp == nil || !resp.Success {
		return false
	}

	entry := entity.NewCacheEntry(query, queryContext, resp, r.ttl, time.Now())
	payload, err := json.Marshal(entry)
	if err != nil {
		r.logger.Warn("cache entry encoding failed", zap.String("cache_key", entry.CacheKey), zap.Error(err))
		return false
	}

	if err := r.client.Set(ctx, entry.CacheKey, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("cache store failed", zap.String("cache_key", entry.CacheKey), zap.Error(err))
		return false
	}
	return true
}

func (r *RedisCache) Statistics(ctx context.Context) (*entity.CacheStatistics, error) {
	stats := &entity.CacheStatistics{Sources: make(map[string]int)}
	now := time.Now()

	iter := r.client.Scan(ctx, 0, entity.CacheKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue // key expired between scan and get
		}
		stats.TotalEntries++

		var entry entity.CacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
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
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *RedisCache) Backend() string {
	return "redis"
}
