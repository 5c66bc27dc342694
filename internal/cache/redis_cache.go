package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}

type redisCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, logger *slog.Logger) CacheService {
	return &redisCache{
		client: client,
		logger: logger,
	}
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Warn("Failed to delete cache key", "key", iter.Val(), "error", err)
		}
	}
	return iter.Err()
}

// AnswerCache is the cache-aside layer for per-item answer sets. The cached
// slice preserves store order so a cache hit evaluates identically to a store
// read.
type AnswerCache struct {
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewAnswerCache(cache CacheService, ttl time.Duration, logger *slog.Logger) *AnswerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{cache: cache, ttl: ttl, logger: logger}
}

func answerKey(itemID uint) string {
	return fmt.Sprintf("answers:item:%d", itemID)
}

func (c *AnswerCache) Get(ctx context.Context, itemID uint) ([]models.Answer, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	var answers []models.Answer
	if err := c.cache.Get(ctx, answerKey(itemID), &answers); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("Answer cache read failed", "item_id", itemID, "error", err)
		}
		return nil, false
	}
	return answers, true
}

func (c *AnswerCache) Put(ctx context.Context, itemID uint, answers []models.Answer) {
	if c == nil || c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, answerKey(itemID), answers, c.ttl); err != nil {
		c.logger.Warn("Answer cache write failed", "item_id", itemID, "error", err)
	}
}

// Invalidate drops the cached answer set after an answer-key edit so status
// lookups immediately see the new key.
func (c *AnswerCache) Invalidate(ctx context.Context, itemID uint) {
	if c == nil || c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, answerKey(itemID)); err != nil {
		c.logger.Warn("Answer cache invalidation failed", "item_id", itemID, "error", err)
	}
}
