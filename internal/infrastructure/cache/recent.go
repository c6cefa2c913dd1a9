package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	recentRunsKey = "sanity:recent_runs"
	// recentRunsMax bounds the list; older entries fall off
	recentRunsMax = 100
)

// RedisRecentCache implements report.RecentCache on a Redis list. Entries
// are pushed newest-first and the list is trimmed on every push.
type RedisRecentCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisRecentCache creates a recent-runs cache and verifies the
// connection.
func NewRedisRecentCache(cfg config.RedisConfig, log *zap.Logger) (*RedisRecentCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to connect to redis: %w", err)
	}
	return &RedisRecentCache{client: client, log: log}, nil
}

// NewRedisRecentCacheWithClient creates a cache around an existing client.
func NewRedisRecentCacheWithClient(client *redis.Client, log *zap.Logger) *RedisRecentCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisRecentCache{client: client, log: log}
}

// Push prepends one run entry and trims the list to its bound.
func (c *RedisRecentCache) Push(ctx context.Context, entry report.RecentRun) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: failed to encode recent run: %w", err)
	}
	pipe := c.client.TxPipeline()
	pipe.LPush(ctx, recentRunsKey, raw)
	pipe.LTrim(ctx, recentRunsKey, 0, recentRunsMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache: failed to push recent run: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. Entries that fail to
// decode are skipped rather than failing the whole listing.
func (c *RedisRecentCache) List(ctx context.Context, limit int) ([]report.RecentRun, error) {
	raws, err := c.client.LRange(ctx, recentRunsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: failed to list recent runs: %w", err)
	}
	entries := make([]report.RecentRun, 0, len(raws))
	for _, raw := range raws {
		var entry report.RecentRun
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			c.log.Warn("Skipping malformed recent-run entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close releases the underlying client.
func (c *RedisRecentCache) Close() error {
	return c.client.Close()
}
