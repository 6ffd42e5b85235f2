package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"trip-pantry/internal/infrastructure/config"
	"trip-pantry/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache is the redis-backed snapshot cache driver, for deployments with
// more than one instance sharing the grocery backend.
type RedisCache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(cfg *config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	common.LogInfo("snapshot cache initialized",
		zap.String("driver", "redis"),
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.TTL),
	)

	return &RedisCache{
		client: client,
		config: cfg,
	}, nil
}

// Get returns the cached snapshot for a trip, if present.
func (s *RedisCache) Get(ctx context.Context, tripID string) ([]common.GroceryItem, bool) {
	data, err := s.client.Get(ctx, s.key(tripID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("failed to read snapshot cache",
				zap.Error(err),
				zap.String("trip_id", tripID),
			)
		}
		common.LogCacheMiss("redis", tripID)
		return nil, false
	}

	var items []common.GroceryItem
	if err := json.Unmarshal(data, &items); err != nil {
		common.LogWarn("failed to unmarshal snapshot cache entry",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
		return nil, false
	}

	common.LogCacheHit("redis", tripID)
	return items, true
}

// Set stores a snapshot for a trip with the configured TTL.
func (s *RedisCache) Set(ctx context.Context, tripID string, items []common.GroceryItem) {
	data, err := json.Marshal(items)
	if err != nil {
		common.LogWarn("failed to marshal snapshot cache entry",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
		return
	}

	if err := s.client.Set(ctx, s.key(tripID), data, s.config.TTL).Err(); err != nil {
		common.LogWarn("failed to write snapshot cache",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
	}
}

// Invalidate drops a trip's snapshot.
func (s *RedisCache) Invalidate(ctx context.Context, tripID string) {
	if err := s.client.Del(ctx, s.key(tripID)).Err(); err != nil {
		common.LogWarn("failed to invalidate snapshot cache",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
	}
}

// Close releases the redis connection.
func (s *RedisCache) Close() error {
	return s.client.Close()
}

func (s *RedisCache) key(tripID string) string {
	return fmt.Sprintf("grocery:snapshot:%s", tripID)
}
