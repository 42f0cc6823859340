package common

import (
	"time"

	"infinite-experiment/skywatch/internal/config"
	"infinite-experiment/skywatch/internal/logging"
)

// NewCache builds the configured cache backend; Redis failures fall back to memory
func NewCache(cfg *config.Config) CacheInterface {
	if cfg.CacheBackend == "redis" {
		client := NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
		redisCache, err := NewRedisCacheService(client)
		if err == nil {
			logging.Info("Using Redis cache", "addr", cfg.RedisAddr())
			return redisCache
		}
		logging.Warn("Redis cache unavailable, falling back to in-memory cache", "error", err)
		_ = client.Close()
	}

	logging.Info("Using in-memory cache")
	return NewCacheService(cfg.PriceCacheTTL, 10*time.Minute)
}
