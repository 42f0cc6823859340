package common

import (
	"encoding/json"
	"time"
)

// CacheInterface defines the contract for cache implementations.
// Values are JSON strings so the in-memory and Redis backends behave the same.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value string, duration time.Duration)

	// Get retrieves a value from cache by key
	Get(key string) (string, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(prefix string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetJSON decodes a cached value into dst. A decode failure counts as a miss.
func GetJSON(c CacheInterface, key string, dst any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

// SetJSON encodes and stores value; encode failures are dropped silently
func SetJSON(c CacheInterface, key string, value any, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.Set(key, string(data), duration)
}

// GetOrSetJSON retrieves a value from cache, or loads and stores it if not found.
// The boolean reports a cache hit.
func GetOrSetJSON[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, bool, error) {
	var cached T
	if GetJSON(c, key, &cached) {
		return cached, true, nil
	}

	val, err := loader()
	if err != nil {
		return val, false, err
	}

	SetJSON(c, key, val, duration)
	return val, false, nil
}
