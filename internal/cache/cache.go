// Copyright 2026 The Mortian Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache is a key-addressed read-through cache over Redis.
//
// Keys are explicit and owned by this package (see keys.go); every
// mutating service call names the keys it invalidates. The cache is
// best effort: an unreachable Redis degrades to postgres reads, it
// never fails a request.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/observability/logger"
)

// Config holds cache configuration
type Config struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache wraps a Redis client. A disabled cache has a nil client and
// every operation is a no-op, so call sites never branch.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache. When disabled, or when the initial ping fails,
// it returns a no-op cache and logs a warning rather than failing
// startup.
func New(ctx context.Context, cfg Config) *Cache {
	if !cfg.Enabled {
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		slog.WarnContext(ctx, "redis unreachable, cache disabled", logger.Error(err))
		return &Cache{}
	}

	return &Cache{client: client, ttl: cfg.TTL}
}

// Enabled reports whether the cache has a live backend
func (c *Cache) Enabled() bool {
	return c.client != nil
}

// Close releases the client
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get loads the value at key into dest. Returns true on a hit. Any
// backend or decode error is treated as a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.DebugContext(ctx, "cache get failed", logger.String("key", key), logger.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		slog.WarnContext(ctx, "cache value undecodable, evicting", logger.String("key", key), logger.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return false
	}

	return true
}

// Set stores value at key with the configured TTL. Best effort.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "cache value unencodable", logger.String("key", key), logger.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.DebugContext(ctx, "cache set failed", logger.String("key", key), logger.Error(err))
	}
}

// Invalidate removes the named keys. Best effort.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.DebugContext(ctx, "cache invalidate failed", logger.Error(err))
	}
}
