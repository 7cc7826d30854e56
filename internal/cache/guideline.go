// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// guideline.go provides a Valkey-backed cache for guideline detail reads.
// Public slug lookups serve the serialized JSON response straight from
// Valkey, skipping the relational reads and Markdown rendering on a hit.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// guidelineKeyPrefix is the Valkey key prefix for cached guideline reads.
	guidelineKeyPrefix = "guideline:"

	// DefaultGuidelineTTL is how long a cached guideline response lives.
	DefaultGuidelineTTL = 5 * time.Minute
)

// GuidelineCache manages serialized guideline detail responses in Valkey.
// Cache failures degrade to a database read; they never fail the request.
type GuidelineCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuidelineCache creates a guideline cache backed by the given client.
func NewGuidelineCache(client *redis.Client, ttl time.Duration) *GuidelineCache {
	if ttl == 0 {
		ttl = DefaultGuidelineTTL
	}
	return &GuidelineCache{client: client, ttl: ttl}
}

// Get retrieves the cached response for a guideline slug. Returns false on miss.
func (gc *GuidelineCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	val, err := gc.client.Get(ctx, guidelineKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("guideline cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("guideline cache hit", "slug", slug)
	return val, true
}

// Set stores a serialized guideline response with the configured TTL.
func (gc *GuidelineCache) Set(ctx context.Context, slug string, body []byte) {
	if err := gc.client.Set(ctx, guidelineKeyPrefix+slug, body, gc.ttl).Err(); err != nil {
		slog.Warn("guideline cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a single guideline from the cache by its slug.
// Called after updates and single deletes.
func (gc *GuidelineCache) Invalidate(ctx context.Context, slug string) {
	if err := gc.client.Del(ctx, guidelineKeyPrefix+slug).Err(); err != nil {
		slog.Warn("guideline cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("guideline cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached guideline by scanning for the prefix.
// Used after cascading deletes and tag deletes, where any number of cached
// guidelines may be affected.
func (gc *GuidelineCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := gc.client.Scan(ctx, cursor, guidelineKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("guideline cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := gc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("guideline cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("guideline cache fully cleared", "deleted", deleted)
	}
}
