// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package aggregator

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nvkhoa/tosho/internal/platform/constants"
)

// # Search Cache

// SearchCache fronts external catalog searches with a short-TTL Redis
// cache. All methods are nil-receiver safe so the cache can be omitted
// entirely in tests or degraded deployments; cache errors degrade to a
// miss and never fail the search.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSearchCache wires a cache around the given Redis client.
func NewSearchCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SearchCache {
	return &SearchCache{client: client, ttl: ttl, logger: logger}
}

func searchKey(sourceSlug, query string) string {
	return constants.RedisPrefixSourceSearch + sourceSlug + ":" + query
}

// Get returns cached search hits and whether the lookup was a hit.
func (cache *SearchCache) Get(context context.Context, sourceSlug, query string) ([]ExternalWorkData, bool) {
	if cache == nil || cache.client == nil {
		return nil, false
	}

	payload, err := cache.client.Get(context, searchKey(sourceSlug, query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.WarnContext(context, "search_cache_read_failed", slog.Any("error", err))
		}
		return nil, false
	}

	var hits []ExternalWorkData
	if err := json.Unmarshal(payload, &hits); err != nil {
		cache.logger.WarnContext(context, "search_cache_decode_failed", slog.Any("error", err))
		return nil, false
	}

	return hits, true
}

// Set stores search hits under the source+query key for the configured TTL.
func (cache *SearchCache) Set(context context.Context, sourceSlug, query string, hits []ExternalWorkData) {
	if cache == nil || cache.client == nil {
		return
	}

	payload, err := json.Marshal(hits)
	if err != nil {
		cache.logger.WarnContext(context, "search_cache_encode_failed", slog.Any("error", err))
		return
	}

	if err := cache.client.Set(context, searchKey(sourceSlug, query), payload, cache.ttl).Err(); err != nil {
		cache.logger.WarnContext(context, "search_cache_write_failed", slog.Any("error", err))
	}
}
