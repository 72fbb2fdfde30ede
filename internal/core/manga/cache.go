// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangaonline/internal/platform/constants"
)

// HomeCache stores the assembled home page between catalog writes.
type HomeCache interface {
	// Get returns the cached page; a miss is (nil, nil).
	Get(context context.Context) (*Home, error)
	Set(context context.Context, home *Home) error
	Invalidate(context context.Context) error
}

// RedisHomeCache implements [HomeCache] as one JSON value with a TTL.
type RedisHomeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisHomeCache creates a Redis-backed home cache.
func NewRedisHomeCache(client *redis.Client, ttl time.Duration) *RedisHomeCache {
	return &RedisHomeCache{client: client, ttl: ttl}
}

func (cache *RedisHomeCache) Get(context context.Context) (*Home, error) {
	raw, err := cache.client.Get(context, constants.RedisKeyHomeCatalog).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_home_cache_get_failed: %w", err)
	}

	var home Home
	if err := json.Unmarshal(raw, &home); err != nil {
		return nil, fmt.Errorf("redis_home_cache_decode_failed: %w", err)
	}
	return &home, nil
}

func (cache *RedisHomeCache) Set(context context.Context, home *Home) error {
	raw, err := json.Marshal(home)
	if err != nil {
		return fmt.Errorf("redis_home_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisKeyHomeCatalog, raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_home_cache_set_failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached page. It satisfies the chapter service's cache hook.
func (cache *RedisHomeCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, constants.RedisKeyHomeCatalog).Err(); err != nil {
		return fmt.Errorf("redis_home_cache_del_failed: %w", err)
	}
	return nil
}
