// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangaonline/internal/platform/constants"
)

// appendScript pushes ARGV[1] unless the list already holds it. Returns 1 when
// the list changed.
var appendScript = redis.NewScript(`
if redis.call('LPOS', KEYS[1], ARGV[1]) then
	return 0
end
redis.call('RPUSH', KEYS[1], ARGV[1])
return 1
`)

// RedisStore mirrors the lists into Redis so several listener processes of the
// same user share one set of badges.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore scopes every key under the given user namespace.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, prefix: constants.RedisPrefixListener + namespace + ":"}
}

func (store *RedisStore) key(key Key) string {
	return store.prefix + string(key)
}

func (store *RedisStore) Get(context context.Context, key Key) ([]string, error) {
	list, err := store.client.LRange(context, store.key(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_listener_get_failed: %w", err)
	}
	return list, nil
}

func (store *RedisStore) Set(context context.Context, key Key, values []string) error {
	values = dedupe(values)
	_, err := store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, store.key(key))
		if len(values) > 0 {
			items := make([]any, len(values))
			for index, value := range values {
				items[index] = value
			}
			pipe.RPush(context, store.key(key), items...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_listener_set_failed: %w", err)
	}
	return nil
}

func (store *RedisStore) AppendIfAbsent(context context.Context, key Key, value string) ([]string, bool, error) {
	changed, err := appendScript.Run(context, store.client, []string{store.key(key)}, value).Int()
	if err != nil {
		return nil, false, fmt.Errorf("redis_listener_append_failed: %w", err)
	}

	list, err := store.Get(context, key)
	if err != nil {
		return nil, false, err
	}
	return list, changed == 1, nil
}

// Close is a no-op; the client is owned by the caller.
func (store *RedisStore) Close() error { return nil }
