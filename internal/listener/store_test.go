// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/listener"
	"github.com/taibuivan/mangaonline/internal/platform/constants"
	"github.com/taibuivan/mangaonline/pkg/uuid"
)

func exerciseStore(t *testing.T, store listener.LocalStore) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.Get(ctx, listener.KeyFollow)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Set(ctx, listener.KeyFollow, []string{"A", "B", "A"}))
	follows, err := store.Get(ctx, listener.KeyFollow)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, follows)

	list, changed, err := store.AppendIfAbsent(ctx, listener.KeyFollowNotified, "A")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"A"}, list)

	list, changed, err = store.AppendIfAbsent(ctx, listener.KeyFollowNotified, "A")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"A"}, list)

	list, changed, err = store.AppendIfAbsent(ctx, listener.KeyFollowNotified, "C")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"A", "C"}, list)

	require.NoError(t, store.Set(ctx, listener.KeyFollowNotified, nil))
	cleared, err := store.Get(ctx, listener.KeyFollowNotified)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, listener.NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	store, err := listener.OpenSQLiteStore(filepath.Join(t.TempDir(), "listener.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

/*
TestRedisStore runs the shared store checks against a live Redis, including the
append script. It needs REDIS_URL and skips without it.
*/
func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	options, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	namespace := "test-" + uuid.New()
	t.Cleanup(func() {
		keys := make([]string, 0, 3)
		for _, key := range []listener.Key{listener.KeyFollow, listener.KeyFollowNotified, listener.KeyHistory} {
			keys = append(keys, constants.RedisPrefixListener+namespace+":"+string(key))
		}
		client.Del(context.Background(), keys...)
	})

	store := listener.NewRedisStore(client, namespace)
	exerciseStore(t, store)

	// Two namespaces never see each other's lists.
	other := listener.NewRedisStore(client, namespace+"-other")
	list, err := other.Get(ctx, listener.KeyFollow)
	require.NoError(t, err)
	assert.Empty(t, list)
}

/*
TestSQLiteStore_SurvivesReopen verifies that the notified list is durable
across daemon restarts.
*/
func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listener.db")
	ctx := context.Background()

	first, err := listener.OpenSQLiteStore(path)
	require.NoError(t, err)
	_, _, err = first.AppendIfAbsent(ctx, listener.KeyFollowNotified, "X")
	require.NoError(t, err)
	_, _, err = first.AppendIfAbsent(ctx, listener.KeyFollowNotified, "Y")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := listener.OpenSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	list, err := second.Get(ctx, listener.KeyFollowNotified)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, list)
}
