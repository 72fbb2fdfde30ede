// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile data storage.

The API server keeps refresh-token sessions and the cached home catalog here,
both of which expire on their own and can be rebuilt from PostgreSQL. The
listener daemon may mirror its local follow and history lists here instead of
a sqlite file.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// Profile sizes the connection pool for one kind of process.
type Profile struct {
	// Name is sent with CLIENT SETNAME so connections show up in CLIENT LIST.
	Name         string
	PoolSize     int
	MinIdleConns int
}

var (
	// ServerProfile serves concurrent HTTP requests.
	ServerProfile = Profile{Name: "mangaonline-api", PoolSize: 10, MinIdleConns: 2}

	// ListenerProfile serves one reconciler that handles frames one at a time.
	ListenerProfile = Profile{Name: "mangaonline-listener", PoolSize: 2, MinIdleConns: 0}
)

// NewClient parses a Redis URL and returns a client that has answered a ping.
func NewClient(context stdctx.Context, redisURL string, profile Profile, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = profile.Name
	options.PoolSize = profile.PoolSize
	options.MinIdleConns = profile.MinIdleConns
	options.MaxIdleConns = profile.PoolSize / 2

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.String("client_name", profile.Name),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
