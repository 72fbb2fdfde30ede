// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
structs. Three binaries share the package: the API server ([Load]), the
notification listener daemon ([LoadListener]) and the manager CLI ([LoadManager]).

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for identity signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Asset storage on the local filesystem
	AssetRoot     string `env:"ASSET_ROOT"      envDefault:"./wwwroot"`
	AssetMaxBytes int64  `env:"ASSET_MAX_BYTES" envDefault:"52428800"`

	// Notification hub
	HubClientBuffer int `env:"HUB_CLIENT_BUFFER" envDefault:"256"`
	OutboxBuffer    int `env:"OUTBOX_BUFFER"     envDefault:"256"`

	// HomeCacheTTL bounds how stale the home catalog may be.
	HomeCacheTTL time.Duration `env:"HOME_CACHE_TTL" envDefault:"2m"`

	// AllowedOriginSuffix is the domain suffix accepted by CORS in production.
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"mangaonline.app"`
}

// ListenerConfig holds the settings of the notification listener daemon.
type ListenerConfig struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	// APIBaseURL is used to seed the follow and history sets on startup.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`

	// HubURL is the websocket endpoint of the notification hub.
	HubURL string `env:"HUB_URL" envDefault:"ws://localhost:8080/hubs/notification"`

	// LocalStorePath is the sqlite file backing the local key-value store.
	// An empty value keeps the state in memory.
	LocalStorePath string `env:"LOCAL_STORE_PATH" envDefault:"./listener.db"`

	// RedisURL switches the local store to a shared Redis mirror when set.
	// It takes precedence over LocalStorePath.
	RedisURL string `env:"LISTENER_REDIS_URL"`

	// StoreNamespace scopes the Redis mirror, usually the user id.
	StoreNamespace string `env:"LISTENER_NAMESPACE" envDefault:"default"`

	// UserToken is an optional bearer token used to fetch the user's lists.
	UserToken string `env:"USER_TOKEN"`
}

// ManagerConfig holds the settings of the manager CLI.
type ManagerConfig struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	APIBaseURL     string        `env:"API_BASE_URL"    envDefault:"http://localhost:8080"`
	APIToken       string        `env:"API_TOKEN"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT"  envDefault:"5m"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// LoadListener parses the listener daemon configuration.
func LoadListener() (*ListenerConfig, error) {
	cfg := &ListenerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse listener environment: %w", err)
	}
	return cfg, nil
}

// LoadManager parses the manager CLI configuration.
func LoadManager() (*ManagerConfig, error) {
	cfg := &ManagerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse manager environment: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix returns the domain suffix accepted by the CORS middleware.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
