// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command listener keeps a websocket session with the notification hub and
// turns chapter events into badges for the manga a user follows or reads.
//
// # Startup Sequence
//
//  1. Load configuration and initialize the logger.
//  2. Open the local store (Redis mirror, sqlite file or memory).
//  3. Seed follow and history sets from the API when a user token is set.
//  4. Run the hub connection until SIGINT or SIGTERM. SIGUSR1 clears the
//     unread follow counter.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/mangaonline/internal/listener"
	"github.com/taibuivan/mangaonline/internal/notify"
	"github.com/taibuivan/mangaonline/internal/platform/config"
	redisstore "github.com/taibuivan/mangaonline/internal/platform/redis"
)

func main() {
	cfg, err := config.LoadListener()
	if err != nil {
		slog.Error("startup_failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "mangaonline-listener"))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("startup_failure", slog.String("context", "open local store"), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Error("local_store_close_failed", slog.Any("error", cerr))
		}
	}()

	reconciler := listener.NewReconciler(store, listener.LogBadges{Logger: log}, log)

	// Seeding is best effort: the listener still reacts to events with stale sets.
	if cfg.UserToken != "" {
		if err := listener.NewSeeder(cfg.APIBaseURL, cfg.UserToken).Seed(ctx, reconciler); err != nil {
			log.Warn("local_store_seed_failed", slog.Any("error", err))
		} else {
			log.Info("local_store_seeded")
		}
	}

	acknowledge := make(chan os.Signal, 1)
	signal.Notify(acknowledge, syscall.SIGUSR1)
	defer signal.Stop(acknowledge)
	go reconciler.AcknowledgeOn(ctx, acknowledge)

	onDeleted := func(data notify.ChapterDeletedData) {
		log.Info("chapter_removed",
			slog.String("manga_id", data.MangaID),
			slog.Int("chapter_number", data.ChapterNumber),
			slog.String("message", data.Message),
		)
	}
	session := listener.New(reconciler, onDeleted, log)

	options := []listener.Option{
		listener.WithStateObserver(func(state listener.State) {
			log.Info("hub_connection_state", slog.String("state", state.String()))
		}),
	}
	if cfg.UserToken != "" {
		options = append(options, listener.WithToken(cfg.UserToken))
	}

	connection := listener.NewConnection(cfg.HubURL, session.HandleFrame, log, options...)
	if err := connection.Run(ctx); err != nil {
		log.Error("hub_connection_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("listener_stopped")
}

// openStore picks the Redis mirror first, then the sqlite file, then memory.
func openStore(ctx context.Context, cfg *config.ListenerConfig, log *slog.Logger) (listener.LocalStore, error) {
	switch {
	case cfg.RedisURL != "":
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, redisstore.ListenerProfile, log)
		if err != nil {
			return nil, err
		}
		log.Info("local_store_opened", slog.String("backend", "redis"), slog.String("namespace", cfg.StoreNamespace))
		return &closingStore{LocalStore: listener.NewRedisStore(client, cfg.StoreNamespace), close: client.Close}, nil
	case cfg.LocalStorePath != "":
		store, err := listener.OpenSQLiteStore(cfg.LocalStorePath)
		if err != nil {
			return nil, err
		}
		log.Info("local_store_opened", slog.String("backend", "sqlite"), slog.String("path", cfg.LocalStorePath))
		return store, nil
	default:
		log.Info("local_store_opened", slog.String("backend", "memory"))
		return listener.NewMemoryStore(), nil
	}
}

// closingStore releases the Redis client the store borrowed.
type closingStore struct {
	listener.LocalStore
	close func() error
}

func (store *closingStore) Close() error {
	return store.close()
}
