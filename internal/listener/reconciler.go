// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/taibuivan/mangaonline/internal/notify"
)

// Badges receives the visible effect of a reconciliation.
type Badges interface {
	ShowHistory(mangaID string)
	ShowFollow(mangaID string, unread int)
}

// LogBadges renders badges as log lines. It is what the daemon uses when no
// UI is attached.
type LogBadges struct {
	Logger *slog.Logger
}

func (badges LogBadges) ShowHistory(mangaID string) {
	badges.Logger.Info("badge_history", slog.String("manga_id", mangaID))
}

func (badges LogBadges) ShowFollow(mangaID string, unread int) {
	badges.Logger.Info("badge_follow", slog.String("manga_id", mangaID), slog.Int("unread", unread))
}

// Outcome describes what one reconciliation changed.
type Outcome struct {
	MangaID string
	History bool
	Follow  bool
	// Unread is the size of the notified-follow list after the update.
	Unread int
	// Fresh is false when the id had already been counted.
	Fresh bool
}

// Reconciler matches published manga ids against the persisted sets.
type Reconciler struct {
	store  LocalStore
	badges Badges
	logger *slog.Logger
}

// NewReconciler wires a reconciler. A nil badges sink falls back to [LogBadges].
func NewReconciler(store LocalStore, badges Badges, logger *slog.Logger) *Reconciler {
	if badges == nil {
		badges = LogBadges{Logger: logger}
	}
	return &Reconciler{store: store, badges: badges, logger: logger}
}

/*
Reconcile applies one LoadNotification.

A history hit shows the history badge. A follow hit shows the follow badge,
records the id in the notified list once and reports that list's size as the
unread counter. Replaying the same id changes nothing.
*/
func (reconciler *Reconciler) Reconcile(context context.Context, mangaID string) (Outcome, error) {
	id := notify.NormalizeMangaID(mangaID)
	outcome := Outcome{MangaID: id}
	if id == "" {
		return outcome, nil
	}

	history, err := reconciler.contains(context, KeyHistory, id)
	if err != nil {
		return outcome, err
	}
	if history {
		outcome.History = true
		reconciler.badges.ShowHistory(id)
	}

	follow, err := reconciler.contains(context, KeyFollow, id)
	if err != nil {
		return outcome, err
	}
	if follow {
		notified, fresh, err := reconciler.store.AppendIfAbsent(context, KeyFollowNotified, id)
		if err != nil {
			return outcome, fmt.Errorf("listener: failed to record notification: %w", err)
		}
		outcome.Follow = true
		outcome.Fresh = fresh
		outcome.Unread = len(notified)
		reconciler.badges.ShowFollow(id, outcome.Unread)
	}

	reconciler.logger.Debug("notification_reconciled",
		slog.String("manga_id", id),
		slog.Bool("history", outcome.History),
		slog.Bool("follow", outcome.Follow),
		slog.Int("unread", outcome.Unread),
	)
	return outcome, nil
}

// Seed replaces the follow and history sets, normalising every id.
func (reconciler *Reconciler) Seed(context context.Context, follows, history []string) error {
	if err := reconciler.store.Set(context, KeyFollow, normalize(follows)); err != nil {
		return err
	}
	return reconciler.store.Set(context, KeyHistory, normalize(history))
}

// Acknowledge clears the unread follow notifications.
func (reconciler *Reconciler) Acknowledge(context context.Context) error {
	return reconciler.store.Set(context, KeyFollowNotified, nil)
}

/*
AcknowledgeOn clears the unread follow notifications every time a signal
arrives, until ctx ends or signals closes. A failed clear is logged and the
loop keeps waiting.
*/
func (reconciler *Reconciler) AcknowledgeOn(context context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-context.Done():
			return
		case received, ok := <-signals:
			if !ok {
				return
			}
			if err := reconciler.Acknowledge(context); err != nil {
				reconciler.logger.Error("follow_acknowledge_failed", slog.String("error", err.Error()))
				continue
			}
			reconciler.logger.Info("follow_acknowledged", slog.String("signal", received.String()))
		}
	}
}

func (reconciler *Reconciler) contains(context context.Context, key Key, id string) (bool, error) {
	list, err := reconciler.store.Get(context, key)
	if err != nil {
		return false, fmt.Errorf("listener: failed to read %s: %w", key, err)
	}
	return slices.ContainsFunc(list, func(entry string) bool {
		return notify.NormalizeMangaID(entry) == id
	}), nil
}

func normalize(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = notify.NormalizeMangaID(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
