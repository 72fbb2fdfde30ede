// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listener is the client side of the notification hub.

A [Connection] keeps a websocket open with exponential backoff. Each frame
goes to a [Listener], which reconciles LoadNotification ids against the
follow and history sets held in a [LocalStore] and raises badges. State is
kept in memory, in a local sqlite file or mirrored in Redis.
*/
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/taibuivan/mangaonline/internal/notify"
)

// DeletedNotice receives ChapterDeleted frames.
type DeletedNotice func(data notify.ChapterDeletedData)

// Listener decodes hub frames and applies them.
type Listener struct {
	reconciler *Reconciler
	onDeleted  DeletedNotice
	logger     *slog.Logger
}

// New creates a listener. onDeleted may be nil.
func New(reconciler *Reconciler, onDeleted DeletedNotice, logger *slog.Logger) *Listener {
	return &Listener{reconciler: reconciler, onDeleted: onDeleted, logger: logger}
}

// HandleFrame satisfies [FrameHandler].
func (listener *Listener) HandleFrame(context context.Context, frame notify.Frame) error {
	switch frame.Event {
	case notify.FrameLoadNotification:
		var mangaID string
		if err := json.Unmarshal(frame.Data, &mangaID); err != nil {
			return fmt.Errorf("listener: invalid %s payload: %w", frame.Event, err)
		}
		_, err := listener.reconciler.Reconcile(context, mangaID)
		return err

	case notify.FrameChapterDeleted:
		var data notify.ChapterDeletedData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return fmt.Errorf("listener: invalid %s payload: %w", frame.Event, err)
		}
		listener.logger.Info("chapter_deleted_notice",
			slog.String("manga_id", data.MangaID),
			slog.String("chapter_id", data.ChapterID),
			slog.Int("chapter_number", data.ChapterNumber),
			slog.String("message", data.Message),
		)
		if listener.onDeleted != nil {
			listener.onDeleted(data)
		}
		return nil

	default:
		listener.logger.Debug("hub_frame_ignored", slog.String("event", frame.Event))
		return nil
	}
}
