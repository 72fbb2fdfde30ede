// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify fans chapter events out to every connected browser.

Architecture:

  - Outbox: services publish an [Event] after their transaction commits. The
    outbox is a watermill gochannel, so publishing never waits on sockets.
  - Dispatcher: subscribes to the outbox and hands each event to the hub.
  - Hub: owns the connection set and writes one [Frame] per client. Slow
    clients are dropped rather than allowed to stall the fan-out.

Delivery is at-most-once. A client that is not connected when a frame is sent
never sees it.
*/
package notify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies what happened to a chapter.
type Kind string

const (
	KindChapterPublished Kind = "ChapterPublished"
	KindChapterDeleted   Kind = "ChapterDeleted"
)

// Frame names as seen by clients.
const (
	FrameLoadNotification = "LoadNotification"
	FrameChapterDeleted   = "ChapterDeleted"
)

// Event is the ephemeral notification produced by chapter writes.
type Event struct {
	Kind          Kind   `json:"kind"`
	MangaID       string `json:"mangaId"`
	ChapterID     string `json:"chapterId,omitempty"`
	ChapterNumber int    `json:"chapterNumber,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Frame is one server-to-client message on the hub connection.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChapterDeletedData is the payload of a ChapterDeleted frame.
type ChapterDeletedData struct {
	ChapterID     string `json:"chapterId"`
	MangaID       string `json:"mangaId"`
	ChapterNumber int    `json:"chapterNumber"`
	Message       string `json:"message"`
}

// Frame converts the event into the frame clients expect.
//
// A published chapter is announced as LoadNotification carrying only the
// manga id, which is what listeners reconcile against.
func (event Event) Frame() (Frame, error) {
	var (
		name    string
		payload any
	)

	switch event.Kind {
	case KindChapterPublished:
		name, payload = FrameLoadNotification, event.MangaID
	case KindChapterDeleted:
		message := event.Message
		if message == "" {
			message = fmt.Sprintf("Chapter %d has been removed", event.ChapterNumber)
		}
		name, payload = FrameChapterDeleted, ChapterDeletedData{
			ChapterID:     event.ChapterID,
			MangaID:       event.MangaID,
			ChapterNumber: event.ChapterNumber,
			Message:       message,
		}
	default:
		return Frame{}, fmt.Errorf("notify: unknown event kind %q", event.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("notify: failed to encode %s payload: %w", name, err)
	}
	return Frame{Event: name, Data: data}, nil
}

// NormalizeMangaID upper-cases a manga id for set membership checks.
func NormalizeMangaID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
