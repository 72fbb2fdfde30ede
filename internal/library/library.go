// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library tracks what each reader follows and what they read last.

Core Responsibility:

  - Follow: A per-user subscription to a manga that drives the follow count
    and the real-time "new chapter" badge.
  - History: The most recently opened manga, newest first. Revisiting moves
    an entry back to the top.

The id lists exposed here seed the notification listener's local sets.
*/
package library

import "github.com/taibuivan/mangaonline/internal/platform/apperr"

// HistoryEntry describes a recorded visit.
type HistoryEntry struct {
	HistoryID int64  `json:"historyId"`
	MangaName string `json:"mangaName"`

	// Revisit is true when the manga was already in the history.
	Revisit bool `json:"-"`
}

const FieldMangaID = "mangaId"

var (
	// ErrMangaNotFound is a validation failure: the caller named a manga that does not exist.
	ErrMangaNotFound = apperr.ValidationError("Manga not found")

	// ErrNotFollowing is returned when unfollowing a manga that is not followed.
	ErrNotFollowing = apperr.NotFound("Follow")
)
