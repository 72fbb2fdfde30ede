// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import "context"

// Repository persists follows and reading history.
type Repository interface {
	// HistoryIDs returns manga ids newest visit first.
	HistoryIDs(context context.Context, userID string) ([]string, error)

	// RecordVisit removes any previous entry and inserts a fresh one.
	RecordVisit(context context.Context, userID, mangaID string) (*HistoryEntry, error)

	// FollowIDs returns followed manga ids, most recent follow first.
	FollowIDs(context context.Context, userID string) ([]string, error)

	// Follow adds the follow. created is false when it already existed.
	Follow(context context.Context, userID, mangaID string) (created bool, err error)

	// Unfollow removes the follow or returns ErrNotFollowing.
	Unfollow(context context.Context, userID, mangaID string) error

	IsFollowing(context context.Context, userID, mangaID string) (bool, error)
}
