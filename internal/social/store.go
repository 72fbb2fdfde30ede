// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import "context"

// Repository persists comments and ratings.
type Repository interface {
	// Comments returns the active comments of a manga, oldest first.
	Comments(context context.Context, mangaID string) ([]*Comment, error)
	CreateComment(context context.Context, comment *Comment) error

	// RatingOf returns the user's rate for the manga, or nil.
	RatingOf(context context.Context, userID, mangaID string) (*int, error)

	// Rate upserts the user's rate and recomputes the manga's aggregate.
	Rate(context context.Context, userID, mangaID string, rate int) (*RatingSummary, error)
}
