// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialRatingTable represents the 'social.rating' table
type SocialRatingTable struct {
	Table     string
	UserID    string
	MangaID   string
	Rate      string
	CreatedAt string
	UpdatedAt string
}

// SocialRating is the schema definition for social.rating
var SocialRating = SocialRatingTable{
	Table:     "social.rating",
	UserID:    "userid",
	MangaID:   "mangaid",
	Rate:      "rate",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all column names in declaration order.
func (t SocialRatingTable) Columns() []string {
	return []string{t.UserID, t.MangaID, t.Rate, t.CreatedAt, t.UpdatedAt}
}
