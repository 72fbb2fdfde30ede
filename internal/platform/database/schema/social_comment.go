// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table        string
	ID           string
	MangaID      string
	UserID       string
	Content      string
	LikeCount    string
	DislikeCount string
	IsActive     string
	CreatedAt    string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:        "social.comment",
	ID:           "id",
	MangaID:      "mangaid",
	UserID:       "userid",
	Content:      "content",
	LikeCount:    "likecount",
	DislikeCount: "dislikecount",
	IsActive:     "isactive",
	CreatedAt:    "createdat",
}

// Columns returns all column names in declaration order.
func (t SocialCommentTable) Columns() []string {
	return []string{t.ID, t.MangaID, t.UserID, t.Content, t.LikeCount, t.DislikeCount, t.IsActive, t.CreatedAt}
}
