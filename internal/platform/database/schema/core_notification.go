// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreNotificationTable represents the 'core.notification' table
type CoreNotificationTable struct {
	Table     string
	ID        string
	ChapterID string
	UserID    string
	Content   string
	IsRead    string
	CreatedAt string
}

// CoreNotification is the schema definition for core.notification
var CoreNotification = CoreNotificationTable{
	Table:     "core.notification",
	ID:        "id",
	ChapterID: "chapterid",
	UserID:    "userid",
	Content:   "content",
	IsRead:    "isread",
	CreatedAt: "createdat",
}

// Columns returns all column names in declaration order.
func (t CoreNotificationTable) Columns() []string {
	return []string{t.ID, t.ChapterID, t.UserID, t.Content, t.IsRead, t.CreatedAt}
}
