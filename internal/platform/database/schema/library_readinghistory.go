// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryReadingHistoryTable represents the 'library.readinghistory' table
type LibraryReadingHistoryTable struct {
	Table   string
	ID      string
	UserID  string
	MangaID string
}

// LibraryReadingHistory is the schema definition for library.readinghistory
var LibraryReadingHistory = LibraryReadingHistoryTable{
	Table:   "library.readinghistory",
	ID:      "id",
	UserID:  "userid",
	MangaID: "mangaid",
}

// Columns returns all column names in declaration order.
func (t LibraryReadingHistoryTable) Columns() []string {
	return []string{t.ID, t.UserID, t.MangaID}
}
