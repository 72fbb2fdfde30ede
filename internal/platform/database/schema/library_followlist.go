// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryFollowListTable represents the 'library.followlist' table
type LibraryFollowListTable struct {
	Table     string
	UserID    string
	MangaID   string
	CreatedAt string
}

// LibraryFollowList is the schema definition for library.followlist
var LibraryFollowList = LibraryFollowListTable{
	Table:     "library.followlist",
	UserID:    "userid",
	MangaID:   "mangaid",
	CreatedAt: "createdat",
}

// Columns returns all column names in declaration order.
func (t LibraryFollowListTable) Columns() []string {
	return []string{t.UserID, t.MangaID, t.CreatedAt}
}
