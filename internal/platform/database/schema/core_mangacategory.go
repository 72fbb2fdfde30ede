// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreMangaCategoryTable represents the 'core.mangacategory' table
type CoreMangaCategoryTable struct {
	Table      string
	MangaID    string
	CategoryID string
}

// CoreMangaCategory is the schema definition for core.mangacategory
var CoreMangaCategory = CoreMangaCategoryTable{
	Table:      "core.mangacategory",
	MangaID:    "mangaid",
	CategoryID: "categoryid",
}

// Columns returns all column names in declaration order.
func (t CoreMangaCategoryTable) Columns() []string {
	return []string{t.MangaID, t.CategoryID}
}
