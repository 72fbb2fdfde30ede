// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table         string
	ID            string
	MangaID       string
	ChapterNumber string
	SubID         string
	Name          string
	Status        string
	IsActive      string
	FilePDF       string
	CreatedAt     string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:         "core.chapter",
	ID:            "id",
	MangaID:       "mangaid",
	ChapterNumber: "chapternumber",
	SubID:         "subid",
	Name:          "name",
	Status:        "status",
	IsActive:      "isactive",
	FilePDF:       "filepdf",
	CreatedAt:     "createdat",
}

// Columns returns all column names in declaration order.
func (t CoreChapterTable) Columns() []string {
	return []string{t.ID, t.MangaID, t.ChapterNumber, t.SubID, t.Name, t.Status, t.IsActive, t.FilePDF, t.CreatedAt}
}

// # Chapter Pages

// CorePageTable represents the 'core.page' table. Pages only exist as
// children of a chapter and go away with it.
type CorePageTable struct {
	Table      string
	ID         string
	ChapterID  string
	PageNumber string
	Image      string
}

// CorePage is the schema definition for core.page
var CorePage = CorePageTable{
	Table:      "core.page",
	ID:         "id",
	ChapterID:  "chapterid",
	PageNumber: "pagenumber",
	Image:      "image",
}
