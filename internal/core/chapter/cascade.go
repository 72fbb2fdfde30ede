// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "github.com/taibuivan/mangaonline/internal/platform/database/schema"

// Action is what deactivating a chapter does to a dependent relation.
type Action string

const (
	// CascadeDelete removes dependent rows.
	CascadeDelete Action = "cascadeDelete"

	// CascadeDeactivateOnly flips the dependent rows' activity flag.
	CascadeDeactivateOnly Action = "cascadeDeactivateOnly"

	// Ignore leaves dependent rows untouched.
	Ignore Action = "ignore"
)

// Relation describes one table that hangs off a chapter.
type Relation struct {
	Name       string
	Table      string
	ForeignKey string

	// ActiveColumn is required for CascadeDeactivateOnly.
	ActiveColumn string

	Action Action
}

// DeletePolicy lists every relation considered by a chapter soft delete.
//
// Comments and reading history belong to the manga rather than the chapter,
// so they survive.
var DeletePolicy = []Relation{
	{
		Name:       "notifications",
		Table:      schema.CoreNotification.Table,
		ForeignKey: schema.CoreNotification.ChapterID,
		Action:     CascadeDelete,
	},
	{
		Name:       "pages",
		Table:      schema.CorePage.Table,
		ForeignKey: schema.CorePage.ChapterID,
		Action:     CascadeDelete,
	},
	{
		Name:         "comments",
		Table:        schema.SocialComment.Table,
		ForeignKey:   schema.SocialComment.MangaID,
		ActiveColumn: schema.SocialComment.IsActive,
		Action:       Ignore,
	},
	{
		Name:       "readingHistory",
		Table:      schema.LibraryReadingHistory.Table,
		ForeignKey: schema.LibraryReadingHistory.MangaID,
		Action:     Ignore,
	},
}

// Actionable returns the relations that a soft delete must touch.
func Actionable(policy []Relation) []Relation {
	var relations []Relation
	for _, relation := range policy {
		if relation.Action == Ignore {
			continue
		}
		if relation.Action == CascadeDeactivateOnly && relation.ActiveColumn == "" {
			continue
		}
		relations = append(relations, relation)
	}
	return relations
}
