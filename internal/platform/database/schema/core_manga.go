// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreMangaTable represents the 'core.manga' table
type CoreMangaTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	AuthorID    string
	Description string
	Status      string
	IsActive    string
	ViewCount   string
	FollowCount string
	Star        string
	RateCount   string
	Image       string
	CreatedAt   string
	ModifiedAt  string
}

// CoreManga is the schema definition for core.manga
var CoreManga = CoreMangaTable{
	Table:       "core.manga",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	AuthorID:    "authorid",
	Description: "description",
	Status:      "status",
	IsActive:    "isactive",
	ViewCount:   "viewcount",
	FollowCount: "followcount",
	Star:        "star",
	RateCount:   "ratecount",
	Image:       "image",
	CreatedAt:   "createdat",
	ModifiedAt:  "modifiedat",
}

// Columns returns all column names in declaration order.
func (t CoreMangaTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.AuthorID, t.Description, t.Status, t.IsActive, t.ViewCount, t.FollowCount, t.Star, t.RateCount, t.Image, t.CreatedAt, t.ModifiedAt}
}
