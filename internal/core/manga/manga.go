// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package manga is the catalog: series metadata, discovery queries and the home
page sections.

Chapters live in package chapter; this package only reads their summaries to
hydrate a manga's detail view.
*/
package manga

import (
	"strings"
	"time"

	"github.com/taibuivan/mangaonline/internal/core/author"
	"github.com/taibuivan/mangaonline/internal/core/category"
	"github.com/taibuivan/mangaonline/internal/platform/apperr"
)

// # Domain Enums

// Status is the publication state of a series.
type Status int

const (
	StatusDone         Status = 0
	StatusUpdating     Status = 1
	StatusStopUpdating Status = 2
)

// Valid reports whether s is a known [Status].
func (s Status) Valid() bool {
	return s >= StatusDone && s <= StatusStopUpdating
}

// Label returns the display label shown on the search form.
func (s Status) Label() string {
	switch s {
	case StatusDone:
		return "Hoàn thành"
	case StatusUpdating:
		return "Đang cập nhật"
	case StatusStopUpdating:
		return "Dừng cập nhật"
	}
	return ""
}

// Statuses lists every status in display order.
var Statuses = []Status{StatusDone, StatusUpdating, StatusStopUpdating}

// # Domain Entities

// Manga is a series in the catalog.
type Manga struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	AuthorID     *int                 `json:"authorId"`
	AuthorName   string               `json:"authorName"`
	Description  string               `json:"description"`
	Status       Status               `json:"status"`
	IsActive     bool                 `json:"isActive"`
	ViewCount    int64                `json:"viewCount"`
	FollowCount  int64                `json:"followCount"`
	Star         float64              `json:"star"`
	RateCount    int                  `json:"rateCount"`
	Image        string               `json:"image"`
	CreatedAt    time.Time            `json:"createdAt"`
	ModifiedAt   time.Time            `json:"modifiedAt"`
	Categories   []*category.Category `json:"categories"`
	ChapterCount int                  `json:"chapterCount"`

	// Chapters is filled only on the detail view. The JSON key is the one
	// existing clients read.
	Chapters []ChapterSummary `json:"chapteres,omitempty"`
}

// ChapterSummary is the slice of a chapter shown on a manga's detail page.
type ChapterSummary struct {
	ID            string    `json:"id"`
	ChapterNumber int       `json:"chapterNumber"`
	Name          string    `json:"name"`
	Status        int       `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Draft carries the fields of a new manga.
type Draft struct {
	Name        string
	AuthorName  string
	Description string
	ReleaseYear int
	IsActive    bool
	Status      Status
	Image       string
	CategoryIDs []int
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string
	AuthorName  *string
	Description *string
	ReleaseYear *int
	IsActive    *bool
	Status      *Status
	Image       *string

	// CategoryIDs replaces the links when non-nil.
	CategoryIDs []int

	// Slug follows Name and is set by the service.
	Slug *string
}

// # Discovery

// Sort keys accepted by search. Ordering is always descending.
const (
	SortModifiedAt  = "modifiedat"
	SortViewCount   = "viewcount"
	SortFollowCount = "followcount"
	SortStar        = "star"
	SortCreatedAt   = "createdat"
)

// AllCategories is the category value meaning "no category filter".
const AllCategories = "Tất cả"

// IsAllCategories reports whether name disables the category filter.
func IsAllCategories(name string) bool {
	return name == AllCategories || strings.EqualFold(name, "all")
}

// Filter holds the public search criteria. Zero values disable a criterion.
type Filter struct {
	Query        string `json:"query,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	Status       *int   `json:"status,omitempty"`
	Rating       *int   `json:"rating,omitempty"`
	AuthorName   string `json:"authorName,omitempty"`
	SortBy       string `json:"sortBy"`
}

// Visibility filters the admin list by activity flag.
type Visibility int

const (
	VisibilityAll Visibility = iota
	VisibilityActive
	VisibilityHidden
)

// AdminFilter holds the criteria of the admin list, which includes hidden manga.
type AdminFilter struct {
	Genre      string
	Status     *Status
	Visibility Visibility
	SortBy     string
}

// Option is a value/label pair on the search form.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// SearchOptions is everything the search form needs in one payload.
type SearchOptions struct {
	Categories    []*category.Category `json:"categories"`
	Authors       []*author.Author     `json:"authors"`
	StatusOptions []Option             `json:"statusOptions"`
	SortOptions   []Option             `json:"sortOptions"`
	RatingOptions []Option             `json:"ratingOptions"`
}

// # Home Page

// Home page section sizes.
const (
	TopMonthSize      = 8
	TopMonthMinimum   = 4
	NewUpdateSize     = 12
	NewDoneSize       = 12
	TopViewSize       = 6
	AdminListPageSize = 6
)

// Home groups the home page sections.
type Home struct {
	TopMonth  []*Manga `json:"topMonth"`
	NewUpdate []*Manga `json:"newUpdate"`
	NewDone   []*Manga `json:"newDone"`
	TopView   []*Manga `json:"topView"`
}

// Ranking describes one ordered slice of active manga.
type Ranking struct {
	OrderBy       string
	Limit         int
	ModifiedSince *time.Time
	Status        *Status
}

// # Field Names & Errors

const (
	FieldID          = "id"
	FieldMangaID     = "mangaId"
	FieldName        = "Name"
	FieldAuthorName  = "AuthorName"
	FieldDescription = "Description"
	FieldCreatedAt   = "CreatedAt"
	FieldIsActive    = "IsActive"
	FieldStatus      = "Status"
	FieldImage       = "Image"
	FieldCategories  = "CategoriesId"
)

// ErrMangaNotFound is returned when no manga matches the id.
var ErrMangaNotFound = apperr.NotFound("Manga")
