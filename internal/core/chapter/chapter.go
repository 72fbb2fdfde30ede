// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter publishes and retires manga chapters.

Publication validates the chapter, commits it, then hands a ChapterPublished
event to the notification outbox. Deletion is a soft delete driven by an
explicit cascade policy (see [DeletePolicy]) and emits ChapterDeleted.

Uniqueness of (manga, chapter number) among active chapters is enforced by a
partial unique index. The service-level duplicate lookup is only a fast path
for a friendlier error.
*/
package chapter

import (
	"time"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
)

// Status gates who may read a chapter.
type Status int

const (
	StatusFree Status = 0
	StatusVip  Status = 1
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusFree || s == StatusVip
}

// # Domain Entities

// Chapter is a single published installment of a manga.
type Chapter struct {
	ID            string    `json:"id"`
	MangaID       string    `json:"mangaId"`
	MangaName     string    `json:"mangaName,omitempty"`
	ChapterNumber int       `json:"chapterNumber"`
	SubID         int       `json:"subId"`
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
	IsActive      bool      `json:"isActive"`
	FilePDF       string    `json:"filePdf"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Draft carries the caller-supplied fields of a new chapter.
type Draft struct {
	ChapterNumber int
	SubID         int
	MangaID       string
	Name          string
	Status        Status
	IsActive      bool
	FilePDF       string
}

// ExistsResult answers CheckChapterExists.
type ExistsResult struct {
	Exists          bool     `json:"exists"`
	ExistingChapter *Chapter `json:"existingChapter,omitempty"`
}

// DeleteResult is the outcome of a soft delete.
type DeleteResult struct {
	Chapter *Chapter         `json:"deletedChapter"`
	Cleanup map[string]int64 `json:"cleanup"`

	// Deactivated is false when the chapter was already inactive.
	Deactivated bool `json:"-"`
}

// Field names for validation errors.
const (
	FieldChapterNumber = "ChapterNumber"
	FieldSubID         = "SubId"
	FieldMangaID       = "MangaId"
	FieldName          = "Name"
	FieldStatus        = "Status"
	FieldFilePDF       = "FilePDF"
	FieldChapterID     = "chapterId"
)

// # Errors

var (
	ErrInvalidChapterNumber   = apperr.ValidationError("Chapter number must be a positive integer", apperr.FieldError{Field: FieldChapterNumber, Message: "Must be greater than zero"})
	ErrMangaNotFound          = apperr.NotFound("Manga")
	ErrChapterNotFound        = apperr.NotFound("Chapter")
	ErrDuplicateChapterNumber = apperr.Conflict("Chapter number already exists for this manga")
)
