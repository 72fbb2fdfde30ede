// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category manages the genre list that manga are filed under.
package category

import "github.com/taibuivan/mangaonline/internal/platform/apperr"

// Category is a genre. SubID groups categories for display.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	SubID int    `json:"subId"`
}

// Field names for validation.
const (
	FieldID    = "id"
	FieldName  = "Name"
	FieldSubID = "SubId"
)

var (
	// ErrCategoryNotFound is returned when no category matches the id.
	ErrCategoryNotFound = apperr.NotFound("Category")

	// ErrDuplicateCategory is returned when the name is already taken.
	ErrDuplicateCategory = apperr.Conflict("Category already exists")
)
