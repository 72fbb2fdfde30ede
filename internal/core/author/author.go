// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package author manages the writers credited on manga.
package author

import (
	"time"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
)

// Author is the creator credited on a manga. Names are unique case-insensitively.
type Author struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Field names for validation.
const (
	FieldName = "name"
	FieldID   = "id"
)

// SearchOptionLimit caps the authors offered on the search form.
const SearchOptionLimit = 50

// ErrAuthorNotFound is returned when no author matches the id.
var ErrAuthorNotFound = apperr.NotFound("Author")
