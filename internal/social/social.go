// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package social holds reader feedback on manga: comments and star ratings.
package social

import (
	"time"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
)

// Comment is a reader's comment as shown under a manga.
type Comment struct {
	ID        string    `json:"id"`
	MangaID   string    `json:"mangaId"`
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	NameUser  string    `json:"nameUser"`
	ImgUser   string    `json:"imgUser"`
	CreatedAt time.Time `json:"-"`
}

// DateLayout renders comment dates as dd/MM/yy.
const DateLayout = "02/01/06"

// RatingSummary is a manga's aggregate after a rating change.
//
// Star is the arithmetic mean of every rating rounded to one decimal.
type RatingSummary struct {
	Star      float64 `json:"star"`
	RateCount int     `json:"rateCount"`
}

const (
	FieldMangaID = "mangaId"
	FieldValue   = "value"
	FieldRate    = "rate"

	// MaxCommentLength bounds a single comment.
	MaxCommentLength = 1000
)

// ErrMangaNotFound is returned when the rated or commented manga does not exist.
var ErrMangaNotFound = apperr.NotFound("Manga")
