// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "context"

// # Chapter Data Access

// Repository defines the data access contract for chapters.
type Repository interface {

	/*
		MangaName returns the name of an existing manga.

		Returns:
		  - string: Manga name
		  - error: ErrMangaNotFound if missing
	*/
	MangaName(context context.Context, mangaID string) (string, error)

	/*
		FindActiveByNumber returns the active chapter holding number in a manga.

		Returns:
		  - *Chapter: nil when the number is free
		  - error: Storage failures
	*/
	FindActiveByNumber(context context.Context, mangaID string, number int) (*Chapter, error)

	/*
		FindByID returns a chapter regardless of its activity flag, with its manga name.

		Returns:
		  - error: ErrChapterNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Chapter, error)

	/*
		Create inserts a chapter and touches the owning manga in one transaction.

		Returns:
		  - error: ErrDuplicateChapterNumber on a unique violation
	*/
	Create(context context.Context, chapter *Chapter) error

	/*
		Deactivate clears the activity flag and applies the cascade policy in one
		transaction.

		Returns:
		  - map[string]int64: Rows affected per relation name
		  - bool: true only for the call that moved the chapter from active to inactive
		  - error: ErrChapterNotFound if missing
	*/
	Deactivate(context context.Context, id string, policy []Relation) (map[string]int64, bool, error)

	// IncrementMangaViews bumps the owning manga's view counter.
	IncrementMangaViews(context context.Context, mangaID string) error
}
