// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import "context"

// Repository is the persistence contract for the catalog.
type Repository interface {
	// # Reads

	// ListActive returns every active manga, most recently modified first.
	ListActive(context context.Context) ([]*Manga, error)

	// Search applies [Filter] to active manga and returns one page plus the total.
	Search(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error)

	// ListAdmin applies [AdminFilter] to every manga, hidden ones included.
	ListAdmin(context context.Context, filter AdminFilter, limit, offset int) ([]*Manga, int, error)

	// Rank returns one ordered slice of active manga for the home page.
	Rank(context context.Context, ranking Ranking) ([]*Manga, error)

	// ListByIDs returns the manga for ids, in the order of ids. Unknown ids are skipped.
	ListByIDs(context context.Context, ids []string) ([]*Manga, error)

	FindByID(context context.Context, id string) (*Manga, error)

	// Chapters returns the active chapters of a manga ordered by number.
	Chapters(context context.Context, mangaID string) ([]ChapterSummary, error)

	// # Writes

	IncrementViews(context context.Context, id string) error
	Create(context context.Context, manga *Manga, categoryIDs []int) error
	Update(context context.Context, id string, patch Patch, authorID *int) error
	Delete(context context.Context, id string) error

	// ToggleActive flips the activity flag and returns the new value.
	ToggleActive(context context.Context, id string) (bool, error)
}
