// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaonline/internal/core/manga"
	"github.com/taibuivan/mangaonline/internal/platform/validate"
)

// Catalog hydrates manga ids into catalog entries, preserving order.
type Catalog interface {
	ListByIDs(context context.Context, ids []string) ([]*manga.Manga, error)
}

// Service implements the follow and history use cases.
type Service struct {
	repo    Repository
	catalog Catalog
	logger  *slog.Logger
}

func NewService(repo Repository, catalog Catalog, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, logger: logger}
}

func validMangaID(mangaID string) error {
	validator := &validate.Validator{}
	validator.Required(FieldMangaID, mangaID).UUID(FieldMangaID, mangaID)
	return validator.Err()
}

// # Reading History

// History returns the user's history, newest first.
func (service *Service) History(context context.Context, userID string) ([]*manga.Manga, error) {
	ids, err := service.repo.HistoryIDs(context, userID)
	if err != nil {
		return nil, err
	}
	return service.catalog.ListByIDs(context, ids)
}

func (service *Service) HistoryIDs(context context.Context, userID string) ([]string, error) {
	return service.repo.HistoryIDs(context, userID)
}

/*
RecordVisit puts a manga at the top of the user's history.

Returns:
  - *HistoryEntry: The new entry; Revisit reports whether it replaced one
  - error: ErrMangaNotFound or persistence failures
*/
func (service *Service) RecordVisit(context context.Context, userID, mangaID string) (*HistoryEntry, error) {
	if err := validMangaID(mangaID); err != nil {
		return nil, err
	}

	entry, err := service.repo.RecordVisit(context, userID, mangaID)
	if err != nil {
		return nil, err
	}

	service.logger.DebugContext(context, "reading_history_recorded",
		slog.String("user_id", userID),
		slog.String("manga_id", mangaID),
		slog.Bool("revisit", entry.Revisit),
	)
	return entry, nil
}

// # Follows

// Follows returns the manga the user follows.
func (service *Service) Follows(context context.Context, userID string) ([]*manga.Manga, error) {
	ids, err := service.repo.FollowIDs(context, userID)
	if err != nil {
		return nil, err
	}
	return service.catalog.ListByIDs(context, ids)
}

func (service *Service) FollowIDs(context context.Context, userID string) ([]string, error) {
	return service.repo.FollowIDs(context, userID)
}

/*
Follow subscribes the user to a manga. Following twice is a no-op.

Returns:
  - bool: true when a new follow was created
  - error: ErrMangaNotFound or persistence failures
*/
func (service *Service) Follow(context context.Context, userID, mangaID string) (bool, error) {
	if err := validMangaID(mangaID); err != nil {
		return false, err
	}

	created, err := service.repo.Follow(context, userID, mangaID)
	if err != nil {
		return false, err
	}

	if created {
		service.logger.InfoContext(context, "manga_followed",
			slog.String("user_id", userID),
			slog.String("manga_id", mangaID),
		)
	}
	return created, nil
}

func (service *Service) Unfollow(context context.Context, userID, mangaID string) error {
	if err := validMangaID(mangaID); err != nil {
		return err
	}

	if err := service.repo.Unfollow(context, userID, mangaID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "manga_unfollowed",
		slog.String("user_id", userID),
		slog.String("manga_id", mangaID),
	)
	return nil
}

func (service *Service) IsFollowing(context context.Context, userID, mangaID string) (bool, error) {
	if err := validMangaID(mangaID); err != nil {
		return false, err
	}
	return service.repo.IsFollowing(context, userID, mangaID)
}
