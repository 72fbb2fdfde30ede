// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/mangaonline/internal/platform/validate"
	"github.com/taibuivan/mangaonline/pkg/uuid"
)

// CatalogCache is invalidated when a rating moves a manga's star.
type CatalogCache interface {
	Invalidate(context context.Context) error
}

// Service implements comment and rating use cases.
type Service struct {
	repo   Repository
	cache  CatalogCache
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a social [Service]. cache may be nil.
func NewService(repo Repository, cache CatalogCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

func validMangaID(mangaID string) error {
	validator := &validate.Validator{}
	validator.Required(FieldMangaID, mangaID).UUID(FieldMangaID, mangaID)
	return validator.Err()
}

// # Comments

func (service *Service) Comments(context context.Context, mangaID string) ([]*Comment, error) {
	if err := validMangaID(mangaID); err != nil {
		return nil, err
	}
	return service.repo.Comments(context, mangaID)
}

/*
AddComment posts a comment as userID.

Returns:
  - *Comment: The stored comment with its display date
  - error: Validation errors, ErrMangaNotFound or persistence failures
*/
func (service *Service) AddComment(context context.Context, userID, mangaID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)

	validator := &validate.Validator{}
	validator.Required(FieldMangaID, mangaID).UUID(FieldMangaID, mangaID)
	validator.Required(FieldValue, content).MaxLen(FieldValue, content, MaxCommentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.now()
	comment := &Comment{
		ID:        uuid.New(),
		MangaID:   mangaID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		Date:      now.Format(DateLayout),
	}
	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("manga_id", mangaID),
	)
	return comment, nil
}

// # Ratings

// RatingOf returns the user's current rate for the manga, or nil.
func (service *Service) RatingOf(context context.Context, userID, mangaID string) (*int, error) {
	if err := validMangaID(mangaID); err != nil {
		return nil, err
	}
	return service.repo.RatingOf(context, userID, mangaID)
}

/*
Rate records the user's rate (1..5) and returns the manga's new aggregate.
*/
func (service *Service) Rate(context context.Context, userID, mangaID string, rate int) (*RatingSummary, error) {
	validator := &validate.Validator{}
	validator.Required(FieldMangaID, mangaID).UUID(FieldMangaID, mangaID)
	validator.Range(FieldRate, rate, 1, 5)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	summary, err := service.repo.Rate(context, userID, mangaID, rate)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "manga_rated",
		slog.String("manga_id", mangaID),
		slog.Int("rate", rate),
		slog.Float64("star", summary.Star),
		slog.Int("rate_count", summary.RateCount),
	)

	if service.cache != nil {
		if err := service.cache.Invalidate(context); err != nil {
			service.logger.WarnContext(context, "home_cache_invalidate_failed", slog.String("error", err.Error()))
		}
	}
	return summary, nil
}
