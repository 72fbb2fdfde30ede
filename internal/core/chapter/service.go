// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/mangaonline/internal/notify"
	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/metrics"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
	"github.com/taibuivan/mangaonline/internal/platform/validate"
	"github.com/taibuivan/mangaonline/pkg/uuid"
)

// CatalogCache is invalidated whenever the set of chapters changes.
type CatalogCache interface {
	Invalidate(context context.Context) error
}

// # Service Layer

// Service orchestrates chapter publication and retirement.
type Service struct {
	repo   Repository
	events notify.Publisher
	cache  CatalogCache
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a [Service]. cache may be nil.
func NewService(repo Repository, events notify.Publisher, cache CatalogCache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// # Publication

/*
AddChapter validates and persists a new chapter, then announces it.

Description: The duplicate lookup runs first for a clear error; the unique
index catches the race between two concurrent publishers. The event is emitted
after commit and its failure never undoes the write.

Parameters:
  - context: context.Context
  - draft: Draft

Returns:
  - *Chapter: The persisted chapter
  - error: ErrInvalidChapterNumber, validation errors, ErrMangaNotFound,
    ErrDuplicateChapterNumber or a persistence failure
*/
func (service *Service) AddChapter(context context.Context, draft Draft) (*Chapter, error) {
	if draft.ChapterNumber <= 0 {
		return nil, ErrInvalidChapterNumber
	}

	validator := &validate.Validator{}
	validator.Required(FieldMangaID, draft.MangaID).UUID(FieldMangaID, draft.MangaID)
	validator.Required(FieldName, draft.Name).MaxLen(FieldName, draft.Name, 300)
	validator.Required(FieldFilePDF, draft.FilePDF).MaxLen(FieldFilePDF, draft.FilePDF, 255)
	validator.Custom(FieldStatus, !draft.Status.Valid(), "Must be 0 (free) or 1 (vip)")
	validator.Custom(FieldSubID, draft.SubID < 0, "Cannot be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	mangaName, err := service.repo.MangaName(context, draft.MangaID)
	if err != nil {
		return nil, err
	}

	// Advisory only: a lookup failure falls through to the index.
	existing, err := service.repo.FindActiveByNumber(context, draft.MangaID, draft.ChapterNumber)
	switch {
	case err != nil:
		service.logger.WarnContext(context, "chapter_duplicate_check_failed",
			slog.String("manga_id", draft.MangaID),
			slog.Int("chapter_number", draft.ChapterNumber),
			slog.String("error", err.Error()),
		)
	case existing != nil:
		metrics.DuplicateChapterRejectionsTotal.WithLabelValues("precheck").Inc()
		return nil, ErrDuplicateChapterNumber
	}

	chapter := &Chapter{
		ID:            uuid.New(),
		MangaID:       draft.MangaID,
		MangaName:     mangaName,
		ChapterNumber: draft.ChapterNumber,
		SubID:         draft.SubID,
		Name:          draft.Name,
		Status:        draft.Status,
		IsActive:      draft.IsActive,
		FilePDF:       draft.FilePDF,
		CreatedAt:     service.now(),
	}

	if err := service.repo.Create(context, chapter); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			metrics.DuplicateChapterRejectionsTotal.WithLabelValues("constraint").Inc()
			return nil, ErrDuplicateChapterNumber
		}
		return nil, err
	}

	metrics.ChaptersPublishedTotal.Inc()
	service.logger.InfoContext(context, "chapter_published",
		slog.String("chapter_id", chapter.ID),
		slog.String("manga_id", chapter.MangaID),
		slog.Int("chapter_number", chapter.ChapterNumber),
	)

	service.afterWrite(context, notify.Event{
		Kind:          notify.KindChapterPublished,
		MangaID:       chapter.MangaID,
		ChapterID:     chapter.ID,
		ChapterNumber: chapter.ChapterNumber,
	})

	return chapter, nil
}

/*
DeleteChapter soft-deletes a chapter and cleans up its dependents.

Description: Idempotent. Deleting an inactive chapter succeeds again with zero
cleanup counts and no new event.

Returns:
  - *DeleteResult: Snapshot of the chapter and per-relation cleanup counts
  - error: ErrChapterNotFound or a persistence failure
*/
func (service *Service) DeleteChapter(context context.Context, id string) (*DeleteResult, error) {
	validator := &validate.Validator{}
	validator.Required(FieldChapterID, id).UUID(FieldChapterID, id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	chapter, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// The snapshot above is read outside the transaction; only Deactivate knows
	// whether this call retired the chapter.
	cleanup, deactivated, err := service.repo.Deactivate(context, id, DeletePolicy)
	if err != nil {
		return nil, err
	}
	chapter.IsActive = false

	result := &DeleteResult{Chapter: chapter, Cleanup: cleanup, Deactivated: deactivated}
	if !deactivated {
		return result, nil
	}

	metrics.ChaptersDeletedTotal.Inc()
	attrs := []any{
		slog.String("chapter_id", chapter.ID),
		slog.String("manga_id", chapter.MangaID),
	}
	for relation, count := range cleanup {
		attrs = append(attrs, slog.Int64(relation, count))
	}
	service.logger.InfoContext(context, "chapter_deleted", attrs...)

	service.afterWrite(context, notify.Event{
		Kind:          notify.KindChapterDeleted,
		MangaID:       chapter.MangaID,
		ChapterID:     chapter.ID,
		ChapterNumber: chapter.ChapterNumber,
	})

	return result, nil
}

// # Queries

/*
CheckChapterExists reports whether an active chapter holds number in a manga.
*/
func (service *Service) CheckChapterExists(context context.Context, mangaID string, number int) (*ExistsResult, error) {
	validator := &validate.Validator{}
	validator.Required(FieldMangaID, mangaID).UUID(FieldMangaID, mangaID)
	validator.Positive(FieldChapterNumber, number)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repo.FindActiveByNumber(context, mangaID, number)
	if err != nil {
		return nil, err
	}
	return &ExistsResult{Exists: existing != nil, ExistingChapter: existing}, nil
}

/*
GetChapterInfo returns an active chapter with its manga name.
*/
func (service *Service) GetChapterInfo(context context.Context, id string) (*Chapter, error) {
	chapter, err := service.findActive(context, id)
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

/*
GetChapter opens a chapter for reading and counts a view on its manga.

Vip chapters are reported as missing to readers below the vip role.
*/
func (service *Service) GetChapter(context context.Context, id string, role sec.UserRole) (*Chapter, error) {
	chapter, err := service.findActive(context, id)
	if err != nil {
		return nil, err
	}

	if chapter.Status == StatusVip && !role.CanReadVip() {
		return nil, ErrChapterNotFound
	}

	if err := service.repo.IncrementMangaViews(context, chapter.MangaID); err != nil {
		service.logger.WarnContext(context, "manga_view_increment_failed",
			slog.String("manga_id", chapter.MangaID),
			slog.String("error", err.Error()),
		)
	}

	return chapter, nil
}

// # Internal Helpers

func (service *Service) findActive(context context.Context, id string) (*Chapter, error) {
	if err := (&validate.Validator{}).UUID(FieldChapterID, id).Err(); err != nil {
		return nil, ErrChapterNotFound
	}

	chapter, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !chapter.IsActive {
		return nil, ErrChapterNotFound
	}
	return chapter, nil
}

// afterWrite runs the post-commit side effects. Failures are logged only.
func (service *Service) afterWrite(context context.Context, event notify.Event) {
	if service.cache != nil {
		if err := service.cache.Invalidate(context); err != nil {
			service.logger.WarnContext(context, "catalog_cache_invalidate_failed", slog.String("error", err.Error()))
		}
	}

	if service.events == nil {
		return
	}
	if err := service.events.Publish(context, event); err != nil {
		service.logger.ErrorContext(context, "chapter_event_publish_failed",
			slog.String("kind", string(event.Kind)),
			slog.String("manga_id", event.MangaID),
			slog.String("error", err.Error()),
		)
	}
}
