// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manager

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/taibuivan/mangaonline/internal/asset"
	"github.com/taibuivan/mangaonline/internal/core/chapter"
	"github.com/taibuivan/mangaonline/internal/core/manga"
	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/validate"
)

// MaxChapterFileBytes is the largest chapter file the manager will upload.
const MaxChapterFileBytes int64 = 50 * 1024 * 1024

var chapterExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

// API is the part of [Client] the publisher depends on.
type API interface {
	CheckChapterExists(ctx context.Context, mangaID string, number int) (*chapter.ExistsResult, error)
	GetManga(ctx context.Context, mangaID string) (*manga.Manga, error)
	UploadAsset(ctx context.Context, fileName string, content []byte) (string, error)
	AddChapter(ctx context.Context, draft chapter.Draft) (*chapter.Chapter, error)
}

// ChapterDraft is what an operator fills in to publish a chapter.
type ChapterDraft struct {
	MangaID       string
	ChapterNumber int
	Status        chapter.Status
}

// File is a chapter file read from disk.
type File struct {
	Name    string
	Content []byte
}

// Publisher runs the add-chapter flow.
type Publisher struct {
	api    API
	logger *slog.Logger
}

// NewPublisher creates a publisher on top of api.
func NewPublisher(api API, logger *slog.Logger) *Publisher {
	return &Publisher{api: api, logger: logger}
}

/*
Publish validates the draft, rejects a duplicate chapter number, uploads the
file and creates the chapter.

The duplicate check asks CheckChapterExists first and falls back to scanning
the manga's chapter list. If both fail the check is skipped, since the server
rejects duplicates on its own.
*/
func (publisher *Publisher) Publish(ctx context.Context, draft ChapterDraft, file File) (*chapter.Chapter, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	exists, err := publisher.chapterExists(ctx, draft)
	if err != nil {
		publisher.logger.Warn("duplicate_check_skipped",
			slog.String("manga_id", draft.MangaID),
			slog.Int("chapter_number", draft.ChapterNumber),
			slog.String("error", err.Error()),
		)
	}
	if exists {
		return nil, chapter.ErrDuplicateChapterNumber
	}

	if err := validateFile(file); err != nil {
		return nil, err
	}

	storedName, err := publisher.api.UploadAsset(ctx, file.Name, file.Content)
	if err != nil {
		return nil, err
	}

	created, err := publisher.api.AddChapter(ctx, chapter.Draft{
		ChapterNumber: draft.ChapterNumber,
		SubID:         0,
		MangaID:       draft.MangaID,
		Name:          fmt.Sprintf("Chapter %d", draft.ChapterNumber),
		Status:        draft.Status,
		IsActive:      true,
		FilePDF:       storedName,
	})
	if err != nil {
		return nil, err
	}

	publisher.logger.Info("chapter_published",
		slog.String("manga_id", draft.MangaID),
		slog.Int("chapter_number", draft.ChapterNumber),
		slog.String("file", storedName),
	)
	return created, nil
}

func (publisher *Publisher) chapterExists(ctx context.Context, draft ChapterDraft) (bool, error) {
	result, err := publisher.api.CheckChapterExists(ctx, draft.MangaID, draft.ChapterNumber)
	if err == nil {
		return result.Exists, nil
	}

	publisher.logger.Debug("exists_check_fallback", slog.String("error", err.Error()))

	detail, fallbackErr := publisher.api.GetManga(ctx, draft.MangaID)
	if fallbackErr != nil {
		return false, fallbackErr
	}
	return slices.ContainsFunc(detail.Chapters, func(summary manga.ChapterSummary) bool {
		return summary.ChapterNumber == draft.ChapterNumber
	}), nil
}

func validateDraft(draft ChapterDraft) error {
	if draft.ChapterNumber <= 0 {
		return chapter.ErrInvalidChapterNumber
	}
	validator := &validate.Validator{}
	validator.Custom(chapter.FieldStatus, !draft.Status.Valid(), "Must be 0 (Free) or 1 (Vip)")
	validator.Required(chapter.FieldMangaID, draft.MangaID).UUID(chapter.FieldMangaID, draft.MangaID)
	return validator.Err()
}

func validateFile(file File) error {
	if len(file.Content) == 0 {
		return apperr.ValidationError("File not found or empty")
	}
	if int64(len(file.Content)) > MaxChapterFileBytes {
		return apperr.ValidationError("File exceeds limit of 50MB")
	}
	if !slices.Contains(chapterExtensions, asset.Extension(file.Name)) {
		return apperr.ValidationError(fmt.Sprintf("Unsupported file type: %s", asset.Extension(file.Name)))
	}
	return nil
}
