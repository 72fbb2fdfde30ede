// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/mangaonline/internal/asset"
	"github.com/taibuivan/mangaonline/internal/core/author"
	"github.com/taibuivan/mangaonline/internal/core/category"
	"github.com/taibuivan/mangaonline/internal/platform/validate"
	"github.com/taibuivan/mangaonline/pkg/pagination"
	"github.com/taibuivan/mangaonline/pkg/slug"
	"github.com/taibuivan/mangaonline/pkg/uuid"
)

// # Collaborators

// Authors resolves author names on manga writes.
type Authors interface {
	EnsureAuthor(context context.Context, name string) (*author.Author, error)
	SearchOptions(context context.Context) ([]*author.Author, error)
}

// Categories lists the genres offered on the search form.
type Categories interface {
	ListCategories(context context.Context) ([]*category.Category, error)
}

// Covers swaps a manga's cover asset.
type Covers interface {
	Replace(context context.Context, source io.Reader, size int64, originalName string, kind asset.Kind, oldName string) (string, error)
}

// # Service Layer

// Service implements the catalog use cases.
type Service struct {
	repo       Repository
	authors    Authors
	categories Categories
	covers     Covers
	cache      HomeCache
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a catalog [Service]. cache and covers may be nil.
func NewService(repo Repository, authors Authors, categories Categories, covers Covers, cache HomeCache, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		authors:    authors,
		categories: categories,
		covers:     covers,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// # Discovery

// ListAll returns every active manga.
func (service *Service) ListAll(context context.Context) ([]*Manga, error) {
	return service.repo.ListActive(context)
}

/*
Search runs the public catalog search.

Returns:
  - []*Manga: One page of results
  - pagination.Meta: Page metadata computed from the total
  - error: Database failures
*/
func (service *Service) Search(context context.Context, filter Filter, page pagination.Params) ([]*Manga, pagination.Meta, error) {
	if filter.SortBy == "" {
		filter.SortBy = "ModifiedAt"
	}

	mangas, total, err := service.repo.Search(context, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return mangas, pagination.NewMeta(page.Page, page.Limit, total), nil
}

/*
ListAdmin returns one page of the admin list and the last page number.

Description: index is 1-based; 0 means the first page. An index past the last
page yields an empty list rather than an error.
*/
func (service *Service) ListAdmin(context context.Context, filter AdminFilter, index int) ([]*Manga, int, error) {
	if index <= 0 {
		index = 1
	}

	params := pagination.Params{Page: index, Limit: AdminListPageSize}
	mangas, total, err := service.repo.ListAdmin(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	return mangas, pagination.LastPage(AdminListPageSize, total), nil
}

// SearchOptions assembles the dropdown contents of the search form.
func (service *Service) SearchOptions(context context.Context) (*SearchOptions, error) {
	categories, err := service.categories.ListCategories(context)
	if err != nil {
		return nil, err
	}

	authors, err := service.authors.SearchOptions(context)
	if err != nil {
		return nil, err
	}

	options := &SearchOptions{
		Categories:  categories,
		Authors:     authors,
		SortOptions: sortOptions,
	}
	for _, status := range Statuses {
		options.StatusOptions = append(options.StatusOptions, Option{Value: int(status), Label: status.Label()})
	}
	for rate := 1; rate <= 5; rate++ {
		options.RatingOptions = append(options.RatingOptions, Option{Value: rate, Label: strings.Repeat("★", rate)})
	}
	return options, nil
}

/*
Home returns the home page sections, served from cache when warm.

Description: "top this month" ranks by star among manga modified this month;
when that yields TopMonthMinimum or fewer it widens to the whole year. Cache
failures are logged and the page is rebuilt from the store.
*/
func (service *Service) Home(context context.Context) (*Home, error) {
	if service.cache != nil {
		cached, err := service.cache.Get(context)
		if err != nil {
			service.logger.WarnContext(context, "home_cache_read_failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	now := service.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	done := StatusDone

	home := &Home{}
	var err error

	if home.TopMonth, err = service.repo.Rank(context, Ranking{OrderBy: SortStar, Limit: TopMonthSize, ModifiedSince: &monthStart}); err != nil {
		return nil, err
	}
	if len(home.TopMonth) <= TopMonthMinimum {
		if home.TopMonth, err = service.repo.Rank(context, Ranking{OrderBy: SortStar, Limit: TopMonthSize, ModifiedSince: &yearStart}); err != nil {
			return nil, err
		}
	}
	if home.NewUpdate, err = service.repo.Rank(context, Ranking{OrderBy: SortModifiedAt, Limit: NewUpdateSize}); err != nil {
		return nil, err
	}
	if home.NewDone, err = service.repo.Rank(context, Ranking{OrderBy: SortModifiedAt, Limit: NewDoneSize, Status: &done}); err != nil {
		return nil, err
	}
	if home.TopView, err = service.repo.Rank(context, Ranking{OrderBy: SortViewCount, Limit: TopViewSize}); err != nil {
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.Set(context, home); err != nil {
			service.logger.WarnContext(context, "home_cache_write_failed", slog.String("error", err.Error()))
		}
	}
	return home, nil
}

/*
GetManga returns an active manga with its chapters and counts the view.

Description: A failed view increment is logged; the read still succeeds.
*/
func (service *Service) GetManga(context context.Context, id string) (*Manga, error) {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	manga, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !manga.IsActive {
		return nil, ErrMangaNotFound
	}

	if manga.Chapters, err = service.repo.Chapters(context, id); err != nil {
		return nil, err
	}

	if err := service.repo.IncrementViews(context, id); err != nil {
		service.logger.WarnContext(context, "manga_view_increment_failed",
			slog.String("manga_id", id),
			slog.String("error", err.Error()),
		)
	} else {
		manga.ViewCount++
	}
	return manga, nil
}

// # Administration

/*
CreateManga validates a draft, resolves its author and stores it.

Returns:
  - *Manga: The stored manga, re-read with author and categories
  - error: Validation or persistence failures
*/
func (service *Service) CreateManga(context context.Context, draft Draft) (*Manga, error) {
	draft.Name = strings.TrimSpace(draft.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, draft.Name).MaxLen(FieldName, draft.Name, 300)
	validator.Required(FieldAuthorName, draft.AuthorName).MaxLen(FieldAuthorName, draft.AuthorName, 200)
	validator.Custom(FieldStatus, !draft.Status.Valid(), "Must be 0, 1 or 2")
	validator.Range(FieldCreatedAt, draft.ReleaseYear, 1900, service.now().Year()+1)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	credited, err := service.authors.EnsureAuthor(context, draft.AuthorName)
	if err != nil {
		return nil, err
	}

	now := service.now()
	manga := &Manga{
		ID:          uuid.New(),
		Name:        draft.Name,
		Slug:        slug.From(draft.Name),
		AuthorID:    &credited.ID,
		Description: draft.Description,
		Status:      draft.Status,
		IsActive:    draft.IsActive,
		Image:       draft.Image,
		CreatedAt:   releaseDate(draft.ReleaseYear),
		ModifiedAt:  now,
	}

	if err := service.repo.Create(context, manga, draft.CategoryIDs); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "manga_created",
		slog.String("manga_id", manga.ID),
		slog.String("name", manga.Name),
	)
	service.invalidate(context)

	return service.repo.FindByID(context, manga.ID)
}

/*
UpdateManga applies a partial update.

Returns:
  - *Manga: The manga after the update
  - error: ErrMangaNotFound, validation or persistence failures
*/
func (service *Service) UpdateManga(context context.Context, id string, patch Patch) (*Manga, error) {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		validator.Required(FieldName, name).MaxLen(FieldName, name, 300)

		derived := slug.From(name)
		patch.Slug = &derived
	}
	if patch.Status != nil {
		validator.Custom(FieldStatus, !patch.Status.Valid(), "Must be 0, 1 or 2")
	}
	if patch.ReleaseYear != nil {
		validator.Range(FieldCreatedAt, *patch.ReleaseYear, 1900, service.now().Year()+1)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var authorID *int
	if patch.AuthorName != nil && strings.TrimSpace(*patch.AuthorName) != "" {
		credited, err := service.authors.EnsureAuthor(context, *patch.AuthorName)
		if err != nil {
			return nil, err
		}
		authorID = &credited.ID
	}

	if err := service.repo.Update(context, id, patch, authorID); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "manga_updated", slog.String("manga_id", id))
	service.invalidate(context)

	return service.repo.FindByID(context, id)
}

/*
ReplaceCover stores a new cover image and removes the previous one.
*/
func (service *Service) ReplaceCover(context context.Context, id string, source io.Reader, size int64, originalName string) (*Manga, error) {
	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	stored, err := service.covers.Replace(context, source, size, originalName, asset.KindManga, current.Image)
	if err != nil {
		return nil, err
	}

	return service.UpdateManga(context, id, Patch{Image: &stored})
}

// DeleteManga removes a manga and its category links.
func (service *Service) DeleteManga(context context.Context, id string) error {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "manga_deleted", slog.String("manga_id", id))
	service.invalidate(context)
	return nil
}

// ChangeIsActive toggles visibility and returns the new flag.
func (service *Service) ChangeIsActive(context context.Context, id string) (bool, error) {
	validator := &validate.Validator{}
	validator.Required(FieldMangaID, id).UUID(FieldMangaID, id)
	if err := validator.Err(); err != nil {
		return false, err
	}

	active, err := service.repo.ToggleActive(context, id)
	if err != nil {
		return false, err
	}

	service.logger.InfoContext(context, "manga_visibility_changed",
		slog.String("manga_id", id),
		slog.Bool("is_active", active),
	)
	service.invalidate(context)
	return active, nil
}

func (service *Service) invalidate(context context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(context); err != nil {
		service.logger.WarnContext(context, "home_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}
