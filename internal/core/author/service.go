// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/mangaonline/internal/platform/validate"
)

// Service exposes author lookups and the find-or-create used by manga writes.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs an author [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListAuthors returns every author ordered by name.
func (service *Service) ListAuthors(context context.Context) ([]*Author, error) {
	return service.repo.List(context, 0)
}

// SearchOptions returns the first authors by name for the search form.
func (service *Service) SearchOptions(context context.Context) ([]*Author, error) {
	return service.repo.List(context, SearchOptionLimit)
}

func (service *Service) GetAuthor(context context.Context, id int) (*Author, error) {
	return service.repo.FindByID(context, id)
}

/*
EnsureAuthor returns the author called name, creating it on first use.

Returns:
  - *Author: The existing or newly created author
  - error: Validation or persistence failures
*/
func (service *Service) EnsureAuthor(context context.Context, name string) (*Author, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	author, err := service.repo.Ensure(context, name)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "author_ensured",
		slog.Int("author_id", author.ID),
		slog.String("name", author.Name),
	)
	return author, nil
}

func (service *Service) DeleteAuthor(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "author_deleted", slog.Int("author_id", id))
	return nil
}
