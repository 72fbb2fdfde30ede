// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/mangaonline/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListCategories returns every category ordered by name.
func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

/*
CreateCategory validates and stores a new category.

Returns:
  - error: Validation errors or ErrDuplicateCategory
*/
func (service *Service) CreateCategory(context context.Context, category *Category) error {
	category.Name = strings.TrimSpace(category.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, 100)
	validator.Custom(FieldSubID, category.SubID < 0, "Cannot be negative")
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, category); err != nil {
		return err
	}

	service.logger.InfoContext(context, "category_created",
		slog.Int("category_id", category.ID),
		slog.String("name", category.Name),
	)
	return nil
}

func (service *Service) DeleteCategory(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "category_deleted", slog.Int("category_id", id))
	return nil
}
