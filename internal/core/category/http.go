// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaonline/internal/platform/request"
	"github.com/taibuivan/mangaonline/internal/platform/respond"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
)

// Handler implements the HTTP layer for categories.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the category endpoints to the /Manga router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/categories", handler.listCategories)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/category", handler.createCategory)
		admin.Delete("/category", handler.deleteCategory)
	})
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", categories)
}

// POST /Manga/category. Form: Name, SubId.
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	subID := 0
	if requestutil.FormValue(request, FieldSubID) != "" {
		var err error
		if subID, err = requestutil.FormInt(request, FieldSubID); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	category := &Category{Name: requestutil.FormValue(request, FieldName), SubID: subID}
	if err := handler.service.CreateCategory(request.Context(), category); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusCreated, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	categoryID, err := requestutil.QueryInt(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteCategory(request.Context(), categoryID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
