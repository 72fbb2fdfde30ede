// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaonline/internal/asset"
	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaonline/internal/platform/request"
	"github.com/taibuivan/mangaonline/internal/platform/respond"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
	"github.com/taibuivan/mangaonline/internal/platform/validate"
	"github.com/taibuivan/mangaonline/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the catalog endpoints to the /Manga router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/list", handler.listAll)
	router.Get("/search", handler.search)
	router.Get("/search-options", handler.searchOptions)
	router.Get("/HomeManga", handler.home)
	router.Get("/GetManga", handler.getManga)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/listManga", handler.listAdmin)
		admin.Post("/CreateManga", handler.createManga)
		admin.Put("/UpdateManga", handler.updateManga)
		admin.Delete("/DeleteManga", handler.deleteManga)
		admin.Put("/ChangeIsActive", handler.changeIsActive)
	})
}

// # Discovery Endpoints

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	mangas, err := handler.service.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", mangas)
}

/*
GET /Manga/search?query&categoryName&status&rating&authorName&sortBy&page&pageSize.
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	status, err := requestutil.QueryOptionalInt(request, "status")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	rating, err := requestutil.QueryOptionalInt(request, "rating")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Query:        requestutil.Query(request, "query"),
		CategoryName: requestutil.Query(request, "categoryName"),
		Status:       status,
		Rating:       rating,
		AuthorName:   requestutil.Query(request, "authorName"),
		SortBy:       requestutil.Query(request, "sortBy"),
	}

	mangas, meta, err := handler.service.Search(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if filter.SortBy == "" {
		filter.SortBy = "ModifiedAt"
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		"success":    true,
		"status":     http.StatusOK,
		"data":       mangas,
		"pagination": meta,
		"filters":    filter,
	})
}

func (handler *Handler) searchOptions(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.service.SearchOptions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", options)
}

func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	home, err := handler.service.Home(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", home)
}

func (handler *Handler) getManga(writer http.ResponseWriter, request *http.Request) {
	manga, err := handler.service.GetManga(request.Context(), requestutil.Query(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", manga)
}

/*
GET /Manga/listManga?genre&status&statusOff&sort&index.

The filters take the admin dropdown labels.
*/
func (handler *Handler) listAdmin(writer http.ResponseWriter, request *http.Request) {
	index := 1
	if raw := requestutil.Query(request, "index"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError("index", "Must be an integer"))
			return
		}
		index = parsed
	}

	filter := AdminFilter{
		Genre:      requestutil.Query(request, "genre"),
		Visibility: VisibilityFromLabel(requestutil.Query(request, "statusOff")),
		SortBy:     SortFromLabel(requestutil.Query(request, "sort")),
	}
	if status, ok := StatusFromLabel(requestutil.Query(request, "status")); ok {
		filter.Status = &status
	}

	mangas, lastPage, err := handler.service.ListAdmin(request.Context(), filter, index)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		"status":   http.StatusOK,
		"success":  true,
		"data":     mangas,
		"lastPage": lastPage,
	})
}

// # Administration Endpoints

/*
POST /Manga/CreateManga.

Form: Name, AuthorName, Description, CreatedAt (release year), IsActive,
Status, Image (stored asset name), CategoriesId.
*/
func (handler *Handler) createManga(writer http.ResponseWriter, request *http.Request) {
	year, err := requestutil.FormInt(request, FieldCreatedAt)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := int(StatusUpdating)
	if requestutil.FormValue(request, FieldStatus) != "" {
		if status, err = requestutil.FormInt(request, FieldStatus); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	isActive, err := requestutil.FormBool(request, FieldIsActive, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	categoryIDs, err := formCategoryIDs(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga, err := handler.service.CreateManga(request.Context(), Draft{
		Name:        requestutil.FormValue(request, FieldName),
		AuthorName:  requestutil.FormValue(request, FieldAuthorName),
		Description: requestutil.FormValue(request, FieldDescription),
		ReleaseYear: year,
		IsActive:    isActive,
		Status:      Status(status),
		Image:       requestutil.FormValue(request, FieldImage),
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "Manga created", manga)
}

/*
PUT /Manga/UpdateManga.

Form: id plus any CreateManga field. An "imageFile" part replaces the cover.
*/
func (handler *Handler) updateManga(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.FormValue(request, FieldID)

	patch, err := formPatch(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga, err := handler.service.UpdateManga(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, header, err := request.FormFile(asset.FieldFile)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		respond.Error(writer, request, validate.RequiredError(asset.FieldFile, "Malformed upload"))
		return
	default:
		defer file.Close()
		if manga, err = handler.service.ReplaceCover(request.Context(), id, file, header.Size, header.Filename); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.Result(writer, "Manga updated", manga)
}

// DELETE /Manga/DeleteManga. Form: id.
func (handler *Handler) deleteManga(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteManga(request.Context(), requestutil.FormValue(request, FieldID)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "Manga deleted", nil)
}

// PUT /Manga/ChangeIsActive. Form: mangaId.
func (handler *Handler) changeIsActive(writer http.ResponseWriter, request *http.Request) {
	active, err := handler.service.ChangeIsActive(request.Context(), requestutil.FormValue(request, FieldMangaID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", map[string]bool{"isActive": active})
}

// # Form Parsing

// formCategoryIDs accepts repeated CategoriesId fields or one comma-separated value.
func formCategoryIDs(request *http.Request) ([]int, error) {
	if err := request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, validate.RequiredError(FieldCategories, "Malformed form")
	}

	values, present := request.Form[FieldCategories]
	if !present {
		return nil, nil
	}

	ids := []int{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, validate.RequiredError(FieldCategories, "Must be a list of integers")
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// formPatch builds a [Patch] from the fields present on the form.
func formPatch(request *http.Request) (Patch, error) {
	var patch Patch
	var err error

	if patch.CategoryIDs, err = formCategoryIDs(request); err != nil {
		return Patch{}, err
	}

	if value, ok := formField(request, FieldName); ok {
		patch.Name = &value
	}
	if value, ok := formField(request, FieldAuthorName); ok {
		patch.AuthorName = &value
	}
	if value, ok := formField(request, FieldDescription); ok {
		patch.Description = &value
	}
	if value, ok := formField(request, FieldImage); ok {
		patch.Image = &value
	}
	if _, ok := formField(request, FieldCreatedAt); ok {
		year, err := requestutil.FormInt(request, FieldCreatedAt)
		if err != nil {
			return Patch{}, err
		}
		patch.ReleaseYear = &year
	}
	if _, ok := formField(request, FieldStatus); ok {
		raw, err := requestutil.FormInt(request, FieldStatus)
		if err != nil {
			return Patch{}, err
		}
		status := Status(raw)
		patch.Status = &status
	}
	if _, ok := formField(request, FieldIsActive); ok {
		active, err := requestutil.FormBool(request, FieldIsActive, true)
		if err != nil {
			return Patch{}, err
		}
		patch.IsActive = &active
	}
	return patch, nil
}

func formField(request *http.Request, name string) (string, bool) {
	value := requestutil.FormValue(request, name)
	return value, value != ""
}
