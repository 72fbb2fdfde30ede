// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaonline/internal/platform/ctxutil"
	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaonline/internal/platform/request"
	"github.com/taibuivan/mangaonline/internal/platform/respond"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapters.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the chapter endpoints to the /Manga router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/CheckChapterExists", handler.CheckChapterExists)
	router.Get("/GetChapterInfo", handler.GetChapterInfo)
	router.Get("/GetChapter", handler.GetChapter)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/AddChapter", handler.AddChapter)
		admin.Delete("/DeleteChapter", handler.DeleteChapter)
	})
}

/*
POST /Manga/AddChapter.

Form: ChapterNumber, SubId, MangaId, Name, Status, IsActive, FilePDF (stored asset name).
*/
func (handler *Handler) AddChapter(writer http.ResponseWriter, request *http.Request) {
	number, err := requestutil.FormInt(request, FieldChapterNumber)
	if err != nil {
		respond.Error(writer, request, ErrInvalidChapterNumber)
		return
	}

	subID := 0
	if requestutil.FormValue(request, FieldSubID) != "" {
		if subID, err = requestutil.FormInt(request, FieldSubID); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	status := 0
	if requestutil.FormValue(request, FieldStatus) != "" {
		if status, err = requestutil.FormInt(request, FieldStatus); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	isActive, err := requestutil.FormBool(request, "IsActive", true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.AddChapter(request.Context(), Draft{
		ChapterNumber: number,
		SubID:         subID,
		MangaID:       requestutil.FormValue(request, FieldMangaID),
		Name:          requestutil.FormValue(request, FieldName),
		Status:        Status(status),
		IsActive:      isActive,
		FilePDF:       requestutil.FormValue(request, FieldFilePDF),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Result(writer, fmt.Sprintf("Chapter %d published", chapter.ChapterNumber), chapter)
}

/*
GET /Manga/CheckChapterExists?mangaId&chapterNumber.
*/
func (handler *Handler) CheckChapterExists(writer http.ResponseWriter, request *http.Request) {
	number, err := requestutil.QueryInt(request, "chapterNumber")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.CheckChapterExists(request.Context(), requestutil.Query(request, "mangaId"), number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, result)
}

/*
DELETE /Manga/DeleteChapter?chapterId.
*/
func (handler *Handler) DeleteChapter(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.DeleteChapter(request.Context(), requestutil.Query(request, FieldChapterID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := fmt.Sprintf("Chapter %d deleted", result.Chapter.ChapterNumber)
	if !result.Deactivated {
		message = fmt.Sprintf("Chapter %d was already deleted", result.Chapter.ChapterNumber)
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		"success":        true,
		"message":        message,
		"deletedChapter": result.Chapter,
		"cleanup":        result.Cleanup,
	})
}

/*
GET /Manga/GetChapterInfo?id.
*/
func (handler *Handler) GetChapterInfo(writer http.ResponseWriter, request *http.Request) {
	chapter, err := handler.service.GetChapterInfo(request.Context(), requestutil.Query(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", chapter)
}

/*
GET /Manga/GetChapter?id.

Returns the stored asset name to read the chapter from.
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	role := ctxutil.GetUserRole(request.Context())

	chapter, err := handler.service.GetChapter(request.Context(), requestutil.Query(request, "id"), role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", chapter.FilePDF)
}
