// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaonline/internal/platform/request"
	"github.com/taibuivan/mangaonline/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches comment and rating endpoints to the /Manga router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/Comment", handler.comments)

	router.Group(func(reader chi.Router) {
		reader.Use(middleware.RequireAuth)
		reader.Post("/Comment", handler.addComment)
		reader.Get("/CheckRating", handler.checkRating)
		reader.Get("/Rating", handler.rate)
	})
}

// GET /Manga/Comment?mangaId → {code, data}.
func (handler *Handler) comments(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.service.Comments(request.Context(), requestutil.Query(request, FieldMangaID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, map[string]any{"code": http.StatusOK, "data": comments})
}

// POST /Manga/Comment?mangaId&value.
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.AddComment(request.Context(), userID,
		requestutil.Query(request, FieldMangaID), requestutil.Query(request, FieldValue))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "Comment posted", comment)
}

// GET /Manga/CheckRating?mangaId → {code, data, value?}.
func (handler *Handler) checkRating(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rate, err := handler.service.RatingOf(request.Context(), userID, requestutil.Query(request, FieldMangaID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := map[string]any{"code": http.StatusOK, "data": rate != nil}
	if rate != nil {
		body["value"] = *rate
	}
	respond.JSON(writer, http.StatusOK, body)
}

// GET /Manga/Rating?mangaId&rate.
func (handler *Handler) rate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rate, err := requestutil.QueryInt(request, FieldRate)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.service.Rate(request.Context(), userID, requestutil.Query(request, FieldMangaID), rate)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", summary)
}
