// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaonline/internal/platform/request"
	"github.com/taibuivan/mangaonline/internal/platform/respond"
)

// Handler implements the HTTP layer for the reader's library.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the library endpoints to the /Manga router.
// Every route acts on the authenticated user.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(reader chi.Router) {
		reader.Use(middleware.RequireAuth)

		reader.Get("/ReadingHistory", handler.history)
		reader.Post("/ReadingHistory", handler.recordVisit)
		reader.Get("/ReadingHistoryId", handler.historyIDs)

		reader.Get("/FollowManga", handler.follows)
		reader.Post("/FollowManga", handler.follow)
		reader.Delete("/FollowManga", handler.unfollow)
		reader.Get("/CheckFollowManga", handler.checkFollow)
		reader.Get("/FollowMangaId", handler.followIDs)
	})
}

// # History Endpoints

func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.History(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, map[string]any{"list": list})
}

// POST /Manga/ReadingHistory?mangaId.
func (handler *Handler) recordVisit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.RecordVisit(request.Context(), userID, requestutil.Query(request, FieldMangaID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Added to reading history"
	if entry.Revisit {
		message = "Reading history updated"
	}
	respond.Result(writer, message, entry)
}

func (handler *Handler) historyIDs(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := handler.service.HistoryIDs(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", ids)
}

// # Follow Endpoints

func (handler *Handler) follows(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.Follows(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, map[string]any{"list": list})
}

// POST /Manga/FollowManga?mangaId.
func (handler *Handler) follow(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Follow(request.Context(), userID, requestutil.Query(request, FieldMangaID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Followed"
	if !created {
		message = "Already following"
	}
	respond.Result(writer, message, nil)
}

// DELETE /Manga/FollowManga?mangaId.
func (handler *Handler) unfollow(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Unfollow(request.Context(), userID, requestutil.Query(request, FieldMangaID)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "Unfollowed", nil)
}

// GET /Manga/CheckFollowManga?mangaId → {code, data}.
func (handler *Handler) checkFollow(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	following, err := handler.service.IsFollowing(request.Context(), userID, requestutil.Query(request, FieldMangaID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, map[string]any{"code": http.StatusOK, "data": following})
}

func (handler *Handler) followIDs(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := handler.service.FollowIDs(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Result(writer, "", ids)
}
