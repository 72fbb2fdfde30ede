// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaonline/internal/platform/request"
	"github.com/taibuivan/mangaonline/internal/platform/respond"
)

// multipartMemory is the in-memory part of a multipart upload; the rest spills to disk.
const multipartMemory = 8 << 20

// UploadResponse mirrors the shape the manager tier reads after an upload.
type UploadResponse struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Data    string `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Handler exposes the asset store under /File.
type Handler struct {
	store *Store
}

// NewHandler constructs a [Handler].
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the upload and download endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/GetImage", handler.getImage)
	router.Get("/GetAvatar", handler.getAvatar)
	router.Get("/GetPdf", handler.getPdf)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Post("/CreateImage", handler.upload(KindManga))
		authed.Post("/CreateAvatar", handler.upload(KindAvatar))
	})
}

func (handler *Handler) upload(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		// One extra megabyte for the multipart envelope.
		request.Body = http.MaxBytesReader(writer, request.Body, handler.store.MaxBytes()+(1<<20))

		if err := request.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeUploadError(writer, apperr.ValidationError("File exceeds the upload limit"))
				return
			}
			writeUploadError(writer, apperr.ValidationError("Invalid multipart form"))
			return
		}
		defer func() { _ = request.MultipartForm.RemoveAll() }()

		file, header, err := request.FormFile(FieldFile)
		if err != nil {
			writeUploadError(writer, apperr.ValidationError("File not found or empty"))
			return
		}
		defer file.Close()

		name, err := handler.store.Store(request.Context(), file, header.Size, header.Filename, kind)
		if err != nil {
			if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus < http.StatusInternalServerError {
				writeUploadError(writer, appErr)
				return
			}
			respond.Error(writer, request, err)
			return
		}

		respond.JSON(writer, http.StatusOK, UploadResponse{Success: true, Status: http.StatusOK, Data: name})
	}
}

func (handler *Handler) getImage(writer http.ResponseWriter, request *http.Request) {
	handler.serve(writer, request, FolderMangaImage)
}

func (handler *Handler) getAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.serve(writer, request, FolderAvatar)
}

func (handler *Handler) getPdf(writer http.ResponseWriter, request *http.Request) {
	handler.serve(writer, request, FolderPDF)
}

func (handler *Handler) serve(writer http.ResponseWriter, request *http.Request, folder Folder) {
	name, err := requestutil.QueryRequired(request, "fileName")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, contentType, err := handler.store.Retrieve(folder, name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Cache-Control", "public, max-age=86400")
	respond.Binary(writer, contentType, payload)
}

func writeUploadError(writer http.ResponseWriter, appErr *apperr.AppError) {
	respond.JSON(writer, appErr.HTTPStatus, UploadResponse{
		Success: false,
		Status:  appErr.HTTPStatus,
		Message: appErr.Message,
	})
}
