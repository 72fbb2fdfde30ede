// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manager_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/core/chapter"
	"github.com/taibuivan/mangaonline/internal/manager"
)

const mangaOne = "0192f7a0-0000-7000-8000-000000000001"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(baseURL string) *manager.Client {
	return manager.NewClient(manager.ClientConfig{
		BaseURL:        baseURL,
		Token:          "admin-token",
		RequestTimeout: 200 * time.Millisecond,
		UploadTimeout:  time.Second,
	}, discardLogger())
}

func TestClient_CheckChapterExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/Manga/CheckChapterExists", request.URL.Path)
		assert.Equal(t, mangaOne, request.URL.Query().Get("mangaId"))
		assert.Equal(t, "3", request.URL.Query().Get("chapterNumber"))
		assert.Equal(t, "Bearer admin-token", request.Header.Get("Authorization"))
		_, _ = io.WriteString(writer, `{"exists":true,"existingChapter":{"id":"c3","chapterNumber":3}}`)
	}))
	defer server.Close()

	result, err := newClient(server.URL).CheckChapterExists(context.Background(), mangaOne, 3)
	require.NoError(t, err)
	assert.True(t, result.Exists)
	require.NotNil(t, result.ExistingChapter)
	assert.Equal(t, 3, result.ExistingChapter.ChapterNumber)
}

func TestClient_AddChapterSendsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "4", request.PostForm.Get("ChapterNumber"))
		assert.Equal(t, mangaOne, request.PostForm.Get("MangaId"))
		assert.Equal(t, "Chapter 4", request.PostForm.Get("Name"))
		assert.Equal(t, "1", request.PostForm.Get("Status"))
		assert.Equal(t, "true", request.PostForm.Get("IsActive"))
		assert.Equal(t, "stored.pdf", request.PostForm.Get("FilePDF"))
		_, _ = io.WriteString(writer, `{"success":true,"status":200,"data":{"id":"c4","mangaId":"`+mangaOne+`","chapterNumber":4}}`)
	}))
	defer server.Close()

	created, err := newClient(server.URL).AddChapter(context.Background(), chapter.Draft{
		ChapterNumber: 4,
		MangaID:       mangaOne,
		Name:          "Chapter 4",
		Status:        chapter.StatusVip,
		IsActive:      true,
		FilePDF:       "stored.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "c4", created.ID)
}

func TestClient_UploadAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		file, header, err := request.FormFile("imageFile")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "chapter.pdf", header.Filename)
		assert.Equal(t, "%PDF", string(content))
		_, _ = io.WriteString(writer, `{"success":true,"status":200,"data":"0192f7a0-aaaa.pdf"}`)
	}))
	defer server.Close()

	name, err := newClient(server.URL).UploadAsset(context.Background(), "chapter.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "0192f7a0-aaaa.pdf", name)
}

/*
TestClient_FailureKinds checks that status, timeout, network and decoding
failures come back as distinct kinds.
*/
func TestClient_FailureKinds(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(writer, `{"error":"Chapter not found","code":"NOT_FOUND"}`)
		}))
		defer server.Close()

		_, err := newClient(server.URL).DeleteChapter(context.Background(), "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, manager.ErrStatus)

		var callErr *manager.CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, http.StatusNotFound, callErr.StatusCode)
		assert.Equal(t, "NOT_FOUND", callErr.Code)
		assert.Equal(t, "Chapter not found", callErr.Message)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
			select {
			case <-request.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		_, err := newClient(server.URL).DeleteChapter(context.Background(), "slow")
		assert.ErrorIs(t, err, manager.ErrTimeout)
		assert.NotErrorIs(t, err, manager.ErrNetwork)
	})

	t.Run("network", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := newClient(url).DeleteChapter(context.Background(), "gone")
		assert.ErrorIs(t, err, manager.ErrNetwork)
	})

	t.Run("unexpected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(writer, `not json`)
		}))
		defer server.Close()

		_, err := newClient(server.URL).DeleteChapter(context.Background(), "odd")
		assert.ErrorIs(t, err, manager.ErrUnexpected)
	})
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newClient(server.URL)
	for range 5 {
		_, err := client.DeleteChapter(context.Background(), "boom")
		assert.ErrorIs(t, err, manager.ErrStatus)
	}

	_, err := client.DeleteChapter(context.Background(), "boom")
	assert.ErrorIs(t, err, manager.ErrNetwork)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), calls.Load())
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := newClient(server.URL)
	for range 8 {
		_, err := client.DeleteChapter(context.Background(), "dup")
		assert.ErrorIs(t, err, manager.ErrStatus)
	}
}
