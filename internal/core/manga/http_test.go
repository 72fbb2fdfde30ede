// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/core/manga"
	"github.com/taibuivan/mangaonline/internal/platform/ctxutil"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
)

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Route("/Manga", manga.NewHandler(f.service).RegisterRoutes)
	return router
}

func as(request *http.Request, role sec.UserRole) *http.Request {
	claims := &sec.AuthClaims{UserID: "0192f7a0-0000-7000-8000-0000000000aa", Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

/*
TestHandler_Search returns data, page metadata and the echoed filters.
*/
func TestHandler_Search(t *testing.T) {
	f := newFixture()
	f.seed(7, time.Now())

	recorder := httptest.NewRecorder()
	newRouter(f).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/Manga/search?query=Manga&status=1", nil))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var body struct {
		Success    bool           `json:"success"`
		Data       []manga.Manga  `json:"data"`
		Pagination map[string]any `json:"pagination"`
		Filters    manga.Filter   `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 6)
	assert.Equal(t, float64(7), body.Pagination["totalCount"])
	assert.Equal(t, true, body.Pagination["hasNextPage"])
	assert.Equal(t, "Manga", body.Filters.Query)
	assert.Equal(t, "ModifiedAt", body.Filters.SortBy)
	require.NotNil(t, body.Filters.Status)
	assert.Equal(t, 1, *body.Filters.Status)
}

/*
TestHandler_Search_BadStatus rejects a non-numeric status.
*/
func TestHandler_Search_BadStatus(t *testing.T) {
	recorder := httptest.NewRecorder()
	newRouter(newFixture()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/Manga/search?status=x", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_ListManga_AdminOnly guards the admin list and reports lastPage.
*/
func TestHandler_ListManga_AdminOnly(t *testing.T) {
	f := newFixture()
	f.seed(7, time.Now())
	router := newRouter(f)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/Manga/listManga", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/Manga/listManga", nil), sec.RoleMember))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/Manga/listManga?index=2&statusOff="+url.QueryEscape("Đang hiện"), nil), sec.RoleAdmin))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data     []manga.Manga `json:"data"`
		LastPage int           `json:"lastPage"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.LastPage)
}

/*
TestHandler_CreateManga parses the form including repeated category ids.
*/
func TestHandler_CreateManga(t *testing.T) {
	f := newFixture()

	form := url.Values{
		"Name":         {"Naruto"},
		"AuthorName":   {"Kishimoto"},
		"CreatedAt":    {"1999"},
		"Status":       {"0"},
		"IsActive":     {"true"},
		"CategoriesId": {"1,2", "3"},
	}
	request := httptest.NewRequest(http.MethodPost, "/Manga/CreateManga", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	recorder := httptest.NewRecorder()
	newRouter(f).ServeHTTP(recorder, as(request, sec.RoleAdmin))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var body struct {
		Data manga.Manga `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "naruto", body.Data.Slug)
	assert.Equal(t, manga.StatusDone, body.Data.Status)
	assert.Equal(t, []int{1, 2, 3}, f.repo.links[body.Data.ID])
}

/*
TestHandler_GetManga exposes the chapter list under the legacy key.
*/
func TestHandler_GetManga(t *testing.T) {
	f := newFixture()
	f.seed(1, time.Now())
	f.repo.chapters[mangaID(1)] = []manga.ChapterSummary{{ChapterNumber: 3}}

	recorder := httptest.NewRecorder()
	newRouter(f).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/Manga/GetManga?id="+mangaID(1), nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data struct {
			Chapteres []struct {
				ChapterNumber int `json:"chapterNumber"`
			} `json:"chapteres"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data.Chapteres, 1)
	assert.Equal(t, 3, body.Data.Chapteres[0].ChapterNumber)
}
