// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/api"
	"github.com/taibuivan/mangaonline/internal/platform/config"
	"github.com/taibuivan/mangaonline/internal/platform/constants"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
)

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return nil, errors.New("invalid token")
}

type pathRoutes struct {
	path string
}

func (routes pathRoutes) RegisterRoutes(router chi.Router) {
	router.Get(routes.path, func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, routes.path)
	})
}

func newTestServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	liveness, readiness := api.NewHealthHandlers(deps, log)
	hub := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	cfg := &config.Config{ServerPort: "0", Environment: "development"}
	server := api.NewServer(ctx, cfg, log, rejectingVerifier{}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Files:     pathRoutes{path: "/GetImage"},
		Manga:     []api.RouteRegistrar{pathRoutes{path: "/GetManga"}, pathRoutes{path: "/GetChapter"}},
		Hub:       hub,
	})
	return server.Handler()
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

/*
TestServer_MountsPrefixes checks that every registrar shares its prefix.
*/
func TestServer_MountsPrefixes(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	assert.Equal(t, "/GetImage", get(handler, "/File/GetImage").Body.String())
	assert.Equal(t, "/GetManga", get(handler, "/Manga/GetManga").Body.String())
	assert.Equal(t, "/GetChapter", get(handler, "/Manga/GetChapter").Body.String())
	assert.Equal(t, http.StatusTeapot, get(handler, constants.HubPath).Code)
	assert.Equal(t, http.StatusNotFound, get(handler, "/Manga/Nope").Code)
}

func TestServer_SetsRequestID(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	recorder := get(handler, "/health")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

func TestServer_RejectsBadToken(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	request := httptest.NewRequest(http.MethodGet, "/Manga/GetManga", nil)
	request.Header.Set("Authorization", "Bearer forged")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHealth_Readiness reports 503 and names the failing dependency.
*/
func TestHealth_Readiness(t *testing.T) {
	healthy := api.Probe{Name: "postgres", Check: func(context.Context) error { return nil }}
	failing := api.Probe{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("ready", func(t *testing.T) {
		handler := newTestServer(t, api.HealthDependencies{Probes: []api.Probe{healthy}})
		assert.Equal(t, http.StatusOK, get(handler, "/ready").Code)
	})

	t.Run("degraded", func(t *testing.T) {
		handler := newTestServer(t, api.HealthDependencies{Probes: []api.Probe{healthy, failing}})
		recorder := get(handler, "/ready")
		require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

		var body struct {
			Message string `json:"message"`
			Data    []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Message)
		require.Len(t, body.Data, 2)
		assert.True(t, body.Data[0].OK)
		assert.False(t, body.Data[1].OK)
	})
}

func TestHealth_LivenessReportsHubClients(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{HubClients: func() int { return 3 }})

	var body struct {
		Data struct {
			Status     string `json:"status"`
			HubClients int    `json:"hubClients"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(get(handler, "/health").Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, 3, body.Data.HubClients)
}
