// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/listener"
	"github.com/taibuivan/mangaonline/internal/platform/respond"
)

func TestSeeder_Seed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Manga/FollowMangaId", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer token" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		respond.Result(writer, "", []string{followed})
	})
	mux.HandleFunc("/Manga/ReadingHistoryId", func(writer http.ResponseWriter, _ *http.Request) {
		respond.Result(writer, "", []string{read})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := listener.NewMemoryStore()
	reconciler := listener.NewReconciler(store, &recordingBadges{}, discardLogger())

	require.NoError(t, listener.NewSeeder(server.URL+"/", "token").Seed(context.Background(), reconciler))

	outcome, err := reconciler.Reconcile(context.Background(), followed)
	require.NoError(t, err)
	assert.True(t, outcome.Follow)

	outcome, err = reconciler.Reconcile(context.Background(), read)
	require.NoError(t, err)
	assert.True(t, outcome.History)
}

func TestSeeder_RejectsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	reconciler := listener.NewReconciler(listener.NewMemoryStore(), nil, discardLogger())
	err := listener.NewSeeder(server.URL, "").Seed(context.Background(), reconciler)
	assert.Error(t, err)
}
