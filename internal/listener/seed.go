// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/mangaonline/internal/platform/constants"
)

const (
	followIDsPath  = "/Manga/FollowMangaId"
	historyIDsPath = "/Manga/ReadingHistoryId"
	seedTimeout    = 15 * time.Second
)

// Seeder loads the signed-in user's follow and history ids from the API.
type Seeder struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewSeeder creates a seeder for the API at baseURL.
func NewSeeder(baseURL, token string) *Seeder {
	return &Seeder{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: seedTimeout},
	}
}

// Seed fetches both lists and stores them through the reconciler.
func (seeder *Seeder) Seed(context context.Context, reconciler *Reconciler) error {
	follows, err := seeder.fetch(context, followIDsPath)
	if err != nil {
		return err
	}
	history, err := seeder.fetch(context, historyIDsPath)
	if err != nil {
		return err
	}
	return reconciler.Seed(context, follows, history)
}

func (seeder *Seeder) fetch(context context.Context, path string) ([]string, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, seeder.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("listener: failed to build %s request: %w", path, err)
	}
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+seeder.token)

	response, err := seeder.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("listener: failed to fetch %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listener: %s returned status %d", path, response.StatusCode)
	}

	var envelope struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("listener: failed to decode %s: %w", path, err)
	}
	return envelope.Data, nil
}
