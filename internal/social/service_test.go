// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/ctxutil"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
	"github.com/taibuivan/mangaonline/internal/social"
)

const (
	alice    = "0192f7a0-0000-7000-8000-0000000000a1"
	bob      = "0192f7a0-0000-7000-8000-0000000000b2"
	mangaOne = "0192f7a0-0000-7000-8000-000000000001"
)

// memoryRepository keeps one rate per (user, manga) and recomputes the mean.
type memoryRepository struct {
	mu       sync.Mutex
	comments []*social.Comment
	rates    map[string]map[string]int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rates: map[string]map[string]int{}}
}

func (repository *memoryRepository) Comments(_ context.Context, mangaID string) ([]*social.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	list := []*social.Comment{}
	for _, comment := range repository.comments {
		if comment.MangaID == mangaID {
			list = append(list, comment)
		}
	}
	return list, nil
}

func (repository *memoryRepository) CreateComment(_ context.Context, comment *social.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.comments = append(repository.comments, comment)
	return nil
}

func (repository *memoryRepository) RatingOf(_ context.Context, userID, mangaID string) (*int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	rate, ok := repository.rates[mangaID][userID]
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (repository *memoryRepository) Rate(_ context.Context, userID, mangaID string, rate int) (*social.RatingSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.rates[mangaID] == nil {
		repository.rates[mangaID] = map[string]int{}
	}
	repository.rates[mangaID][userID] = rate

	sum := 0
	for _, value := range repository.rates[mangaID] {
		sum += value
	}
	count := len(repository.rates[mangaID])
	mean := float64(sum) / float64(count)
	return &social.RatingSummary{Star: math.Round(mean*10) / 10, RateCount: count}, nil
}

func newService() *social.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return social.NewService(newMemoryRepository(), nil, logger)
}

/*
TestService_Rate_Mean re-rating replaces the previous vote rather than adding one.
*/
func TestService_Rate_Mean(t *testing.T) {
	service := newService()
	ctx := context.Background()

	summary, err := service.Rate(ctx, alice, mangaOne, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Star)

	summary, err = service.Rate(ctx, bob, mangaOne, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.Star)
	assert.Equal(t, 2, summary.RateCount)

	summary, err = service.Rate(ctx, alice, mangaOne, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.5, summary.Star)
	assert.Equal(t, 2, summary.RateCount)

	rate, err := service.RatingOf(ctx, alice, mangaOne)
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.Equal(t, 3, *rate)
}

/*
TestService_Rate_Validation rejects rates outside 1..5 and bad manga ids.
*/
func TestService_Rate_Validation(t *testing.T) {
	service := newService()
	ctx := context.Background()

	for _, rate := range []int{0, 6, -1} {
		_, err := service.Rate(ctx, alice, mangaOne, rate)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "rate %d", rate)
	}

	_, err := service.Rate(ctx, alice, "x", 3)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_AddComment trims content, stamps the display date and rejects blanks.
*/
func TestService_AddComment(t *testing.T) {
	service := newService()
	ctx := context.Background()

	comment, err := service.AddComment(ctx, alice, mangaOne, "  great arc  ")
	require.NoError(t, err)
	assert.Equal(t, "great arc", comment.Content)
	assert.Regexp(t, regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`), comment.Date)

	_, err = service.AddComment(ctx, alice, mangaOne, "   ")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	list, err := service.Comments(ctx, mangaOne)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

/*
TestHandler_CheckRating reports the value only once a rating exists.
*/
func TestHandler_CheckRating(t *testing.T) {
	router := chi.NewRouter()
	router.Route("/Manga", social.NewHandler(newService()).RegisterRoutes)

	as := func(request *http.Request) *http.Request {
		claims := &sec.AuthClaims{UserID: alice, Role: string(sec.RoleMember)}
		return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	var body map[string]any

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/Manga/CheckRating?mangaId="+mangaOne, nil)))
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, false, body["data"])
	assert.NotContains(t, body, "value")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/Manga/Rating?mangaId="+mangaOne+"&rate=4", nil)))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	body = nil
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/Manga/CheckRating?mangaId="+mangaOne, nil)))
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, true, body["data"])
	assert.Equal(t, float64(4), body["value"])

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/Manga/Rating?mangaId="+mangaOne+"&rate=4", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
