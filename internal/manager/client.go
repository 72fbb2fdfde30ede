// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package manager is the back-office client of the catalog API.

[Client] wraps every HTTP call in a circuit breaker and a per-call deadline,
and reports failures as a [CallError] whose [Kind] separates timeouts from
network and unexpected failures. [Publisher] runs the add-chapter flow on top
of it: validate, check for duplicates, upload the file, create the chapter.
*/
package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/taibuivan/mangaonline/internal/asset"
	"github.com/taibuivan/mangaonline/internal/core/chapter"
	"github.com/taibuivan/mangaonline/internal/core/manga"
	"github.com/taibuivan/mangaonline/internal/platform/constants"
	"github.com/taibuivan/mangaonline/internal/platform/metrics"
)

const breakerName = "catalog-api"

// Operation names used in errors, logs and metrics.
const (
	OpCheckChapterExists = "CheckChapterExists"
	OpGetManga           = "GetManga"
	OpUploadAsset        = "UploadAsset"
	OpAddChapter         = "AddChapter"
	OpDeleteChapter      = "DeleteChapter"
)

// ClientConfig configures a [Client].
type ClientConfig struct {
	BaseURL        string
	Token          string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
}

// Client calls the catalog API on behalf of the manager.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger

	requestTimeout time.Duration
	uploadTimeout  time.Duration
}

/*
NewClient creates an API client.

Breaker policy:
  - Opens after 5 consecutive server-side failures.
  - Stays open for 30 seconds, then lets 1 probe through.
  - 4xx answers are the caller's fault and never trip it.
*/
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var callErr *CallError
			if errors.As(err, &callErr) {
				return !callErr.serverFault()
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("circuit_breaker_state_changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		http:           &http.Client{},
		breaker:        breaker,
		logger:         logger,
		requestTimeout: cfg.RequestTimeout,
		uploadTimeout:  cfg.UploadTimeout,
	}
}

// # Calls

// CheckChapterExists asks whether an active chapter already uses number.
func (client *Client) CheckChapterExists(ctx context.Context, mangaID string, number int) (*chapter.ExistsResult, error) {
	query := url.Values{}
	query.Set("mangaId", mangaID)
	query.Set("chapterNumber", strconv.Itoa(number))

	body, err := client.do(ctx, OpCheckChapterExists, client.requestTimeout, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/Manga/CheckChapterExists?"+query.Encode(), nil)
	})
	if err != nil {
		return nil, err
	}

	var result chapter.ExistsResult
	if err := client.decode(OpCheckChapterExists, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetManga loads a manga with its chapter list.
func (client *Client) GetManga(ctx context.Context, mangaID string) (*manga.Manga, error) {
	body, err := client.do(ctx, OpGetManga, client.requestTimeout, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/Manga/GetManga?id="+url.QueryEscape(mangaID), nil)
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data *manga.Manga `json:"data"`
	}
	if err := client.decode(OpGetManga, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, &CallError{Kind: KindUnexpected, Operation: OpGetManga, Err: errors.New("empty manga payload")}
	}
	return envelope.Data, nil
}

// UploadAsset sends a chapter file and returns its stored name.
func (client *Client) UploadAsset(ctx context.Context, fileName string, content []byte) (string, error) {
	var payload bytes.Buffer
	form := multipart.NewWriter(&payload)
	part, err := form.CreateFormFile(asset.FieldFile, fileName)
	if err != nil {
		return "", &CallError{Kind: KindUnexpected, Operation: OpUploadAsset, Err: err}
	}
	if _, err := part.Write(content); err != nil {
		return "", &CallError{Kind: KindUnexpected, Operation: OpUploadAsset, Err: err}
	}
	if err := form.Close(); err != nil {
		return "", &CallError{Kind: KindUnexpected, Operation: OpUploadAsset, Err: err}
	}

	body, err := client.do(ctx, OpUploadAsset, client.uploadTimeout, func(ctx context.Context) (*http.Request, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/File/CreateImage", bytes.NewReader(payload.Bytes()))
		if err != nil {
			return nil, err
		}
		request.Header.Set(constants.HeaderContentType, form.FormDataContentType())
		return request, nil
	})
	if err != nil {
		return "", err
	}

	var response asset.UploadResponse
	if err := client.decode(OpUploadAsset, body, &response); err != nil {
		return "", err
	}
	name := response.Data
	if !response.Success || name == "" {
		return "", &CallError{Kind: KindUnexpected, Operation: OpUploadAsset, Err: errors.New("upload returned no file name")}
	}
	return name, nil
}

// AddChapter creates the chapter row for an already uploaded file.
func (client *Client) AddChapter(ctx context.Context, draft chapter.Draft) (*chapter.Chapter, error) {
	form := url.Values{}
	form.Set(chapter.FieldChapterNumber, strconv.Itoa(draft.ChapterNumber))
	form.Set(chapter.FieldSubID, strconv.Itoa(draft.SubID))
	form.Set(chapter.FieldMangaID, draft.MangaID)
	form.Set(chapter.FieldName, draft.Name)
	form.Set(chapter.FieldStatus, strconv.Itoa(int(draft.Status)))
	form.Set("IsActive", strconv.FormatBool(draft.IsActive))
	form.Set(chapter.FieldFilePDF, draft.FilePDF)
	encoded := form.Encode()

	body, err := client.do(ctx, OpAddChapter, client.requestTimeout, func(ctx context.Context) (*http.Request, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/Manga/AddChapter", strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		request.Header.Set(constants.HeaderContentType, "application/x-www-form-urlencoded")
		return request, nil
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data *chapter.Chapter `json:"data"`
	}
	if err := client.decode(OpAddChapter, body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// DeleteResponse is what DeleteChapter reports back.
type DeleteResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Chapter *chapter.Chapter `json:"deletedChapter"`
	Cleanup map[string]int64 `json:"cleanup"`
}

// DeleteChapter soft-deletes a chapter.
func (client *Client) DeleteChapter(ctx context.Context, chapterID string) (*DeleteResponse, error) {
	body, err := client.do(ctx, OpDeleteChapter, client.requestTimeout, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, client.baseURL+"/Manga/DeleteChapter?chapterId="+url.QueryEscape(chapterID), nil)
	})
	if err != nil {
		return nil, err
	}

	var response DeleteResponse
	if err := client.decode(OpDeleteChapter, body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// # Transport

// do runs one request through the breaker and returns the body of a 2xx answer.
func (client *Client) do(ctx context.Context, operation string, timeout time.Duration, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	body, err := client.breaker.Execute(func() ([]byte, error) {
		request, err := build(ctx)
		if err != nil {
			return nil, &CallError{Kind: KindUnexpected, Operation: operation, Err: err}
		}
		if client.token != "" {
			request.Header.Set(constants.HeaderAuthorization, "Bearer "+client.token)
		}

		response, err := client.http.Do(request)
		if err != nil {
			return nil, classify(operation, err)
		}
		defer response.Body.Close()

		payload, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, classify(operation, err)
		}
		if response.StatusCode >= http.StatusBadRequest {
			return nil, statusError(operation, response.StatusCode, payload)
		}
		return payload, nil
	})
	if err != nil {
		callErr := classify(operation, err)
		metrics.ClientCallFailuresTotal.WithLabelValues(operation, string(callErr.Kind)).Inc()
		client.logger.Debug("api_call_failed",
			slog.String("operation", operation),
			slog.String("kind", string(callErr.Kind)),
			slog.String("error", callErr.Error()),
		)
		return nil, callErr
	}
	return body, nil
}

func (client *Client) decode(operation string, body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return &CallError{Kind: KindUnexpected, Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusError reads the API error envelope. Upload failures use the
// {success, status, message} shape instead, so both are tried.
func statusError(operation string, status int, payload []byte) *CallError {
	var envelope struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(payload, &envelope)

	message := envelope.Error
	if message == "" {
		message = envelope.Message
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &CallError{Kind: KindStatus, Operation: operation, StatusCode: status, Code: envelope.Code, Message: message}
}
