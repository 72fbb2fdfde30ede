// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/core/chapter"
	"github.com/taibuivan/mangaonline/internal/notify"
	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
)

const (
	mangaOne     = "0192f7a0-0000-7000-8000-000000000001"
	mangaMissing = "0192f7a0-0000-7000-8000-0000000000ff"
)

type fixture struct {
	repo      *memoryRepository
	publisher *recordingPublisher
	cache     *countingCache
	service   *chapter.Service
}

func newFixture() *fixture {
	repo := newMemoryRepository()
	repo.mangas[mangaOne] = "One Piece"

	publisher := &recordingPublisher{}
	cache := &countingCache{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		service:   chapter.NewService(repo, publisher, cache, logger),
	}
}

func draft(number int) chapter.Draft {
	return chapter.Draft{
		ChapterNumber: number,
		MangaID:       mangaOne,
		Name:          "Chapter",
		Status:        chapter.StatusFree,
		IsActive:      true,
		FilePDF:       "0192f7a0-aaaa.pdf",
	}
}

func (f *fixture) seed(t *testing.T, numbers ...int) {
	t.Helper()
	for _, number := range numbers {
		_, err := f.service.AddChapter(context.Background(), draft(number))
		require.NoError(t, err)
	}
}

/*
TestService_AddChapter_ThenExists covers publication followed by the existence check.
*/
func TestService_AddChapter_ThenExists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seed(t, 1, 2, 3)

	added, err := f.service.AddChapter(ctx, draft(4))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "One Piece", added.MangaName)

	result, err := f.service.CheckChapterExists(ctx, mangaOne, 4)
	require.NoError(t, err)
	assert.True(t, result.Exists)
	require.NotNil(t, result.ExistingChapter)
	assert.Equal(t, added.ID, result.ExistingChapter.ID)

	result, err = f.service.CheckChapterExists(ctx, mangaOne, 5)
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Nil(t, result.ExistingChapter)
}

/*
TestService_AddChapter_Duplicate rejects a reused number and leaves the active
set unchanged.
*/
func TestService_AddChapter_Duplicate(t *testing.T) {
	f := newFixture()
	f.seed(t, 1, 2, 3, 4)
	before := f.repo.activeCount(mangaOne)

	_, err := f.service.AddChapter(context.Background(), draft(2))
	assert.ErrorIs(t, err, chapter.ErrDuplicateChapterNumber)
	assert.Equal(t, before, f.repo.activeCount(mangaOne))
}

/*
TestService_AddChapter_ConstraintCatchesRace simulates a pre-check that misses a
concurrent insert; the store constraint still rejects the second write.
*/
func TestService_AddChapter_ConstraintCatchesRace(t *testing.T) {
	f := newFixture()
	f.seed(t, 7)
	f.repo.skipPrecheck = true

	_, err := f.service.AddChapter(context.Background(), draft(7))
	assert.ErrorIs(t, err, chapter.ErrDuplicateChapterNumber)
	assert.Equal(t, 1, f.repo.activeCount(mangaOne))
}

/*
TestService_AddChapter_Concurrent publishes the same number from many goroutines.
*/
func TestService_AddChapter_Concurrent(t *testing.T) {
	f := newFixture()
	f.repo.skipPrecheck = true

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.AddChapter(context.Background(), draft(9)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, f.repo.activeCount(mangaOne))
}

/*
TestService_AddChapter_PrecheckFailureDoesNotBlock proceeds when the advisory
lookup errors out.
*/
func TestService_AddChapter_PrecheckFailureDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.repo.precheckErr = errors.New("connection reset")

	_, err := f.service.AddChapter(context.Background(), draft(1))
	assert.NoError(t, err)
}

/*
TestService_AddChapter_Validation covers the rejected inputs.
*/
func TestService_AddChapter_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*chapter.Draft)
		want   error
		code   string
	}{
		{"zero number", func(d *chapter.Draft) { d.ChapterNumber = 0 }, chapter.ErrInvalidChapterNumber, apperr.CodeValidation},
		{"negative number", func(d *chapter.Draft) { d.ChapterNumber = -3 }, chapter.ErrInvalidChapterNumber, apperr.CodeValidation},
		{"bad manga id", func(d *chapter.Draft) { d.MangaID = "not-a-uuid" }, nil, apperr.CodeValidation},
		{"bad status", func(d *chapter.Draft) { d.Status = 7 }, nil, apperr.CodeValidation},
		{"missing asset", func(d *chapter.Draft) { d.FilePDF = "" }, nil, apperr.CodeValidation},
		{"unknown manga", func(d *chapter.Draft) { d.MangaID = mangaMissing }, chapter.ErrMangaNotFound, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			input := draft(1)
			tt.mutate(&input)

			_, err := f.service.AddChapter(context.Background(), input)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.True(t, apperr.HasCode(err, tt.code))
			assert.Empty(t, f.publisher.kinds(), "rejected writes must not emit events")
		})
	}
}

/*
TestService_AddChapter_EventFailureKeepsWrite ensures a broken outbox does not
undo the committed chapter.
*/
func TestService_AddChapter_EventFailureKeepsWrite(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("outbox closed")

	added, err := f.service.AddChapter(context.Background(), draft(1))
	require.NoError(t, err)

	stored, err := f.repo.FindByID(context.Background(), added.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.Equal(t, 1, f.cache.calls)
}

/*
TestService_AddChapter_EmitsPublished checks the event contents.
*/
func TestService_AddChapter_EmitsPublished(t *testing.T) {
	f := newFixture()

	added, err := f.service.AddChapter(context.Background(), draft(12))
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, notify.KindChapterPublished, event.Kind)
	assert.Equal(t, mangaOne, event.MangaID)
	assert.Equal(t, added.ID, event.ChapterID)
	assert.Equal(t, 12, event.ChapterNumber)
}

/*
TestService_DeleteChapter_Idempotent deletes twice and checks cleanup and events.
*/
func TestService_DeleteChapter_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	added, err := f.service.AddChapter(ctx, draft(3))
	require.NoError(t, err)
	f.repo.addChildren("notifications", added.ID, 5)
	f.repo.addChildren("pages", added.ID, 20)
	f.repo.addChildren("comments", added.ID, 9)

	first, err := f.service.DeleteChapter(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, first.Deactivated)
	assert.False(t, first.Chapter.IsActive)
	assert.Equal(t, "One Piece", first.Chapter.MangaName)
	assert.Equal(t, map[string]int64{"notifications": 5, "pages": 20}, first.Cleanup)

	second, err := f.service.DeleteChapter(ctx, added.ID)
	require.NoError(t, err)
	assert.False(t, second.Deactivated)
	assert.False(t, second.Chapter.IsActive)
	assert.Equal(t, map[string]int64{"notifications": 0, "pages": 0}, second.Cleanup)

	// Manga-scoped rows are untouched.
	assert.Equal(t, int64(9), f.repo.children["comments"][added.ID])

	assert.Equal(t, []notify.Kind{notify.KindChapterPublished, notify.KindChapterDeleted}, f.publisher.kinds())

	result, err := f.service.CheckChapterExists(ctx, mangaOne, 3)
	require.NoError(t, err)
	assert.False(t, result.Exists)

	// The number is free again.
	_, err = f.service.AddChapter(ctx, draft(3))
	assert.NoError(t, err)
}

/*
TestService_DeleteChapter_NotFound returns 404 for unknown ids.
*/
func TestService_DeleteChapter_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.DeleteChapter(context.Background(), mangaMissing)
	assert.ErrorIs(t, err, chapter.ErrChapterNotFound)

	_, err = f.service.DeleteChapter(context.Background(), "garbage")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_GetChapterInfo hides inactive chapters.
*/
func TestService_GetChapterInfo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	added, err := f.service.AddChapter(ctx, draft(1))
	require.NoError(t, err)

	info, err := f.service.GetChapterInfo(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "One Piece", info.MangaName)

	_, err = f.service.DeleteChapter(ctx, added.ID)
	require.NoError(t, err)

	_, err = f.service.GetChapterInfo(ctx, added.ID)
	assert.ErrorIs(t, err, chapter.ErrChapterNotFound)
}

/*
TestService_GetChapter_VipGating checks role gating and the view counter.
*/
func TestService_GetChapter_VipGating(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	vip := draft(1)
	vip.Status = chapter.StatusVip
	added, err := f.service.AddChapter(ctx, vip)
	require.NoError(t, err)

	tests := []struct {
		role    sec.UserRole
		allowed bool
	}{
		{"", false},
		{sec.RoleMember, false},
		{sec.RoleModerator, false},
		{sec.RoleVip, true},
		{sec.RoleAdmin, true},
	}

	views := 0
	for _, tt := range tests {
		got, err := f.service.GetChapter(ctx, added.ID, tt.role)
		if !tt.allowed {
			assert.ErrorIs(t, err, chapter.ErrChapterNotFound, string(tt.role))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, "0192f7a0-aaaa.pdf", got.FilePDF)
		views++
	}
	assert.Equal(t, views, f.repo.views[mangaOne])
}

/*
TestActionable skips ignored relations.
*/
func TestActionable(t *testing.T) {
	var names []string
	for _, relation := range chapter.Actionable(chapter.DeletePolicy) {
		names = append(names, relation.Name)
	}
	assert.Equal(t, []string{"notifications", "pages"}, names)

	custom := []chapter.Relation{
		{Name: "bookmarks", Action: chapter.CascadeDeactivateOnly, ActiveColumn: "isactive"},
		{Name: "broken", Action: chapter.CascadeDeactivateOnly},
	}
	assert.Len(t, chapter.Actionable(custom), 1)
}

/*
TestService_DeleteChapter_ConcurrentEmitsOnce races several deletes of one
active chapter; only the call that retired it may publish.
*/
func TestService_DeleteChapter_ConcurrentEmitsOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	added, err := f.service.AddChapter(ctx, draft(6))
	require.NoError(t, err)

	const callers = 8
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		deactivated int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.service.DeleteChapter(ctx, added.ID)
			if !assert.NoError(t, err) {
				return
			}
			if result.Deactivated {
				mu.Lock()
				deactivated++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, deactivated)
	assert.Equal(t, []notify.Kind{notify.KindChapterPublished, notify.KindChapterDeleted}, f.publisher.kinds())
}
