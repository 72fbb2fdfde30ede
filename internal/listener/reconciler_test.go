// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/listener"
	"github.com/taibuivan/mangaonline/internal/notify"
)

const (
	followed = "0192f7a0-0000-7000-8000-000000000001"
	read     = "0192f7a0-0000-7000-8000-000000000002"
	stranger = "0192f7a0-0000-7000-8000-000000000003"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingBadges struct {
	history []string
	follow  []int
}

func (badges *recordingBadges) ShowHistory(mangaID string) {
	badges.history = append(badges.history, mangaID)
}

func (badges *recordingBadges) ShowFollow(_ string, unread int) {
	badges.follow = append(badges.follow, unread)
}

func newReconciler(t *testing.T) (*listener.Reconciler, *listener.MemoryStore, *recordingBadges) {
	t.Helper()
	store := listener.NewMemoryStore()
	badges := &recordingBadges{}
	reconciler := listener.NewReconciler(store, badges, discardLogger())
	require.NoError(t, reconciler.Seed(context.Background(), []string{followed}, []string{read}))
	return reconciler, store, badges
}

/*
TestReconcile_FollowIsIdempotent verifies that a redelivered notification for a
followed manga leaves exactly one entry and no counter drift.
*/
func TestReconcile_FollowIsIdempotent(t *testing.T) {
	reconciler, store, badges := newReconciler(t)
	ctx := context.Background()

	first, err := reconciler.Reconcile(ctx, followed)
	require.NoError(t, err)
	assert.True(t, first.Follow)
	assert.True(t, first.Fresh)
	assert.Equal(t, 1, first.Unread)

	second, err := reconciler.Reconcile(ctx, followed)
	require.NoError(t, err)
	assert.True(t, second.Follow)
	assert.False(t, second.Fresh)
	assert.Equal(t, 1, second.Unread)

	notified, err := store.Get(ctx, listener.KeyFollowNotified)
	require.NoError(t, err)
	assert.Equal(t, []string{notify.NormalizeMangaID(followed)}, notified)
	assert.Equal(t, []int{1, 1}, badges.follow)
	assert.Empty(t, badges.history)
}

func TestReconcile_HistoryHit(t *testing.T) {
	reconciler, store, badges := newReconciler(t)
	ctx := context.Background()

	outcome, err := reconciler.Reconcile(ctx, read)
	require.NoError(t, err)
	assert.True(t, outcome.History)
	assert.False(t, outcome.Follow)
	assert.Equal(t, []string{notify.NormalizeMangaID(read)}, badges.history)

	notified, err := store.Get(ctx, listener.KeyFollowNotified)
	require.NoError(t, err)
	assert.Empty(t, notified)
}

func TestReconcile_NoMatch(t *testing.T) {
	reconciler, _, badges := newReconciler(t)

	outcome, err := reconciler.Reconcile(context.Background(), stranger)
	require.NoError(t, err)
	assert.False(t, outcome.History)
	assert.False(t, outcome.Follow)
	assert.Empty(t, badges.history)
	assert.Empty(t, badges.follow)
}

func TestReconcile_CaseInsensitive(t *testing.T) {
	reconciler, _, _ := newReconciler(t)

	outcome, err := reconciler.Reconcile(context.Background(), "  0192F7A0-0000-7000-8000-000000000001 ")
	require.NoError(t, err)
	assert.True(t, outcome.Follow)
}

func TestReconcile_CounterTracksDistinctIDs(t *testing.T) {
	store := listener.NewMemoryStore()
	reconciler := listener.NewReconciler(store, &recordingBadges{}, discardLogger())
	ctx := context.Background()
	require.NoError(t, reconciler.Seed(ctx, []string{followed, read}, nil))

	_, err := reconciler.Reconcile(ctx, followed)
	require.NoError(t, err)
	outcome, err := reconciler.Reconcile(ctx, read)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Unread)

	require.NoError(t, reconciler.Acknowledge(ctx))
	outcome, err = reconciler.Reconcile(ctx, read)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Unread)
}

/*
TestReconciler_AcknowledgeOn clears the unread counter when a signal arrives
and stops once the channel closes.
*/
func TestReconciler_AcknowledgeOn(t *testing.T) {
	store := listener.NewMemoryStore()
	reconciler := listener.NewReconciler(store, &recordingBadges{}, discardLogger())
	ctx := context.Background()
	require.NoError(t, reconciler.Seed(ctx, []string{followed}, nil))

	outcome, err := reconciler.Reconcile(ctx, followed)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.Unread)

	signals := make(chan os.Signal)
	done := make(chan struct{})
	go func() {
		reconciler.AcknowledgeOn(ctx, signals)
		close(done)
	}()

	// The unbuffered send returns once the loop has taken the signal; closing
	// afterwards and waiting on done orders the clear before the assertions.
	signals <- os.Interrupt
	close(signals)
	<-done

	notified, err := store.Get(ctx, listener.KeyFollowNotified)
	require.NoError(t, err)
	assert.Empty(t, notified)
}

func TestListener_HandleFrame(t *testing.T) {
	reconciler, store, _ := newReconciler(t)

	var deleted []notify.ChapterDeletedData
	handler := listener.New(reconciler, func(data notify.ChapterDeletedData) {
		deleted = append(deleted, data)
	}, discardLogger())
	ctx := context.Background()

	published, err := notify.Event{Kind: notify.KindChapterPublished, MangaID: followed}.Frame()
	require.NoError(t, err)
	require.NoError(t, handler.HandleFrame(ctx, published))

	removed, err := notify.Event{Kind: notify.KindChapterDeleted, MangaID: followed, ChapterID: "c1", ChapterNumber: 4}.Frame()
	require.NoError(t, err)
	require.NoError(t, handler.HandleFrame(ctx, removed))

	require.NoError(t, handler.HandleFrame(ctx, notify.Frame{Event: "Unknown", Data: json.RawMessage(`{}`)}))
	assert.Error(t, handler.HandleFrame(ctx, notify.Frame{Event: notify.FrameLoadNotification, Data: json.RawMessage(`{}`)}))

	notified, err := store.Get(ctx, listener.KeyFollowNotified)
	require.NoError(t, err)
	assert.Len(t, notified, 1)

	require.Len(t, deleted, 1)
	assert.Equal(t, 4, deleted[0].ChapterNumber)
	assert.Equal(t, "Chapter 4 has been removed", deleted[0].Message)
}
