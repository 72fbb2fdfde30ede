// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"context"
	"errors"
	"sync"

	"github.com/taibuivan/mangaonline/internal/core/chapter"
	"github.com/taibuivan/mangaonline/internal/notify"
	"github.com/taibuivan/mangaonline/internal/platform/apperr"
)

// memoryRepository mimics the PostgreSQL store, including the partial unique
// index on active (manga, number) pairs.
type memoryRepository struct {
	mu       sync.Mutex
	mangas   map[string]string
	chapters map[string]*chapter.Chapter
	views    map[string]int

	// children[relation][chapterID] = row count
	children map[string]map[string]int64

	// skipPrecheck makes FindActiveByNumber miss, as in a race.
	skipPrecheck bool
	precheckErr  error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		mangas:   map[string]string{},
		chapters: map[string]*chapter.Chapter{},
		views:    map[string]int{},
		children: map[string]map[string]int64{},
	}
}

func (repository *memoryRepository) MangaName(_ context.Context, mangaID string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	name, ok := repository.mangas[mangaID]
	if !ok {
		return "", chapter.ErrMangaNotFound
	}
	return name, nil
}

func (repository *memoryRepository) FindActiveByNumber(_ context.Context, mangaID string, number int) (*chapter.Chapter, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.precheckErr != nil {
		return nil, repository.precheckErr
	}
	if repository.skipPrecheck {
		return nil, nil
	}
	return repository.activeLocked(mangaID, number), nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*chapter.Chapter, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.chapters[id]
	if !ok {
		return nil, chapter.ErrChapterNotFound
	}
	clone := *stored
	return &clone, nil
}

func (repository *memoryRepository) Create(_ context.Context, c *chapter.Chapter) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if c.IsActive && repository.activeLocked(c.MangaID, c.ChapterNumber) != nil {
		return apperr.Conflict("Resource already exists")
	}
	clone := *c
	repository.chapters[c.ID] = &clone
	return nil
}

func (repository *memoryRepository) Deactivate(_ context.Context, id string, policy []chapter.Relation) (map[string]int64, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.chapters[id]
	if !ok {
		return nil, false, chapter.ErrChapterNotFound
	}
	changed := stored.IsActive
	stored.IsActive = false

	cleanup := map[string]int64{}
	for _, relation := range chapter.Actionable(policy) {
		rows := repository.children[relation.Name]
		cleanup[relation.Name] = rows[id]
		if rows != nil {
			delete(rows, id)
		}
	}
	return cleanup, changed, nil
}

func (repository *memoryRepository) IncrementMangaViews(_ context.Context, mangaID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.views[mangaID]++
	return nil
}

func (repository *memoryRepository) activeLocked(mangaID string, number int) *chapter.Chapter {
	for _, stored := range repository.chapters {
		if stored.IsActive && stored.MangaID == mangaID && stored.ChapterNumber == number {
			clone := *stored
			return &clone
		}
	}
	return nil
}

func (repository *memoryRepository) activeCount(mangaID string) int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	count := 0
	for _, stored := range repository.chapters {
		if stored.IsActive && stored.MangaID == mangaID {
			count++
		}
	}
	return count
}

func (repository *memoryRepository) addChildren(relation, chapterID string, count int64) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.children[relation] == nil {
		repository.children[relation] = map[string]int64{}
	}
	repository.children[relation][chapterID] = count
}

// recordingPublisher captures outbox events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (publisher *recordingPublisher) Publish(_ context.Context, event notify.Event) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if publisher.err != nil {
		return publisher.err
	}
	publisher.events = append(publisher.events, event)
	return nil
}

func (publisher *recordingPublisher) kinds() []notify.Kind {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	var kinds []notify.Kind
	for _, event := range publisher.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

// countingCache records invalidations.
type countingCache struct {
	mu    sync.Mutex
	calls int
}

func (cache *countingCache) Invalidate(context.Context) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.calls++
	return errors.New("redis down")
}
