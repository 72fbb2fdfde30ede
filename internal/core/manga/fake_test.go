// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/taibuivan/mangaonline/internal/core/author"
	"github.com/taibuivan/mangaonline/internal/core/category"
	"github.com/taibuivan/mangaonline/internal/core/manga"
)

// memoryRepository is an in-memory catalog store.
type memoryRepository struct {
	mu       sync.Mutex
	mangas   map[string]*manga.Manga
	chapters map[string][]manga.ChapterSummary
	links    map[string][]int
	ranks    []manga.Ranking
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		mangas:   map[string]*manga.Manga{},
		chapters: map[string][]manga.ChapterSummary{},
		links:    map[string][]int{},
	}
}

func (repository *memoryRepository) put(m *manga.Manga) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	clone := *m
	repository.mangas[m.ID] = &clone
}

func (repository *memoryRepository) sorted(keep func(*manga.Manga) bool, sortBy string) []*manga.Manga {
	list := []*manga.Manga{}
	for _, stored := range repository.mangas {
		if keep(stored) {
			clone := *stored
			list = append(list, &clone)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		switch strings.ToLower(sortBy) {
		case manga.SortStar:
			return list[i].Star > list[j].Star
		case manga.SortViewCount:
			return list[i].ViewCount > list[j].ViewCount
		case manga.SortFollowCount:
			return list[i].FollowCount > list[j].FollowCount
		}
		return list[i].ModifiedAt.After(list[j].ModifiedAt)
	})
	return list
}

func page(list []*manga.Manga, limit, offset int) []*manga.Manga {
	if offset >= len(list) {
		return []*manga.Manga{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (repository *memoryRepository) ListActive(context.Context) ([]*manga.Manga, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.sorted(func(m *manga.Manga) bool { return m.IsActive }, ""), nil
}

func (repository *memoryRepository) Search(_ context.Context, filter manga.Filter, limit, offset int) ([]*manga.Manga, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	list := repository.sorted(func(m *manga.Manga) bool {
		if !m.IsActive {
			return false
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Query)) {
			return false
		}
		if filter.Status != nil && int(m.Status) != *filter.Status {
			return false
		}
		return true
	}, filter.SortBy)
	return page(list, limit, offset), len(list), nil
}

func (repository *memoryRepository) ListAdmin(_ context.Context, filter manga.AdminFilter, limit, offset int) ([]*manga.Manga, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	list := repository.sorted(func(m *manga.Manga) bool {
		switch filter.Visibility {
		case manga.VisibilityActive:
			return m.IsActive
		case manga.VisibilityHidden:
			return !m.IsActive
		}
		return true
	}, filter.SortBy)
	return page(list, limit, offset), len(list), nil
}

func (repository *memoryRepository) Rank(_ context.Context, ranking manga.Ranking) ([]*manga.Manga, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.ranks = append(repository.ranks, ranking)
	list := repository.sorted(func(m *manga.Manga) bool {
		if !m.IsActive {
			return false
		}
		if ranking.ModifiedSince != nil && m.ModifiedAt.Before(*ranking.ModifiedSince) {
			return false
		}
		if ranking.Status != nil && m.Status != *ranking.Status {
			return false
		}
		return true
	}, ranking.OrderBy)
	return page(list, ranking.Limit, 0), nil
}

func (repository *memoryRepository) ListByIDs(_ context.Context, ids []string) ([]*manga.Manga, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	list := []*manga.Manga{}
	for _, id := range ids {
		if stored, ok := repository.mangas[id]; ok {
			clone := *stored
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*manga.Manga, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.mangas[id]
	if !ok {
		return nil, manga.ErrMangaNotFound
	}
	clone := *stored
	return &clone, nil
}

func (repository *memoryRepository) Chapters(_ context.Context, mangaID string) ([]manga.ChapterSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return append([]manga.ChapterSummary{}, repository.chapters[mangaID]...), nil
}

func (repository *memoryRepository) IncrementViews(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if stored, ok := repository.mangas[id]; ok {
		stored.ViewCount++
	}
	return nil
}

func (repository *memoryRepository) Create(_ context.Context, m *manga.Manga, categoryIDs []int) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	clone := *m
	repository.mangas[m.ID] = &clone
	repository.links[m.ID] = categoryIDs
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, id string, patch manga.Patch, authorID *int) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.mangas[id]
	if !ok {
		return manga.ErrMangaNotFound
	}
	if patch.Name != nil {
		stored.Name = *patch.Name
	}
	if patch.Slug != nil {
		stored.Slug = *patch.Slug
	}
	if authorID != nil {
		stored.AuthorID = authorID
	}
	if patch.Status != nil {
		stored.Status = *patch.Status
	}
	if patch.Image != nil {
		stored.Image = *patch.Image
	}
	if patch.CategoryIDs != nil {
		repository.links[id] = patch.CategoryIDs
	}
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.mangas[id]; !ok {
		return manga.ErrMangaNotFound
	}
	delete(repository.mangas, id)
	delete(repository.links, id)
	return nil
}

func (repository *memoryRepository) ToggleActive(_ context.Context, id string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.mangas[id]
	if !ok {
		return false, manga.ErrMangaNotFound
	}
	stored.IsActive = !stored.IsActive
	return stored.IsActive, nil
}

// memoryCache is an in-memory [manga.HomeCache].
type memoryCache struct {
	mu            sync.Mutex
	home          *manga.Home
	invalidations int
}

func (cache *memoryCache) Get(context.Context) (*manga.Home, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.home, nil
}

func (cache *memoryCache) Set(_ context.Context, home *manga.Home) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.home = home
	return nil
}

func (cache *memoryCache) Invalidate(context.Context) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.home = nil
	cache.invalidations++
	return nil
}

// stubAuthors hands out sequential ids per distinct lowercase name.
type stubAuthors struct {
	mu    sync.Mutex
	names map[string]int
}

func (authors *stubAuthors) EnsureAuthor(_ context.Context, name string) (*author.Author, error) {
	authors.mu.Lock()
	defer authors.mu.Unlock()
	if authors.names == nil {
		authors.names = map[string]int{}
	}
	key := strings.ToLower(strings.TrimSpace(name))
	id, ok := authors.names[key]
	if !ok {
		id = len(authors.names) + 1
		authors.names[key] = id
	}
	return &author.Author{ID: id, Name: name}, nil
}

func (authors *stubAuthors) SearchOptions(context.Context) ([]*author.Author, error) {
	return []*author.Author{{ID: 1, Name: "Oda"}}, nil
}

type stubCategories struct{}

func (stubCategories) ListCategories(context.Context) ([]*category.Category, error) {
	return []*category.Category{{ID: 1, Name: "Action"}, {ID: 2, Name: "Comedy"}}, nil
}
