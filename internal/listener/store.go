// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener

import (
	"context"
	"slices"
	"sync"
)

// Key names a persisted list. The values match what the web client keeps in
// browser storage, so a store can be seeded from either side.
type Key string

const (
	// KeyHistory holds the ids of manga the user has read.
	KeyHistory Key = "MANGA_HISTORY"
	// KeyFollow holds the ids of manga the user follows.
	KeyFollow Key = "MANGA_FOLLOW"
	// KeyFollowNotified holds followed ids that already raised a badge.
	KeyFollowNotified Key = "LIST_ID_FOLLOW"
)

// LocalStore is the listener's typed key-value state.
//
// Lists keep insertion order. A missing key reads as an empty list.
type LocalStore interface {
	Get(context context.Context, key Key) ([]string, error)
	Set(context context.Context, key Key, values []string) error

	// AppendIfAbsent adds value to the list unless it is already present and
	// returns the resulting list together with whether it changed.
	AppendIfAbsent(context context.Context, key Key, value string) ([]string, bool, error)

	Close() error
}

// # Memory

// MemoryStore keeps the lists in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[Key][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[Key][]string)}
}

func (store *MemoryStore) Get(_ context.Context, key Key) ([]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return slices.Clone(store.lists[key]), nil
}

func (store *MemoryStore) Set(_ context.Context, key Key, values []string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lists[key] = dedupe(values)
	return nil
}

func (store *MemoryStore) AppendIfAbsent(_ context.Context, key Key, value string) ([]string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	list := store.lists[key]
	if slices.Contains(list, value) {
		return slices.Clone(list), false, nil
	}
	list = append(list, value)
	store.lists[key] = list
	return slices.Clone(list), true, nil
}

func (store *MemoryStore) Close() error { return nil }

// dedupe drops repeated values, keeping the first occurrence.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
