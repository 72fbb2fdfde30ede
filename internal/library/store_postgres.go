// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaonline/internal/platform/database/schema"
	"github.com/taibuivan/mangaonline/internal/platform/dberr"
	"github.com/taibuivan/mangaonline/internal/platform/postgres"
)

// libraryRepository implements [Repository] using pgx.
type libraryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed library store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &libraryRepository{pool: pool}
}

func (repository *libraryRepository) ids(context context.Context, action, query string, args ...any) ([]string, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, action)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// # Reading History

func (repository *libraryRepository) HistoryIDs(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		schema.LibraryReadingHistory.MangaID, schema.LibraryReadingHistory.Table,
		schema.LibraryReadingHistory.UserID, schema.LibraryReadingHistory.ID)

	return repository.ids(context, "list_history", query, userID)
}

/*
RecordVisit moves a manga to the top of the user's history.

Description: The identity sequence orders history, so a revisit deletes the
old row and inserts a new one inside a single transaction.
*/
func (repository *libraryRepository) RecordVisit(context context.Context, userID, mangaID string) (*HistoryEntry, error) {
	lookup := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CoreManga.Name, schema.CoreManga.Table, schema.CoreManga.ID)
	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryReadingHistory.Table, schema.LibraryReadingHistory.UserID, schema.LibraryReadingHistory.MangaID)
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.LibraryReadingHistory.Table, schema.LibraryReadingHistory.UserID,
		schema.LibraryReadingHistory.MangaID, schema.LibraryReadingHistory.ID)

	var entry HistoryEntry
	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		if err := transaction.QueryRow(context, lookup, mangaID).Scan(&entry.MangaName); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrMangaNotFound
			}
			return err
		}

		result, err := transaction.Exec(context, remove, userID, mangaID)
		if err != nil {
			return err
		}
		entry.Revisit = result.RowsAffected() > 0

		return transaction.QueryRow(context, insert, userID, mangaID).Scan(&entry.HistoryID)
	})
	if err != nil {
		if errors.Is(err, ErrMangaNotFound) {
			return nil, ErrMangaNotFound
		}
		return nil, dberr.Wrap(err, "record_visit")
	}
	return &entry, nil
}

// # Follows

func (repository *libraryRepository) FollowIDs(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		schema.LibraryFollowList.MangaID, schema.LibraryFollowList.Table,
		schema.LibraryFollowList.UserID, schema.LibraryFollowList.CreatedAt)

	return repository.ids(context, "list_follows", query, userID)
}

/*
Follow inserts the follow and bumps the manga's follow count.

Description: ON CONFLICT DO NOTHING makes a repeat follow a no-op; the count
only moves when a row was actually inserted.
*/
func (repository *libraryRepository) Follow(context context.Context, userID, mangaID string) (bool, error) {
	exists := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CoreManga.Table, schema.CoreManga.ID)
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.LibraryFollowList.Table, schema.LibraryFollowList.UserID, schema.LibraryFollowList.MangaID)
	bump := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.FollowCount, schema.CoreManga.FollowCount, schema.CoreManga.ID)

	created := false
	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		var found bool
		if err := transaction.QueryRow(context, exists, mangaID).Scan(&found); err != nil {
			return err
		}
		if !found {
			return ErrMangaNotFound
		}

		result, err := transaction.Exec(context, insert, userID, mangaID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return nil
		}

		created = true
		_, err = transaction.Exec(context, bump, mangaID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrMangaNotFound) {
			return false, ErrMangaNotFound
		}
		return false, dberr.Wrap(err, "follow_manga")
	}
	return created, nil
}

// Unfollow deletes the follow and decrements the count, never below zero.
func (repository *libraryRepository) Unfollow(context context.Context, userID, mangaID string) error {
	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryFollowList.Table, schema.LibraryFollowList.UserID, schema.LibraryFollowList.MangaID)
	drop := fmt.Sprintf(`UPDATE %s SET %s = GREATEST(%s - 1, 0) WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.FollowCount, schema.CoreManga.FollowCount, schema.CoreManga.ID)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		result, err := transaction.Exec(context, remove, userID, mangaID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFollowing
		}

		_, err = transaction.Exec(context, drop, mangaID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFollowing) {
			return ErrNotFollowing
		}
		return dberr.Wrap(err, "unfollow_manga")
	}
	return nil
}

func (repository *libraryRepository) IsFollowing(context context.Context, userID, mangaID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.LibraryFollowList.Table, schema.LibraryFollowList.UserID, schema.LibraryFollowList.MangaID)

	var following bool
	if err := repository.pool.QueryRow(context, query, userID, mangaID).Scan(&following); err != nil {
		return false, dberr.Wrap(err, "check_follow")
	}
	return following, nil
}
