// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/database/schema"
	"github.com/taibuivan/mangaonline/internal/platform/dberr"
	"github.com/taibuivan/mangaonline/internal/platform/postgres"
)

// # PostgreSQL Repository

// chapterRepository implements [Repository] using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed chapter store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &chapterRepository{pool: pool}
}

// selectChapter joins the owning manga for its name.
var selectChapter = fmt.Sprintf(`
	SELECT c.%s, c.%s, m.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s
	FROM %s c
	JOIN %s m ON m.%s = c.%s
`,
	schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreManga.Name,
	schema.CoreChapter.ChapterNumber, schema.CoreChapter.SubID, schema.CoreChapter.Name,
	schema.CoreChapter.Status, schema.CoreChapter.IsActive, schema.CoreChapter.FilePDF,
	schema.CoreChapter.CreatedAt,
	schema.CoreChapter.Table,
	schema.CoreManga.Table, schema.CoreManga.ID, schema.CoreChapter.MangaID,
)

func scanChapter(row pgx.Row) (*Chapter, error) {
	var chapter Chapter
	err := row.Scan(
		&chapter.ID,
		&chapter.MangaID,
		&chapter.MangaName,
		&chapter.ChapterNumber,
		&chapter.SubID,
		&chapter.Name,
		&chapter.Status,
		&chapter.IsActive,
		&chapter.FilePDF,
		&chapter.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

/*
MangaName resolves a manga id to its name.
*/
func (repository *chapterRepository) MangaName(context context.Context, mangaID string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CoreManga.Name, schema.CoreManga.Table, schema.CoreManga.ID)

	var name string
	if err := repository.pool.QueryRow(context, query, mangaID).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrMangaNotFound
		}
		return "", fmt.Errorf("postgres: failed to load manga: %w", err)
	}
	return name, nil
}

/*
FindActiveByNumber looks up the active chapter for (manga, number).
*/
func (repository *chapterRepository) FindActiveByNumber(context context.Context, mangaID string, number int) (*Chapter, error) {
	query := selectChapter + fmt.Sprintf(`
		WHERE c.%s = $1 AND c.%s = $2 AND c.%s
		LIMIT 1
	`, schema.CoreChapter.MangaID, schema.CoreChapter.ChapterNumber, schema.CoreChapter.IsActive)

	chapter, err := scanChapter(repository.pool.QueryRow(context, query, mangaID, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to find chapter by number: %w", err)
	}
	return chapter, nil
}

/*
FindByID loads a chapter whatever its activity flag.
*/
func (repository *chapterRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := selectChapter + fmt.Sprintf(`WHERE c.%s = $1`, schema.CoreChapter.ID)

	chapter, err := scanChapter(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("postgres: failed to find chapter: %w", err)
	}
	return chapter, nil
}

/*
Create inserts the chapter and bumps the manga's modification time.

Description: Both statements share a transaction so the home page's "new
update" ordering never points at an uncommitted chapter. A unique violation on
the active-number index surfaces as a Conflict.
*/
func (repository *chapterRepository) Create(context context.Context, chapter *Chapter) error {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.ChapterNumber,
		schema.CoreChapter.SubID, schema.CoreChapter.Name, schema.CoreChapter.Status,
		schema.CoreChapter.IsActive, schema.CoreChapter.FilePDF, schema.CoreChapter.CreatedAt,
	)
	touch := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.ModifiedAt, schema.CoreManga.ID)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		_, err := transaction.Exec(context, insert,
			chapter.ID, chapter.MangaID, chapter.ChapterNumber,
			chapter.SubID, chapter.Name, chapter.Status,
			chapter.IsActive, chapter.FilePDF, chapter.CreatedAt,
		)
		if err != nil {
			return err
		}

		result, err := transaction.Exec(context, touch, chapter.MangaID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrMangaNotFound
		}
		return nil
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return dberr.Wrap(err, "create_chapter")
	}
	return nil
}

/*
Deactivate flips the activity flag and applies the cascade policy atomically.

The flag is only cleared on an active row, so of two concurrent deletes exactly
one reports the transition.
*/
func (repository *chapterRepository) Deactivate(context context.Context, id string, policy []Relation) (map[string]int64, bool, error) {
	deactivate := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1 AND %s`,
		schema.CoreChapter.Table, schema.CoreChapter.IsActive, schema.CoreChapter.ID, schema.CoreChapter.IsActive)
	exists := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CoreChapter.Table, schema.CoreChapter.ID)

	cleanup := make(map[string]int64)
	changed := false

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		result, err := transaction.Exec(context, deactivate, id)
		if err != nil {
			return err
		}
		changed = result.RowsAffected() == 1

		if !changed {
			var found bool
			if err := transaction.QueryRow(context, exists, id).Scan(&found); err != nil {
				return err
			}
			if !found {
				return ErrChapterNotFound
			}
		}

		for _, relation := range Actionable(policy) {
			var statement string
			switch relation.Action {
			case CascadeDelete:
				statement = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, relation.Table, relation.ForeignKey)
			case CascadeDeactivateOnly:
				statement = fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1 AND %s`,
					relation.Table, relation.ActiveColumn, relation.ForeignKey, relation.ActiveColumn)
			}

			result, err := transaction.Exec(context, statement, id)
			if err != nil {
				return fmt.Errorf("postgres: failed to cascade to %s: %w", relation.Name, err)
			}
			cleanup[relation.Name] = result.RowsAffected()
		}
		return nil
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return nil, false, err
		}
		return nil, false, dberr.Wrap(err, "deactivate_chapter")
	}
	return cleanup, changed, nil
}

/*
IncrementMangaViews atomically increments the manga view counter.
*/
func (repository *chapterRepository) IncrementMangaViews(context context.Context, mangaID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.ViewCount, schema.CoreManga.ViewCount, schema.CoreManga.ID)

	if _, err := repository.pool.Exec(context, query, mangaID); err != nil {
		return fmt.Errorf("postgres: failed to increment manga views: %w", err)
	}
	return nil
}
