// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package manga provides the PostgreSQL implementation of the catalog store.

Every read shares one projection that joins the author, counts active chapters
and aggregates categories into JSON, so a listing is a single round-trip.
Paged reads add COUNT(*) OVER() instead of a second count query.
*/
package manga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaonline/internal/platform/database/schema"
	"github.com/taibuivan/mangaonline/internal/platform/dberr"
	"github.com/taibuivan/mangaonline/internal/platform/postgres"
	"github.com/taibuivan/mangaonline/pkg/slug"
)

// # PostgreSQL Repository

// mangaRepository implements [Repository] using pgx.
type mangaRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed catalog store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &mangaRepository{pool: pool}
}

// projection is the shared SELECT list. Callers append FROM-relative clauses.
var projection = fmt.Sprintf(`
	SELECT
		m.%s, m.%s, m.%s, m.%s, COALESCE(a.%s, ''), m.%s, m.%s, m.%s,
		m.%s, m.%s, m.%s, m.%s, COALESCE(m.%s, ''), m.%s, m.%s,
		(SELECT COUNT(*) FROM %s ch WHERE ch.%s = m.%s AND ch.%s) AS chapter_count,
		COALESCE((
			SELECT json_agg(json_build_object('id', cat.%s, 'name', cat.%s, 'subId', cat.%s) ORDER BY cat.%s)
			FROM %s cat
			JOIN %s mc ON mc.%s = cat.%s
			WHERE mc.%s = m.%s
		), '[]') AS categories
`,
	schema.CoreManga.ID, schema.CoreManga.Name, schema.CoreManga.Slug, schema.CoreManga.AuthorID,
	schema.CoreAuthor.Name,
	schema.CoreManga.Description, schema.CoreManga.Status, schema.CoreManga.IsActive,
	schema.CoreManga.ViewCount, schema.CoreManga.FollowCount, schema.CoreManga.Star,
	schema.CoreManga.RateCount, schema.CoreManga.Image, schema.CoreManga.CreatedAt,
	schema.CoreManga.ModifiedAt,
	schema.CoreChapter.Table, schema.CoreChapter.MangaID, schema.CoreManga.ID, schema.CoreChapter.IsActive,
	schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.SubID, schema.CoreCategory.Name,
	schema.CoreCategory.Table,
	schema.CoreMangaCategory.Table, schema.CoreMangaCategory.CategoryID, schema.CoreCategory.ID,
	schema.CoreMangaCategory.MangaID, schema.CoreManga.ID,
)

var from = fmt.Sprintf(`
	FROM %s m
	LEFT JOIN %s a ON a.%s = m.%s
`, schema.CoreManga.Table, schema.CoreAuthor.Table, schema.CoreAuthor.ID, schema.CoreManga.AuthorID)

// sortColumns maps sort keys to their column. Unknown keys fall back to modifiedat.
var sortColumns = map[string]string{
	SortModifiedAt:  schema.CoreManga.ModifiedAt,
	SortViewCount:   schema.CoreManga.ViewCount,
	SortFollowCount: schema.CoreManga.FollowCount,
	SortStar:        schema.CoreManga.Star,
	SortCreatedAt:   schema.CoreManga.CreatedAt,
}

func orderBy(sortBy string) string {
	column, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		column = schema.CoreManga.ModifiedAt
	}
	return fmt.Sprintf(" ORDER BY m.%s DESC, m.%s ASC", column, schema.CoreManga.ID)
}

// # Query Building

// conditions accumulates WHERE clauses with numbered placeholders.
type conditions struct {
	clauses []string
	args    []any
}

// add appends a clause whose single "?" is replaced by the next placeholder.
func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(c.args)), 1))
}

func (c *conditions) raw(clause string) {
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders.
func (c *conditions) page(limit, offset int) string {
	c.args = append(c.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(c.args)-1, len(c.args))
}

func (c *conditions) genre(name string) {
	c.add(fmt.Sprintf(`EXISTS (
		SELECT 1 FROM %s mc JOIN %s cat ON cat.%s = mc.%s
		WHERE mc.%s = m.%s AND cat.%s = ?
	)`,
		schema.CoreMangaCategory.Table, schema.CoreCategory.Table,
		schema.CoreCategory.ID, schema.CoreMangaCategory.CategoryID,
		schema.CoreMangaCategory.MangaID, schema.CoreManga.ID, schema.CoreCategory.Name,
	), name)
}

// # Scanning

func scanManga(row pgx.Row, extra ...any) (*Manga, error) {
	var manga Manga
	var categories []byte

	dest := []any{
		&manga.ID, &manga.Name, &manga.Slug, &manga.AuthorID, &manga.AuthorName,
		&manga.Description, &manga.Status, &manga.IsActive,
		&manga.ViewCount, &manga.FollowCount, &manga.Star, &manga.RateCount,
		&manga.Image, &manga.CreatedAt, &manga.ModifiedAt,
		&manga.ChapterCount, &categories,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(categories, &manga.Categories); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode categories: %w", err)
	}
	return &manga, nil
}

func (repository *mangaRepository) queryList(context context.Context, action, query string, args ...any) ([]*Manga, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	mangas := []*Manga{}
	for rows.Next() {
		manga, err := scanManga(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		mangas = append(mangas, manga)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return mangas, nil
}

func (repository *mangaRepository) queryPage(context context.Context, action, query string, args ...any) ([]*Manga, int, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	mangas := []*Manga{}
	total := 0
	for rows.Next() {
		manga, err := scanManga(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, action)
		}
		mangas = append(mangas, manga)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	return mangas, total, nil
}

// # Reads

func (repository *mangaRepository) ListActive(context context.Context) ([]*Manga, error) {
	query := projection + from + fmt.Sprintf(" WHERE m.%s", schema.CoreManga.IsActive) + orderBy(SortModifiedAt)
	return repository.queryList(context, "list_manga", query)
}

/*
Search returns one page of active manga matching filter.

Description: The name match runs on both the raw name and the ASCII slug so
"dao hai tac" finds "Đảo Hải Tặc". Rating matches the whole-star bucket since
Star is a one-decimal mean.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Manga: The page
  - int: Total matches across all pages
  - error: Database execution errors
*/
func (repository *mangaRepository) Search(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error) {
	var where conditions
	where.raw(fmt.Sprintf("m.%s", schema.CoreManga.IsActive))

	if query := strings.TrimSpace(filter.Query); query != "" {
		folded := slug.From(query)
		if folded == "" {
			where.add(fmt.Sprintf("m.%s ILIKE '%%' || ? || '%%'", schema.CoreManga.Name), query)
		} else {
			where.args = append(where.args, query, folded)
			where.raw(fmt.Sprintf("(m.%s ILIKE '%%' || $%d || '%%' OR m.%s LIKE '%%' || $%d || '%%')",
				schema.CoreManga.Name, len(where.args)-1, schema.CoreManga.Slug, len(where.args)))
		}
	}
	if filter.CategoryName != "" && !IsAllCategories(filter.CategoryName) {
		where.genre(filter.CategoryName)
	}
	if filter.Status != nil {
		where.add(fmt.Sprintf("m.%s = ?", schema.CoreManga.Status), *filter.Status)
	}
	if filter.Rating != nil {
		where.add(fmt.Sprintf("FLOOR(m.%s) = ?", schema.CoreManga.Star), *filter.Rating)
	}
	if author := strings.TrimSpace(filter.AuthorName); author != "" {
		where.add(fmt.Sprintf("a.%s ILIKE '%%' || ? || '%%'", schema.CoreAuthor.Name), author)
	}

	query := projection + ", COUNT(*) OVER() AS total_count" + from + where.where() + orderBy(filter.SortBy)
	query += where.page(limit, offset)

	return repository.queryPage(context, "search_manga", query, where.args...)
}

func (repository *mangaRepository) ListAdmin(context context.Context, filter AdminFilter, limit, offset int) ([]*Manga, int, error) {
	var where conditions

	if filter.Genre != "" && !IsAllCategories(filter.Genre) {
		where.genre(filter.Genre)
	}
	if filter.Status != nil {
		where.add(fmt.Sprintf("m.%s = ?", schema.CoreManga.Status), int(*filter.Status))
	}
	switch filter.Visibility {
	case VisibilityActive:
		where.raw(fmt.Sprintf("m.%s", schema.CoreManga.IsActive))
	case VisibilityHidden:
		where.raw(fmt.Sprintf("NOT m.%s", schema.CoreManga.IsActive))
	}

	query := projection + ", COUNT(*) OVER() AS total_count" + from + where.where() + orderBy(filter.SortBy)
	query += where.page(limit, offset)

	return repository.queryPage(context, "list_manga_admin", query, where.args...)
}

func (repository *mangaRepository) Rank(context context.Context, ranking Ranking) ([]*Manga, error) {
	var where conditions
	where.raw(fmt.Sprintf("m.%s", schema.CoreManga.IsActive))

	if ranking.ModifiedSince != nil {
		where.add(fmt.Sprintf("m.%s >= ?", schema.CoreManga.ModifiedAt), *ranking.ModifiedSince)
	}
	if ranking.Status != nil {
		where.add(fmt.Sprintf("m.%s = ?", schema.CoreManga.Status), int(*ranking.Status))
	}

	query := projection + from + where.where() + orderBy(ranking.OrderBy) + where.page(ranking.Limit, 0)
	return repository.queryList(context, "rank_manga", query, where.args...)
}

func (repository *mangaRepository) ListByIDs(context context.Context, ids []string) ([]*Manga, error) {
	if len(ids) == 0 {
		return []*Manga{}, nil
	}

	query := projection + from + fmt.Sprintf(`
		JOIN unnest($1::uuid[]) WITH ORDINALITY AS wanted(id, position) ON wanted.id = m.%s
		ORDER BY wanted.position
	`, schema.CoreManga.ID)
	return repository.queryList(context, "list_manga_by_ids", query, ids)
}

func (repository *mangaRepository) FindByID(context context.Context, id string) (*Manga, error) {
	query := projection + from + fmt.Sprintf(" WHERE m.%s = $1", schema.CoreManga.ID)

	manga, err := scanManga(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMangaNotFound
		}
		return nil, dberr.Wrap(err, "get_manga")
	}
	return manga, nil
}

func (repository *mangaRepository) Chapters(context context.Context, mangaID string) ([]ChapterSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s FROM %s
		WHERE %s = $1 AND %s
		ORDER BY %s ASC
	`,
		schema.CoreChapter.ID, schema.CoreChapter.ChapterNumber, schema.CoreChapter.Name,
		schema.CoreChapter.Status, schema.CoreChapter.CreatedAt,
		schema.CoreChapter.Table,
		schema.CoreChapter.MangaID, schema.CoreChapter.IsActive,
		schema.CoreChapter.ChapterNumber,
	)

	rows, err := repository.pool.Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_chapters")
	}
	defer rows.Close()

	chapters := []ChapterSummary{}
	for rows.Next() {
		var chapter ChapterSummary
		if err := rows.Scan(&chapter.ID, &chapter.ChapterNumber, &chapter.Name, &chapter.Status, &chapter.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_chapter")
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

// # Writes

func (repository *mangaRepository) IncrementViews(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.ViewCount, schema.CoreManga.ViewCount, schema.CoreManga.ID)

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "increment_views")
	}
	return nil
}

/*
Create inserts the manga and its category links in one transaction.
*/
func (repository *mangaRepository) Create(context context.Context, manga *Manga, categoryIDs []int) error {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
	`,
		schema.CoreManga.Table,
		schema.CoreManga.ID, schema.CoreManga.Name, schema.CoreManga.Slug, schema.CoreManga.AuthorID,
		schema.CoreManga.Description, schema.CoreManga.Status, schema.CoreManga.IsActive,
		schema.CoreManga.Image, schema.CoreManga.CreatedAt, schema.CoreManga.ModifiedAt,
	)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		_, err := transaction.Exec(context, insert,
			manga.ID, manga.Name, manga.Slug, manga.AuthorID,
			manga.Description, manga.Status, manga.IsActive,
			manga.Image, manga.CreatedAt, manga.ModifiedAt,
		)
		if err != nil {
			return err
		}
		return linkCategories(context, transaction, manga.ID, categoryIDs)
	})
	if err != nil {
		return dberr.Wrap(err, "create_manga")
	}
	return nil
}

/*
Update applies patch, bumping modifiedat. Category links are replaced only when
the patch carries them.
*/
func (repository *mangaRepository) Update(context context.Context, id string, patch Patch, authorID *int) error {
	var set conditions
	if patch.Name != nil {
		set.add(schema.CoreManga.Name+" = ?", *patch.Name)
	}
	if patch.Slug != nil {
		set.add(schema.CoreManga.Slug+" = ?", *patch.Slug)
	}
	if authorID != nil {
		set.add(schema.CoreManga.AuthorID+" = ?", *authorID)
	}
	if patch.Description != nil {
		set.add(schema.CoreManga.Description+" = ?", *patch.Description)
	}
	if patch.ReleaseYear != nil {
		set.add(schema.CoreManga.CreatedAt+" = ?", releaseDate(*patch.ReleaseYear))
	}
	if patch.IsActive != nil {
		set.add(schema.CoreManga.IsActive+" = ?", *patch.IsActive)
	}
	if patch.Status != nil {
		set.add(schema.CoreManga.Status+" = ?", int(*patch.Status))
	}
	if patch.Image != nil {
		set.add(schema.CoreManga.Image+" = ?", *patch.Image)
	}
	set.raw(schema.CoreManga.ModifiedAt + " = NOW()")

	set.args = append(set.args, id)
	update := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d`,
		schema.CoreManga.Table, strings.Join(set.clauses, ", "), schema.CoreManga.ID, len(set.args))

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		result, err := transaction.Exec(context, update, set.args...)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrMangaNotFound
		}

		if patch.CategoryIDs == nil {
			return nil
		}
		if err := unlinkCategories(context, transaction, id); err != nil {
			return err
		}
		return linkCategories(context, transaction, id, patch.CategoryIDs)
	})
	if err != nil {
		if errors.Is(err, ErrMangaNotFound) {
			return ErrMangaNotFound
		}
		return dberr.Wrap(err, "update_manga")
	}
	return nil
}

/*
Delete removes the category links and then the manga row.
*/
func (repository *mangaRepository) Delete(context context.Context, id string) error {
	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreManga.Table, schema.CoreManga.ID)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		if err := unlinkCategories(context, transaction, id); err != nil {
			return err
		}

		result, err := transaction.Exec(context, remove, id)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrMangaNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMangaNotFound) {
			return ErrMangaNotFound
		}
		return dberr.Wrap(err, "delete_manga")
	}
	return nil
}

func (repository *mangaRepository) ToggleActive(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOT %s, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.CoreManga.Table, schema.CoreManga.IsActive, schema.CoreManga.IsActive,
		schema.CoreManga.ModifiedAt, schema.CoreManga.ID, schema.CoreManga.IsActive)

	var active bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrMangaNotFound
		}
		return false, dberr.Wrap(err, "toggle_manga")
	}
	return active, nil
}

// # Category Links

func linkCategories(context context.Context, transaction pgx.Tx, mangaID string, categoryIDs []int) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, unnest($2::int[])
		ON CONFLICT DO NOTHING
	`, schema.CoreMangaCategory.Table, schema.CoreMangaCategory.MangaID, schema.CoreMangaCategory.CategoryID)

	_, err := transaction.Exec(context, query, mangaID, categoryIDs)
	return err
}

func unlinkCategories(context context.Context, transaction pgx.Tx, mangaID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreMangaCategory.Table, schema.CoreMangaCategory.MangaID)

	_, err := transaction.Exec(context, query, mangaID)
	return err
}

// releaseDate stores a release year as January 1st UTC.
func releaseDate(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
