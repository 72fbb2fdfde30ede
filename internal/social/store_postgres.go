// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

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

// socialRepository implements [Repository] using pgx.
type socialRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed social store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &socialRepository{pool: pool}
}

// # Comments

func (repository *socialRepository) Comments(context context.Context, mangaID string) ([]*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s,
			COALESCE(NULLIF(u.%s, ''), u.%s), COALESCE(u.%s, '')
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1 AND c.%s
		ORDER BY c.%s ASC
	`,
		schema.SocialComment.ID, schema.SocialComment.MangaID, schema.SocialComment.UserID,
		schema.SocialComment.Content, schema.SocialComment.CreatedAt,
		schema.UserAccount.DisplayName, schema.UserAccount.Username, schema.UserAccount.Avatar,
		schema.SocialComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.UserID,
		schema.SocialComment.MangaID, schema.SocialComment.IsActive,
		schema.SocialComment.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		var comment Comment
		err := rows.Scan(
			&comment.ID, &comment.MangaID, &comment.UserID, &comment.Content, &comment.CreatedAt,
			&comment.NameUser, &comment.ImgUser,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_comment")
		}
		comment.Date = comment.CreatedAt.Format(DateLayout)
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

func (repository *socialRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.MangaID, schema.SocialComment.UserID,
		schema.SocialComment.Content, schema.SocialComment.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		comment.ID, comment.MangaID, comment.UserID, comment.Content, comment.CreatedAt)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return ErrMangaNotFound
		}
		return dberr.Wrap(err, "create_comment")
	}
	return nil
}

// # Ratings

func (repository *socialRepository) RatingOf(context context.Context, userID, mangaID string) (*int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialRating.Rate, schema.SocialRating.Table,
		schema.SocialRating.UserID, schema.SocialRating.MangaID)

	var rate int
	if err := repository.pool.QueryRow(context, query, userID, mangaID).Scan(&rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "get_rating")
	}
	return &rate, nil
}

/*
Rate upserts the rating and rewrites the manga's star and rate count.

Description: Both statements share a transaction and the manga row is locked
by the UPDATE, so concurrent raters serialise on the aggregate.
*/
func (repository *socialRepository) Rate(context context.Context, userID, mangaID string, rate int) (*RatingSummary, error) {
	upsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
	`,
		schema.SocialRating.Table, schema.SocialRating.UserID, schema.SocialRating.MangaID, schema.SocialRating.Rate,
		schema.SocialRating.UserID, schema.SocialRating.MangaID,
		schema.SocialRating.Rate, schema.SocialRating.Rate, schema.SocialRating.UpdatedAt,
	)
	aggregate := fmt.Sprintf(`
		UPDATE %s m
		SET %s = agg.star, %s = agg.total
		FROM (
			SELECT COALESCE(ROUND(AVG(%s)::numeric, 1), 0)::float8 AS star, COUNT(*)::int AS total
			FROM %s WHERE %s = $1
		) agg
		WHERE m.%s = $1
		RETURNING m.%s, m.%s
	`,
		schema.CoreManga.Table,
		schema.CoreManga.Star, schema.CoreManga.RateCount,
		schema.SocialRating.Rate,
		schema.SocialRating.Table, schema.SocialRating.MangaID,
		schema.CoreManga.ID,
		schema.CoreManga.Star, schema.CoreManga.RateCount,
	)

	var summary RatingSummary
	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		if _, err := transaction.Exec(context, upsert, userID, mangaID, rate); err != nil {
			if dberr.IsForeignKeyViolation(err) {
				return ErrMangaNotFound
			}
			return err
		}
		return transaction.QueryRow(context, aggregate, mangaID).Scan(&summary.Star, &summary.RateCount)
	})
	if err != nil {
		if errors.Is(err, ErrMangaNotFound) {
			return nil, ErrMangaNotFound
		}
		return nil, dberr.Wrap(err, "rate_manga")
	}
	return &summary, nil
}
