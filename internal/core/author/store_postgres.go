// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaonline/internal/platform/database/schema"
	"github.com/taibuivan/mangaonline/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed author store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, limit int) ([]*Author, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.CoreAuthor.ID, schema.CoreAuthor.Name, schema.CoreAuthor.CreatedAt,
		schema.CoreAuthor.Table, schema.CoreAuthor.Name,
	)

	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		var author Author
		if err := rows.Scan(&author.ID, &author.Name, &author.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, &author)
	}
	return authors, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CoreAuthor.ID, schema.CoreAuthor.Name, schema.CoreAuthor.CreatedAt,
		schema.CoreAuthor.Table, schema.CoreAuthor.ID,
	)

	var author Author
	err := repository.db.QueryRow(context, query, id).Scan(&author.ID, &author.Name, &author.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthorNotFound
		}
		return nil, dberr.Wrap(err, "get_author")
	}
	return &author, nil
}

/*
Ensure upserts by lower(name).

Description: The no-op DO UPDATE makes RETURNING yield the existing row on
conflict, so two concurrent creators resolve to the same author.
*/
func (repository *PostgresRepository) Ensure(context context.Context, name string) (*Author, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s AS a (%s) VALUES ($1)
		ON CONFLICT (lower(%s)) DO UPDATE SET %s = a.%s
		RETURNING %s, %s, %s
	`,
		schema.CoreAuthor.Table, schema.CoreAuthor.Name,
		schema.CoreAuthor.Name, schema.CoreAuthor.Name, schema.CoreAuthor.Name,
		schema.CoreAuthor.ID, schema.CoreAuthor.Name, schema.CoreAuthor.CreatedAt,
	)

	var author Author
	err := repository.db.QueryRow(context, query, name).Scan(&author.ID, &author.Name, &author.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "ensure_author")
	}
	return &author, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreAuthor.Table, schema.CoreAuthor.ID)

	result, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}
	if result.RowsAffected() == 0 {
		return ErrAuthorNotFound
	}
	return nil
}
