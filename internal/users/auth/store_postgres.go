// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaonline/internal/platform/database/schema"
	"github.com/taibuivan/mangaonline/internal/platform/dberr"
)

// Unique indexes on users.account, see migrations.
const (
	constraintUsername = "account_username_key"
	constraintEmail    = "account_email_key"
)

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL user repository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = strings.Join([]string{
	schema.UserAccount.ID,
	schema.UserAccount.Username,
	schema.UserAccount.Email,
	schema.UserAccount.Password,
	schema.UserAccount.DisplayName,
	fmt.Sprintf("COALESCE(%s, '')", schema.UserAccount.Avatar),
	schema.UserAccount.Role,
	schema.UserAccount.CreatedAt,
}, ", ")

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.DisplayName, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.Role,
	).Scan(&user.CreatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			switch dberr.ConstraintName(err) {
			case constraintEmail:
				return ErrEmailTaken
			case constraintUsername:
				return ErrUsernameTaken
			}
		}
		return dberr.Wrap(err, "create_user")
	}
	return nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s AND %s IS NULL`,
		userColumns, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.IsActive, schema.UserAccount.DeletedAt)

	return repository.findOne(context, "find_user_by_id", query, id)
}

func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE (LOWER(%s) = LOWER($1) OR LOWER(%s) = LOWER($1)) AND %s AND %s IS NULL
		LIMIT 1`,
		userColumns, schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Username,
		schema.UserAccount.IsActive, schema.UserAccount.DeletedAt)

	return repository.findOne(context, "find_user_by_login", query, login)
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Avatar,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}
