// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_list (
	key      TEXT    NOT NULL,
	position INTEGER NOT NULL,
	value    TEXT    NOT NULL,
	PRIMARY KEY (key, value)
);
CREATE INDEX IF NOT EXISTS idx_kv_list_position ON kv_list (key, position);
`

// SQLiteStore persists the lists in a local sqlite file so badges survive a
// restart of the daemon.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the store at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("listener: failed to open sqlite store: %w", err)
	}

	// One writer keeps the append check and the insert on the same connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("listener: failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("listener: failed to migrate sqlite store: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (store *SQLiteStore) Get(context context.Context, key Key) ([]string, error) {
	return queryList(context, store.db, key)
}

func (store *SQLiteStore) Set(context context.Context, key Key, values []string) error {
	transaction, err := store.db.BeginTx(context, nil)
	if err != nil {
		return fmt.Errorf("listener: failed to begin set: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	if _, err := transaction.ExecContext(context, `DELETE FROM kv_list WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("listener: failed to clear %s: %w", key, err)
	}
	for position, value := range values {
		if _, err := transaction.ExecContext(context,
			`INSERT OR IGNORE INTO kv_list (key, position, value) VALUES (?, ?, ?)`,
			string(key), position, value,
		); err != nil {
			return fmt.Errorf("listener: failed to write %s: %w", key, err)
		}
	}
	return transaction.Commit()
}

func (store *SQLiteStore) AppendIfAbsent(context context.Context, key Key, value string) ([]string, bool, error) {
	transaction, err := store.db.BeginTx(context, nil)
	if err != nil {
		return nil, false, fmt.Errorf("listener: failed to begin append: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	result, err := transaction.ExecContext(context, `
		INSERT OR IGNORE INTO kv_list (key, position, value)
		SELECT ?, COALESCE(MAX(position), -1) + 1, ? FROM kv_list WHERE key = ?`,
		string(key), value, string(key),
	)
	if err != nil {
		return nil, false, fmt.Errorf("listener: failed to append to %s: %w", key, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	list, err := queryList(context, transaction, key)
	if err != nil {
		return nil, false, err
	}
	if err := transaction.Commit(); err != nil {
		return nil, false, fmt.Errorf("listener: failed to commit append: %w", err)
	}
	return list, affected > 0, nil
}

func (store *SQLiteStore) Close() error {
	return store.db.Close()
}

type queryer interface {
	QueryContext(context context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryList(context context.Context, db queryer, key Key) ([]string, error) {
	rows, err := db.QueryContext(context, `SELECT value FROM kv_list WHERE key = ? ORDER BY position`, string(key))
	if err != nil {
		return nil, fmt.Errorf("listener: failed to read %s: %w", key, err)
	}
	defer rows.Close()

	list := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		list = append(list, value)
	}
	return list, rows.Err()
}
