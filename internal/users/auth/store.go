// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// UserRepository is the data access contract for accounts.
type UserRepository interface {
	// FindByID returns [ErrUserNotFound] for unknown or deleted accounts.
	FindByID(context context.Context, id string) (*User, error)

	// FindByLogin matches the username or email, case-insensitively.
	FindByLogin(context context.Context, login string) (*User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: [ErrEmailTaken] or [ErrUsernameTaken] on a uniqueness clash
	*/
	Create(context context.Context, user *User) error
}

// SessionRepository stores refresh-token sessions.
type SessionRepository interface {
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns [ErrInvalidSession] when nothing matches.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	Revoke(context context.Context, session *Session) error
	RevokeAll(context context.Context, userID string) error
}
