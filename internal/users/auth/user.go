// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements reader accounts and their sessions.

Access tokens are short-lived RS256 JWTs carrying the account role, which is
what gates Vip chapters and the admin endpoints. Refresh tokens are opaque,
stored hashed in Redis and rotated on every use.
*/
package auth

import (
	"time"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
)

// # Domain Entities

// User is a registered reader, moderator or administrator.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	DisplayName  string       `json:"displayName"`
	Avatar       string       `json:"avatar,omitempty"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Session is one refresh-token grant.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TokenHash string    `json:"tokenHash"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// # Constraints

const (
	// AccessTokenTTL keeps a leaked token useful for a quarter of an hour at most.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is how long a session survives without use.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	MinUsernameLength = 3
	MinPasswordLength = 8
)

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "displayName"
	FieldLogin       = "login"
	FieldAccessToken = "accessToken"
	FieldTokenType   = "tokenType"
	FieldExpiresIn   = "expiresIn"
	FieldUser        = "user"
)

// # Errors

var (
	ErrUserNotFound       = apperr.NotFound("User")
	ErrEmailTaken         = apperr.Conflict("Email is already registered")
	ErrUsernameTaken      = apperr.Conflict("Username is already taken")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid login credentials")
	ErrInvalidSession     = apperr.Unauthorized("Invalid or expired refresh token")
)
