// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
	"github.com/taibuivan/mangaonline/internal/users/auth"
)

// # Fakes

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func (repo *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[id]; ok {
		return user, nil
	}
	return nil, auth.ErrUserNotFound
}

func (repo *memoryUsers) FindByLogin(_ context.Context, login string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, login) || strings.EqualFold(user.Username, login) {
			return user, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (repo *memoryUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user.CreatedAt = time.Now()
	repo.users[user.ID] = user
	return nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session
}

func (repo *memorySessions) Create(_ context.Context, session *auth.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.sessions[session.TokenHash] = session
	return nil
}

func (repo *memorySessions) FindByTokenHash(_ context.Context, hash string) (*auth.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if session, ok := repo.sessions[hash]; ok {
		return session, nil
	}
	return nil, auth.ErrInvalidSession
}

func (repo *memorySessions) Revoke(_ context.Context, session *auth.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.sessions, session.TokenHash)
	return nil
}

func (repo *memorySessions) RevokeAll(_ context.Context, userID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for hash, session := range repo.sessions {
		if session.UserID == userID {
			delete(repo.sessions, hash)
		}
	}
	return nil
}

type staticTokens struct{}

func (staticTokens) GenerateAccessToken(userID, _, role string, _ time.Duration) (string, error) {
	return "access:" + userID + ":" + role, nil
}

func newService() (*auth.Service, *memorySessions) {
	sessions := &memorySessions{sessions: map[string]*auth.Session{}}
	service := auth.NewService(
		&memoryUsers{users: map[string]*auth.User{}},
		sessions,
		staticTokens{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return service, sessions
}

func register(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

// # Tests

func TestRegister(t *testing.T) {
	service, _ := newService()
	user := register(t, service)

	assert.Equal(t, sec.RoleMember, user.Role)
	assert.Equal(t, "reader", user.DisplayName)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err := service.Register(context.Background(), auth.RegisterInput{Username: "other", Email: "READER@example.com", Password: "12345678"})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	_, err = service.Register(context.Background(), auth.RegisterInput{Username: "Reader", Email: "new@example.com", Password: "12345678"})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	service, _ := newService()

	tests := []auth.RegisterInput{
		{Username: "ab", Email: "a@example.com", Password: "12345678"},
		{Username: "abc", Email: "not-an-email", Password: "12345678"},
		{Username: "abc", Email: "a@example.com", Password: "short"},
	}
	for _, input := range tests {
		_, err := service.Register(context.Background(), input)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "input %+v", input)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newService()
	user := register(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{Login: "READER", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "access:"+user.ID+":member", session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	_, err = service.Login(context.Background(), auth.LoginInput{Login: "reader", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), auth.LoginInput{Login: "ghost", Password: "whatever1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

/*
TestRefreshSession_Rotates verifies that a refresh token works exactly once.
*/
func TestRefreshSession_Rotates(t *testing.T) {
	service, sessions := newService()
	register(t, service)

	login, err := service.Login(context.Background(), auth.LoginInput{Login: "reader", Password: "correct-horse"})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), login.RefreshToken, "agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.Len(t, sessions.sessions, 1)

	_, err = service.RefreshSession(context.Background(), login.RefreshToken, "agent", "127.0.0.1")
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestLogout(t *testing.T) {
	service, sessions := newService()
	user := register(t, service)

	login, err := service.Login(context.Background(), auth.LoginInput{Login: "reader", Password: "correct-horse"})
	require.NoError(t, err)
	_, err = service.Login(context.Background(), auth.LoginInput{Login: "reader", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Len(t, sessions.sessions, 2)

	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))
	assert.Len(t, sessions.sessions, 1)

	require.NoError(t, service.LogoutAll(context.Background(), user.ID))
	assert.Empty(t, sessions.sessions)
}
