// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaonline/internal/platform/constants"
	"github.com/taibuivan/mangaonline/internal/platform/ctxutil"
	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
)

// stubVerifier accepts exactly one token.
type stubVerifier struct {
	token  string
	claims *sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != verifier.token {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

func whoAmI(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("X-User", ctxutil.GetUserID(request.Context()))
	writer.WriteHeader(http.StatusOK)
}

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate covers anonymous, malformed, rejected and accepted tokens.
*/
func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{token: "good", claims: &sec.AuthClaims{UserID: "u-1", Role: string(sec.RoleMember)}}
	handler := middleware.Authenticate(verifier)(http.HandlerFunc(whoAmI))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "anonymous", wantStatus: http.StatusOK},
		{name: "malformed", header: "Token good", wantStatus: http.StatusUnauthorized},
		{name: "rejected", header: "Bearer forged", wantStatus: http.StatusUnauthorized},
		{name: "accepted", header: "Bearer good", wantStatus: http.StatusOK, wantUser: "u-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/Manga/GetManga", nil)
			if tc.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tc.header)
			}
			recorder := serve(handler, request)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			assert.Equal(t, tc.wantUser, recorder.Header().Get("X-User"))
		})
	}
}

func TestAuthenticate_HubAcceptsQueryToken(t *testing.T) {
	verifier := stubVerifier{token: "good", claims: &sec.AuthClaims{UserID: "u-2"}}
	handler := middleware.Authenticate(verifier)(http.HandlerFunc(whoAmI))

	onHub := serve(handler, httptest.NewRequest(http.MethodGet, constants.HubPath+"?access_token=good", nil))
	assert.Equal(t, "u-2", onHub.Header().Get("X-User"))

	elsewhere := serve(handler, httptest.NewRequest(http.MethodGet, "/Manga/GetManga?access_token=good", nil))
	assert.Equal(t, http.StatusOK, elsewhere.Code)
	assert.Empty(t, elsewhere.Header().Get("X-User"))
}

func TestRequireRole(t *testing.T) {
	guarded := middleware.RequireRole(sec.RoleAdmin)(http.HandlerFunc(whoAmI))

	withRole := func(role sec.UserRole) *http.Request {
		request := httptest.NewRequest(http.MethodPost, "/Manga/AddChapter", nil)
		claims := &sec.AuthClaims{UserID: "u-3", Role: string(role)}
		return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	assert.Equal(t, http.StatusUnauthorized, serve(guarded, httptest.NewRequest(http.MethodPost, "/", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(guarded, withRole(sec.RoleMember)).Code)
	assert.Equal(t, http.StatusOK, serve(guarded, withRole(sec.RoleAdmin)).Code)
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("X-Seen", ctxutil.GetRequestID(request.Context()))
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "req-42")
	recorder := serve(handler, request)

	assert.Equal(t, "req-42", recorder.Header().Get(constants.HeaderXRequestID))
	assert.Equal(t, "req-42", recorder.Header().Get("X-Seen"))
}
