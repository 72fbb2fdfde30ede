// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

The catalog endpoints take most of their input from the query string and from
multipart forms, so parsing helpers here return [apperr] validation errors
naming the offending field.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/ctxutil"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
	"github.com/taibuivan/mangaonline/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// # Query String

/*
Query returns the trimmed query parameter value.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
QueryRequired returns the query parameter or a validation error when it is empty.
*/
func QueryRequired(request *http.Request, name string) (string, error) {
	value := Query(request, name)
	if value == "" {
		return "", validate.RequiredError(name, "This field is required")
	}
	return value, nil
}

/*
QueryInt parses a required integer query parameter.
*/
func QueryInt(request *http.Request, name string) (int, error) {
	raw, err := QueryRequired(request, name)
	if err != nil {
		return 0, err
	}
	return parseInt(name, raw)
}

/*
QueryOptionalInt parses an optional integer query parameter. A nil pointer means absent.
*/
func QueryOptionalInt(request *http.Request, name string) (*int, error) {
	raw := Query(request, name)
	if raw == "" {
		return nil, nil
	}
	value, err := parseInt(name, raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// # Multipart Forms

/*
FormValue returns the trimmed form field value.
*/
func FormValue(request *http.Request, name string) string {
	return strings.TrimSpace(request.FormValue(name))
}

/*
FormInt parses a required integer form field.
*/
func FormInt(request *http.Request, name string) (int, error) {
	raw := FormValue(request, name)
	if raw == "" {
		return 0, validate.RequiredError(name, "This field is required")
	}
	return parseInt(name, raw)
}

/*
FormBool parses an optional boolean form field, defaulting to fallback.
*/
func FormBool(request *http.Request, name string, fallback bool) (bool, error) {
	raw := FormValue(request, name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, validate.RequiredError(name, "Must be true or false")
	}
	return value, nil
}

func parseInt(name, raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validate.RequiredError(name, "Must be an integer")
	}
	return value, nil
}

// # Identity

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
