// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manager

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sony/gobreaker/v2"
)

// Kind classifies a failed API call.
type Kind string

const (
	// KindTimeout means the call ran past its deadline.
	KindTimeout Kind = "TIMEOUT"
	// KindNetwork means the API could not be reached, including an open breaker.
	KindNetwork Kind = "NETWORK"
	// KindStatus means the API answered with an error status.
	KindStatus Kind = "STATUS"
	// KindUnexpected covers everything else, such as an undecodable body.
	KindUnexpected Kind = "UNEXPECTED"
)

// Sentinels for errors.Is. They match any [CallError] of the same kind.
var (
	ErrTimeout    = &CallError{Kind: KindTimeout}
	ErrNetwork    = &CallError{Kind: KindNetwork}
	ErrStatus     = &CallError{Kind: KindStatus}
	ErrUnexpected = &CallError{Kind: KindUnexpected}
)

// CallError is returned by every [Client] method.
type CallError struct {
	Kind      Kind
	Operation string

	// StatusCode and Code are set for [KindStatus].
	StatusCode int
	Code       string
	Message    string

	Err error
}

func (e *CallError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: %s (status %d, %s)", e.Operation, e.Message, e.StatusCode, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Operation, e.Kind)
	}
}

func (e *CallError) Unwrap() error { return e.Err }

// Is matches on kind so callers can write errors.Is(err, manager.ErrTimeout).
func (e *CallError) Is(target error) bool {
	var other *CallError
	if !errors.As(target, &other) {
		return false
	}
	return other.Operation == "" && other.Kind == e.Kind
}

// serverFault reports whether the error should count against the breaker.
func (e *CallError) serverFault() bool {
	return e.Kind != KindStatus || e.StatusCode >= 500
}

// classify wraps a transport error.
func classify(operation string, err error) *CallError {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr
	}

	kind := KindUnexpected
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		kind = KindNetwork
	case netErr != nil:
		kind = KindNetwork
	}
	return &CallError{Kind: kind, Operation: operation, Err: err}
}
