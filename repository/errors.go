// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stacklok/skillpack-core/httperr"
)

var (
	// ErrUnauthorized indicates the repository rejected the request with
	// HTTP 401. Callers must not retry without fixing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the repository rejected the request with
	// HTTP 403. Callers must not retry.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the named repository or skill does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists indicates a repository with the same name is already
	// configured.
	ErrExists = errors.New("repository already exists")

	// ErrNotSupported indicates the operation has no meaning for the
	// repository's backend type.
	ErrNotSupported = errors.New("not supported for this repository type")
)

// NetworkError wraps a transport-level failure: connection refused, DNS,
// timeout, canceled context. These are transient; retrying is the caller's
// decision.
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError wraps a malformed payload from an otherwise successful
// response. Retrying will not help until the remote side is fixed.
type DecodeError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-2xx response status onto the package's error
// taxonomy. 404 is intentionally not mapped here; callers decide whether
// absence is an error for their operation.
func classifyStatus(method, url string, status int) error {
	switch status {
	case http.StatusUnauthorized:
		return httperr.WithCode(fmt.Errorf("%s %s: %w", method, url, ErrUnauthorized), status)
	case http.StatusForbidden:
		return httperr.WithCode(fmt.Errorf("%s %s: %w", method, url, ErrForbidden), status)
	default:
		return httperr.FromResponse(method, url, status)
	}
}
