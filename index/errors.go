// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package index

import "errors"

var (
	// ErrValidation indicates a malformed name, version, or entry. It is
	// always detected before any index file is opened.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates an attempt to publish a version that already
	// exists in the index. Republishing requires a version bump; there is no
	// overwrite path.
	ErrConflict = errors.New("version already published")

	// ErrNotFound indicates the requested version has never been published.
	ErrNotFound = errors.New("version not found")

	// ErrLockTimeout indicates the per-file lock could not be acquired
	// within the store's lock timeout.
	ErrLockTimeout = errors.New("timed out waiting for index file lock")
)
