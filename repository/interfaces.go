// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
)

// Fetcher materializes repository content on local disk. Git clones, ZIP
// downloads, and local-path resolution all happen behind this interface; the
// client only reads the returned directory.
type Fetcher interface {
	// Fetch ensures the repository's content is available locally and
	// returns the directory it lives in.
	Fetch(ctx context.Context, def *Definition) (string, error)
}
