// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"fmt"

	vldhttp "github.com/stacklok/skillpack-core/validation/http"
)

// Type identifies one of the supported repository backends. The set is
// closed; client behavior dispatches on it directly.
type Type string

// Supported repository types.
const (
	// TypeGitMarketplace is a git repository carrying a marketplace.json.
	TypeGitMarketplace Type = "git-marketplace"
	// TypeHTTPRegistry is an HTTP registry serving a sharded NDJSON index.
	TypeHTTPRegistry Type = "http-registry"
	// TypeZipURL is a ZIP base URL carrying a marketplace.json.
	TypeZipURL Type = "zip-url"
	// TypeLocal is a local directory.
	TypeLocal Type = "local"
)

// Definition describes a single configured repository. Connection fields are
// flattened next to the common ones so the persisted TOML stays one table per
// repository; which fields are meaningful depends on Type.
//
// Definitions hold only references to secrets (environment variable names,
// key file paths), never secret values, so they are safe to persist and log.
type Definition struct {
	// Name is the unique key for this repository.
	Name string `toml:"name" json:"name"`

	// Type selects the backend kind.
	Type Type `toml:"type" json:"type"`

	// Priority orders repositories; lower values win. Zero is the highest
	// priority.
	Priority uint32 `toml:"priority" json:"priority"`

	// URL is the git clone URL (git-marketplace only).
	URL string `toml:"url,omitempty" json:"url,omitempty"`

	// Branch optionally pins a git branch (git-marketplace only).
	Branch string `toml:"branch,omitempty" json:"branch,omitempty"`

	// Tag optionally pins a git tag (git-marketplace only).
	Tag string `toml:"tag,omitempty" json:"tag,omitempty"`

	// IndexURL is the base URL of the version index (http-registry only).
	IndexURL string `toml:"index_url,omitempty" json:"index_url,omitempty"`

	// BaseURL is the base URL packages are fetched under (zip-url only).
	BaseURL string `toml:"base_url,omitempty" json:"base_url,omitempty"`

	// Path is the directory holding skills (local only).
	Path string `toml:"path,omitempty" json:"path,omitempty"`

	// Auth optionally configures how requests authenticate.
	Auth *Auth `toml:"auth,omitempty" json:"auth,omitempty"`

	// Storage optionally configures the storage backend serving package
	// content for this repository.
	Storage *Storage `toml:"storage,omitempty" json:"storage,omitempty"`
}

// Storage configures where a repository's package content lives when it is
// served separately from the index.
type Storage struct {
	// Type names the storage backend, e.g. "s3" or "http".
	Type string `toml:"type" json:"type"`

	Repository string `toml:"repository,omitempty" json:"repository,omitempty"`
	Bucket     string `toml:"bucket,omitempty" json:"bucket,omitempty"`
	Region     string `toml:"region,omitempty" json:"region,omitempty"`
	Endpoint   string `toml:"endpoint,omitempty" json:"endpoint,omitempty"`
	BaseURL    string `toml:"base_url,omitempty" json:"base_url,omitempty"`
}

// Validate checks that the definition is complete for its type.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("repository name must not be empty")
	}

	switch d.Type {
	case TypeGitMarketplace:
		if d.URL == "" {
			return fmt.Errorf("repository %q: git-marketplace requires url", d.Name)
		}
	case TypeHTTPRegistry:
		if err := vldhttp.ValidateRegistryURL(d.IndexURL); err != nil {
			return fmt.Errorf("repository %q: invalid index_url: %w", d.Name, err)
		}
	case TypeZipURL:
		if err := vldhttp.ValidateRegistryURL(d.BaseURL); err != nil {
			return fmt.Errorf("repository %q: invalid base_url: %w", d.Name, err)
		}
	case TypeLocal:
		if d.Path == "" {
			return fmt.Errorf("repository %q: local requires path", d.Name)
		}
	default:
		return fmt.Errorf("repository %q: unknown type %q", d.Name, d.Type)
	}

	if d.Auth != nil {
		if err := d.Auth.Validate(); err != nil {
			return fmt.Errorf("repository %q: %w", d.Name, err)
		}
	}

	return nil
}
