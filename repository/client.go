// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/stacklok/skillpack-core/env"
	"github.com/stacklok/skillpack-core/httperr"
	"github.com/stacklok/skillpack-core/index"
	"github.com/stacklok/skillpack-core/logger"
	"github.com/stacklok/skillpack-core/names"
)

const (
	// defaultHTTPTimeout bounds a single registry request when the caller's
	// context carries no deadline of its own.
	defaultHTTPTimeout = 30 * time.Second

	// marketplaceFileName is the catalog file at the root of git, zip and
	// local repositories.
	marketplaceFileName = "marketplace.json"

	userAgent = "skillpack/1.0"
)

// Skill is the client-facing summary of one available skill.
type Skill struct {
	ID          string
	Name        string
	Description string
	Version     string
	Author      string
	Yanked      bool
	DownloadURL string
}

// Client answers skill queries for a single repository definition. The four
// backend kinds are a closed set, so methods dispatch on the definition type
// directly instead of hiding each backend behind its own implementation.
//
// A Client holds no resolved credentials; auth headers are rebuilt from the
// environment on every request.
type Client struct {
	def     *Definition
	httpc   *http.Client
	fetcher Fetcher
	environ env.Reader
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for registry requests.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithFetcher supplies the collaborator that materializes git, zip and local
// repository content on disk.
func WithFetcher(fetcher Fetcher) ClientOption {
	return func(c *Client) {
		c.fetcher = fetcher
	}
}

// WithEnvReader overrides where auth secrets are resolved from.
func WithEnvReader(environ env.Reader) ClientOption {
	return func(c *Client) {
		c.environ = environ
	}
}

// NewClient creates a client for the given repository definition.
func NewClient(def *Definition, opts ...ClientOption) (*Client, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		def:     def,
		httpc:   &http.Client{Timeout: defaultHTTPTimeout},
		environ: &env.OSReader{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Definition returns the definition this client serves.
func (c *Client) Definition() *Definition {
	return c.def
}

// ListSkills returns every skill the repository offers, one entry per skill
// at its latest version.
func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	switch c.def.Type {
	case TypeHTTPRegistry:
		return c.listRegistrySkills(ctx)
	case TypeGitMarketplace, TypeZipURL, TypeLocal:
		return c.listMarketplaceSkills(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSupported, c.def.Type)
	}
}

// GetSkill returns the named skill. With an empty version it returns the
// highest non-yanked version; when every version is yanked it still returns
// the highest one with Yanked set, so an existing lock file stays
// resolvable. A skill with no published versions returns ErrNotFound.
func (c *Client) GetSkill(ctx context.Context, id, version string) (*Skill, error) {
	switch c.def.Type {
	case TypeHTTPRegistry:
		entries, err := c.fetchIndexEntries(ctx, id)
		if err != nil {
			return nil, err
		}

		var entry *index.VersionEntry
		if version == "" {
			entry = index.Latest(entries)
		} else {
			for i := range entries {
				if entries[i].Vers == version {
					entry = &entries[i]
					break
				}
			}
		}
		if entry == nil {
			return nil, fmt.Errorf("skill %s@%s: %w", id, displayVersion(version), ErrNotFound)
		}
		skill := entryToSkill(entry)
		return &skill, nil

	case TypeGitMarketplace, TypeZipURL, TypeLocal:
		skills, err := c.listMarketplaceSkills(ctx)
		if err != nil {
			return nil, err
		}
		for i := range skills {
			if skills[i].ID != id {
				continue
			}
			if version == "" || skills[i].Version == version {
				return &skills[i], nil
			}
		}
		return nil, fmt.Errorf("skill %s@%s: %w", id, displayVersion(version), ErrNotFound)

	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSupported, c.def.Type)
	}
}

// GetVersions returns every published version of a skill, newest first. A
// skill with no published versions yields an empty slice, not an error.
func (c *Client) GetVersions(ctx context.Context, id string) ([]string, error) {
	var versions []string

	switch c.def.Type {
	case TypeHTTPRegistry:
		entries, err := c.fetchIndexEntries(ctx, id)
		if err != nil {
			return nil, err
		}
		versions = make([]string, 0, len(entries))
		for i := range entries {
			versions = append(versions, entries[i].Vers)
		}

	case TypeGitMarketplace, TypeZipURL, TypeLocal:
		skills, err := c.listMarketplaceSkills(ctx)
		if err != nil {
			return nil, err
		}
		versions = make([]string, 0, 1)
		for i := range skills {
			if skills[i].ID == id {
				versions = append(versions, skills[i].Version)
			}
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSupported, c.def.Type)
	}

	sortVersionsDescending(versions)
	return versions, nil
}

// Search returns skills whose id, name or description contains the query,
// case-insensitively.
func (c *Client) Search(ctx context.Context, query string) ([]Skill, error) {
	skills, err := c.ListSkills(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]Skill, 0, len(skills))
	for _, skill := range skills {
		if strings.Contains(strings.ToLower(skill.ID), needle) ||
			strings.Contains(strings.ToLower(skill.Name), needle) ||
			strings.Contains(strings.ToLower(skill.Description), needle) {
			matches = append(matches, skill)
		}
	}
	return matches, nil
}

// Download fetches the package bytes for an exact skill version and verifies
// them against the published checksum. Only HTTP registries publish download
// URLs; other backends return ErrNotSupported.
func (c *Client) Download(ctx context.Context, id, version string) ([]byte, error) {
	if c.def.Type != TypeHTTPRegistry {
		return nil, fmt.Errorf("download: %w: %s", ErrNotSupported, c.def.Type)
	}

	entries, err := c.fetchIndexEntries(ctx, id)
	if err != nil {
		return nil, err
	}

	var entry *index.VersionEntry
	for i := range entries {
		if entries[i].Vers == version {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("skill %s@%s: %w", id, version, ErrNotFound)
	}
	if entry.Yanked {
		return nil, fmt.Errorf("skill %s@%s has been yanked", id, version)
	}

	body, err := c.get(ctx, entry.DownloadURL)
	if err != nil {
		return nil, err
	}

	sum := fmt.Sprintf("sha256:%x", sha256.Sum256(body))
	if sum != entry.Cksum {
		return nil, fmt.Errorf("checksum mismatch for %s@%s: expected %s, got %s", id, version, entry.Cksum, sum)
	}

	return body, nil
}

// listRegistrySkills queries the registry's skill listing endpoint.
func (c *Client) listRegistrySkills(ctx context.Context) ([]Skill, error) {
	url := strings.TrimSuffix(c.def.IndexURL, "/") + "/api/registry/index/skills"

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var summaries []skillSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	skills := make([]Skill, 0, len(summaries))
	for _, s := range summaries {
		skills = append(skills, Skill{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Version:     s.LatestVersion,
		})
	}
	return skills, nil
}

// skillSummary is one row of the registry listing endpoint.
type skillSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	LatestVersion string `json:"latest_version"`
}

// marketplaceFile is the catalog format of git, zip and local repositories.
type marketplaceFile struct {
	Version string             `json:"version"`
	Skills  []marketplaceSkill `json:"skills"`
}

type marketplaceSkill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// listMarketplaceSkills fetches the repository content through the Fetcher
// collaborator and reads its marketplace.json catalog.
func (c *Client) listMarketplaceSkills(ctx context.Context) ([]Skill, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("repository %q: no fetcher configured for type %s", c.def.Name, c.def.Type)
	}

	dir, err := c.fetcher.Fetch(ctx, c.def)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %q: %w", c.def.Name, err)
	}

	path := filepath.Join(dir, marketplaceFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var catalog marketplaceFile
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, &DecodeError{URL: path, Err: err}
	}

	skills := make([]Skill, 0, len(catalog.Skills))
	for _, s := range catalog.Skills {
		skills = append(skills, Skill{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Version:     s.Version,
			Author:      s.Author,
			DownloadURL: s.DownloadURL,
		})
	}
	return skills, nil
}

// fetchIndexEntries reads a skill's NDJSON index file from the registry. A
// 404 means the skill has never been published and yields an empty slice.
func (c *Client) fetchIndexEntries(ctx context.Context, id string) ([]index.VersionEntry, error) {
	if err := names.Validate(id); err != nil {
		return nil, err
	}
	normalized := names.Normalize(id)

	shard := filepath.ToSlash(names.IndexPath("", normalized))
	url := strings.TrimSuffix(c.def.IndexURL, "/") + "/" + shard

	body, err := c.get(ctx, url)
	if err != nil {
		if httperr.Code(err) == http.StatusNotFound {
			return []index.VersionEntry{}, nil
		}
		return nil, err
	}

	entries := make([]index.VersionEntry, 0, 8)
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry index.VersionEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			logger.Warnw("skipping malformed index record",
				"repository", c.def.Name,
				"skill", normalized,
				"error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	return entries, nil
}

// get performs an authenticated GET and returns the response body. Transport
// failures become NetworkError; 401/403 map onto the package sentinels; any
// other non-2xx status carries its code via httperr.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	if c.def.Auth != nil && c.def.Auth.Configured(c.environ) {
		header, err := c.def.Auth.Header(c.environ)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", header)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(http.MethodGet, url, resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}

func entryToSkill(entry *index.VersionEntry) Skill {
	skill := Skill{
		ID:          entry.Name,
		Name:        entry.Name,
		Version:     entry.Vers,
		Yanked:      entry.Yanked,
		DownloadURL: entry.DownloadURL,
	}
	if entry.Metadata != nil {
		skill.Description = entry.Metadata.Description
		skill.Author = entry.Metadata.Author
	}
	return skill
}

// sortVersionsDescending orders versions newest first. Anything that fails
// to parse as semver sorts after everything that does.
func sortVersionsDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, erri := semver.StrictNewVersion(versions[i])
		vj, errj := semver.StrictNewVersion(versions[j])
		switch {
		case erri == nil && errj == nil:
			return vi.GreaterThan(vj)
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return versions[i] > versions[j]
		}
	})
}

func displayVersion(version string) string {
	if version == "" {
		return "latest"
	}
	return version
}
