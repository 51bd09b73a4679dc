// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

// VersionEntry is one published version of a skill, stored as a single
// newline-delimited JSON record in the skill's index file.
//
// An entry is written once at publish time and never modified afterwards,
// with one exception: the Yanked flag, which soft-deletes the version for
// new installs while keeping the record available to existing lock files.
type VersionEntry struct {
	// Name is the normalized skill name this entry belongs to.
	Name string `json:"name"`
	// Vers is the exact published version (MAJOR.MINOR.PATCH).
	Vers string `json:"vers"`
	// Deps lists the skill's declared dependencies as recorded at publish.
	Deps []Dependency `json:"deps"`
	// Cksum is the sha256 checksum of the packaged artifact, prefixed "sha256:".
	Cksum string `json:"cksum"`
	// Features maps optional feature names to the dependencies they enable.
	Features map[string][]string `json:"features"`
	// Yanked marks the version as unusable for new installs.
	Yanked bool `json:"yanked"`
	// Links is an optional native-link hint carried over from the publish payload.
	Links string `json:"links,omitempty"`
	// DownloadURL is where the packaged artifact can be fetched from.
	DownloadURL string `json:"download_url"`
	// PublishedAt is the publish timestamp.
	PublishedAt time.Time `json:"published_at"`
	// Metadata carries display information for registry listings.
	Metadata *Metadata `json:"metadata,omitempty"`
	// ScopedName preserves the original scoped spelling (e.g. "@acme/tool")
	// when the skill was published under a scope alias.
	ScopedName string `json:"scoped_name,omitempty"`
}

// Dependency is a single declared dependency of a published version.
type Dependency struct {
	// Name is the normalized name of the required skill.
	Name string `json:"name"`
	// Req is the version requirement, e.g. "^1.2.0".
	Req string `json:"req"`
	// Features lists the features to enable on the dependency.
	Features []string `json:"features"`
	// Optional marks the dependency as not required by default.
	Optional bool `json:"optional"`
	// DefaultFeatures controls whether the dependency's default features apply.
	DefaultFeatures bool `json:"default_features"`
	// Target restricts the dependency to a platform, if set.
	Target string `json:"target,omitempty"`
	// Kind distinguishes normal from development dependencies, if set.
	Kind string `json:"kind,omitempty"`
}

// Metadata is the display metadata attached to a version entry.
type Metadata struct {
	Description  string   `json:"description,omitempty"`
	Author       string   `json:"author,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	License      string   `json:"license,omitempty"`
	Repository   string   `json:"repository,omitempty"`
}

// Latest selects the entry a versionless install should resolve to: the
// highest non-yanked semantic version. If every version is yanked, it still
// returns the highest version with Yanked set, so existing lock files remain
// reproducible; the caller decides whether a yanked entry is acceptable.
// Entries whose version does not parse are ignored. Returns nil for an empty
// history.
func Latest(entries []VersionEntry) *VersionEntry {
	var best *VersionEntry
	var bestVers *semver.Version
	var bestAny *VersionEntry
	var bestAnyVers *semver.Version

	for i := range entries {
		v, err := semver.StrictNewVersion(entries[i].Vers)
		if err != nil {
			continue
		}
		if bestAnyVers == nil || v.GreaterThan(bestAnyVers) {
			bestAny, bestAnyVers = &entries[i], v
		}
		if entries[i].Yanked {
			continue
		}
		if bestVers == nil || v.GreaterThan(bestVers) {
			best, bestVers = &entries[i], v
		}
	}

	if best != nil {
		return best
	}
	return bestAny
}
