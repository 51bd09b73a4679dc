// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package names

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Scope separator in canonical names. Canonical form is "scope/name" or a
// bare "name"; the variants "@scope/name" and "scope:name" normalize to it.
const Separator = "/"

// segmentRe matches a single valid name or scope segment.
// Segments are case-sensitive; matching user intent on case is a registry
// policy decision, not a normalization concern.
var segmentRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// InvalidNameError reports a skill name that failed validation.
type InvalidNameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid skill name %q: %s", e.Name, e.Reason)
}

// Normalize canonicalizes a skill identifier. It trims surrounding
// whitespace, strips a leading "@" from "@scope/name", and replaces the first
// ":" with "/" in "scope:name". Any other input is returned unchanged, so the
// function is total and idempotent:
//
//	Normalize("@acme/web-scraper") == "acme/web-scraper"
//	Normalize("acme:web-scraper")  == "acme/web-scraper"
//	Normalize("acme/web-scraper")  == "acme/web-scraper"
//	Normalize("web-scraper")       == "web-scraper"
func Normalize(name string) string {
	trimmed := strings.TrimSpace(name)

	if strings.HasPrefix(trimmed, "@") && strings.Contains(trimmed, Separator) {
		return trimmed[1:]
	}

	if strings.Contains(trimmed, ":") {
		return strings.Replace(trimmed, ":", Separator, 1)
	}

	return trimmed
}

// Validate checks that a name, after normalization, is either "name" or
// "scope/name" with well-formed segments. It returns an *InvalidNameError
// describing the first violation found.
func Validate(name string) error {
	normalized := Normalize(name)
	if normalized == "" {
		return &InvalidNameError{Name: name, Reason: "name is empty"}
	}

	parts := strings.Split(normalized, Separator)
	if len(parts) > 2 {
		return &InvalidNameError{Name: name, Reason: "more than one scope separator"}
	}

	for _, part := range parts {
		if part == "" {
			return &InvalidNameError{Name: name, Reason: "empty scope or name segment"}
		}
		if !segmentRe.MatchString(part) {
			return &InvalidNameError{Name: name, Reason: fmt.Sprintf("segment %q contains invalid characters", part)}
		}
	}

	return nil
}

// Split breaks a normalized name into its scope and bare name. The scope is
// empty for unscoped names.
func Split(name string) (scope, bare string) {
	normalized := Normalize(name)
	if idx := strings.Index(normalized, Separator); idx >= 0 {
		return normalized[:idx], normalized[idx+1:]
	}
	return "", normalized
}

// IndexPath returns the deterministic on-disk location of the index file for
// a skill under the given registry root.
//
// Scoped names live under their scope directory: "acme/web-scraper" maps to
// <root>/acme/web-scraper. Unscoped names use the crates.io sharding scheme
// to keep any single directory small:
//
//	"a"    -> <root>/1/a
//	"ab"   -> <root>/2/ab
//	"abc"  -> <root>/3/a/abc
//	"abcd" -> <root>/ab/cd/abcd
func IndexPath(root, name string) string {
	scope, bare := Split(name)
	if scope != "" {
		return filepath.Join(root, scope, bare)
	}

	switch len(bare) {
	case 0:
		return filepath.Join(root, bare)
	case 1:
		return filepath.Join(root, "1", bare)
	case 2:
		return filepath.Join(root, "2", bare)
	case 3:
		return filepath.Join(root, "3", bare[:1], bare)
	default:
		return filepath.Join(root, bare[:2], bare[2:4], bare)
	}
}
