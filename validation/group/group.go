// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package group provides validation functions for install group names.
package group

import (
	"fmt"
	"regexp"
	"strings"
)

var validNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateName validates an install group name. Group names appear as TOML
// values and CLI flag arguments, so they are restricted to lowercase
// alphanumerics, underscores and dashes, starting with an alphanumeric.
func ValidateName(name string) error {
	if name == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("group name cannot be empty or consist only of whitespace")
	}

	if strings.Contains(name, "\x00") {
		return fmt.Errorf("group name cannot contain null bytes")
	}

	if name != strings.ToLower(name) {
		return fmt.Errorf("group name must be lowercase: %q", name)
	}

	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("group name can only contain lowercase alphanumeric characters, underscores, and dashes: %q", name)
	}

	return nil
}
