// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package group provides validation functions for install group names.

Install groups organize a project's skill dependencies the way dependency
groups do in other package managers: a dependency tagged ["dev"] is skipped
by production installs. Group names travel through TOML manifests and CLI
flags, so this package keeps them to a conservative charset.

# Name Validation

Validate group names against naming rules:

	if err := group.ValidateName("dev-tools"); err != nil {
		// Handle invalid group name
	}

Valid group names must:
  - Be non-empty (not just whitespace)
  - Start with a lowercase alphanumeric character
  - Contain only lowercase alphanumerics, underscores, and dashes
  - Not contain null bytes

# Examples

Valid names:

	"dev"
	"dev-tools"
	"ci_2024"

Invalid names:

	""            // empty
	"Dev"         // uppercase
	"dev tools"   // spaces
	"-dev"        // leading dash
*/
package group
