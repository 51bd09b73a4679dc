// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package http provides validation functions for HTTP headers and registry URLs.
package http

import (
	"fmt"
	"net/url"

	"golang.org/x/net/http/httpguts"
)

// ValidateHeaderValue validates that a string is a valid HTTP header value per RFC 7230.
// It checks for CRLF injection and control characters. Credentials resolved
// from environment variables pass through this before being attached to a
// request, so a poisoned value can never smuggle extra headers.
func ValidateHeaderValue(value string) error {
	if value == "" {
		return fmt.Errorf("header value cannot be empty")
	}

	// Length limit to prevent DoS (common HTTP server limit)
	if len(value) > 8192 {
		return fmt.Errorf("header value exceeds maximum length of 8192 bytes")
	}

	// Use httpguts validation (same as Go's HTTP/2 implementation)
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid HTTP header value: contains control characters")
	}

	return nil
}

// ValidateRegistryURL validates that a registry index or base URL is usable
// for building request URLs.
//
// A valid registry URL must:
//   - Include an http or https scheme
//   - Include a host
//   - Not contain fragments
func ValidateRegistryURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("registry URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid registry URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("registry URL must use http or https: %s", rawURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("registry URL must include a host: %s", rawURL)
	}

	if parsed.Fragment != "" {
		return fmt.Errorf("registry URL must not contain a fragment: %s", rawURL)
	}

	return nil
}
