// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateHeaderValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid token", "Bearer abc123", false},
		{"valid pat", "token ghp_abcdef", false},
		{"empty", "", true},
		{"crlf injection", "abc\r\nX-Injected: 1", true},
		{"control character", "abc\x00def", true},
		{"too long", strings.Repeat("a", 8193), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateHeaderValue(tt.value)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateRegistryURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://registry.example.com/index", false},
		{"http", "http://localhost:8080", false},
		{"empty", "", true},
		{"no scheme", "registry.example.com", true},
		{"wrong scheme", "ftp://registry.example.com", true},
		{"no host", "https://", true},
		{"fragment", "https://registry.example.com/index#frag", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateRegistryURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
