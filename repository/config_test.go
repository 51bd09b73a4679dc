// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefinitions(t *testing.T) {
	t.Parallel()

	t.Run("missing file is empty config", func(t *testing.T) {
		t.Parallel()

		defs, err := LoadDefinitions(filepath.Join(t.TempDir(), "repositories.toml"))
		require.NoError(t, err)
		require.Empty(t, defs)
	})

	t.Run("malformed file errors", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "repositories.toml")
		require.NoError(t, os.WriteFile(path, []byte("[[repositories\nname ="), 0o644))

		_, err := LoadDefinitions(path)
		require.ErrorContains(t, err, "parsing")
	})
}

func TestSaveAndLoadDefinitionsRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config", "repositories.toml")
	defs := []*Definition{
		{
			Name:     "central",
			Type:     TypeHTTPRegistry,
			Priority: 0,
			IndexURL: "https://registry.example.com/index",
			Auth:     &Auth{Type: AuthTypePat, EnvVar: "REGISTRY_TOKEN"},
		},
		{
			Name:     "market",
			Type:     TypeGitMarketplace,
			Priority: 10,
			URL:      "git@github.com:acme/skills.git",
			Branch:   "main",
		},
	}

	require.NoError(t, SaveDefinitions(path, defs))

	loaded, err := LoadDefinitions(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, defs[0].IndexURL, loaded[0].IndexURL)
	require.Equal(t, AuthTypePat, loaded[0].Auth.Type)
	require.Equal(t, "main", loaded[1].Branch)

	// Atomic save leaves no temp files next to the config.
	dir, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, dir, 1)
}

func TestSaveDefinitionsRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "repositories.toml")
	err := SaveDefinitions(path, []*Definition{{Name: "broken", Type: TypeHTTPRegistry}})
	require.ErrorContains(t, err, "invalid index_url")

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "nothing written on validation failure")
}
