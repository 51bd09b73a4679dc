// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDependencyForms(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(`
[metadata]
id = "web-scraper"
version = "1.0.0"
description = "Scrape pages"

[dependencies]
simple = "^1.0.0"
pinned = { version = "2.1.0", source = "team-tools" }
local = { path = "../skills/local-tool", editable = true }
grouped = { version = "0.5.0", groups = ["dev", "ci"] }

[tool.skillpack]
skills_directory = ".skills"
`))
	require.NoError(t, err)

	require.Equal(t, "web-scraper", m.Metadata.ID)
	require.Equal(t, "1.0.0", m.Metadata.Version)
	require.Equal(t, ".skills", m.Tool.Skillpack.SkillsDirectory)

	require.Len(t, m.Dependencies, 4)
	require.Equal(t, Dependency{Version: "^1.0.0"}, m.Dependencies["simple"])
	require.Equal(t, Dependency{Version: "2.1.0", Source: "team-tools"}, m.Dependencies["pinned"])
	require.Equal(t, Dependency{Path: "../skills/local-tool", Editable: true}, m.Dependencies["local"])
	require.Equal(t, Dependency{Version: "0.5.0", Groups: []string{"dev", "ci"}}, m.Dependencies["grouped"])
}

func TestParseDependencyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		toml    string
		wantErr string
	}{
		{
			name:    "number instead of version",
			toml:    "[dependencies]\nbad = 42\n",
			wantErr: "must be a version string or a table",
		},
		{
			name:    "table without version or path",
			toml:    "[dependencies]\nbad = { source = \"x\" }\n",
			wantErr: "requires a version or a path",
		},
		{
			name:    "unknown field",
			toml:    "[dependencies]\nbad = { version = \"1.0.0\", pin = true }\n",
			wantErr: "unknown field",
		},
		{
			name:    "groups of wrong type",
			toml:    "[dependencies]\nbad = { version = \"1.0.0\", groups = \"dev\" }\n",
			wantErr: "groups must be an array",
		},
		{
			name:    "invalid group name",
			toml:    "[dependencies]\nbad = { version = \"1.0.0\", groups = [\"Dev Tools\"] }\n",
			wantErr: "group name",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.toml))
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDependenciesForGroups(t *testing.T) {
	t.Parallel()

	m := &Manifest{
		Dependencies: map[string]Dependency{
			"core":    {Version: "1.0.0"},
			"devtool": {Version: "0.1.0", Groups: []string{"dev"}},
			"monitor": {Version: "2.1.0", Groups: []string{"prod"}},
		},
	}

	t.Run("no filters returns all", func(t *testing.T) {
		t.Parallel()
		require.Len(t, m.DependenciesForGroups(nil, nil), 3)
	})

	t.Run("exclude dev", func(t *testing.T) {
		t.Parallel()

		deps := m.DependenciesForGroups([]string{"dev"}, nil)
		require.Len(t, deps, 2)
		require.Contains(t, deps, "core")
		require.Contains(t, deps, "monitor")
	})

	t.Run("only prod", func(t *testing.T) {
		t.Parallel()

		deps := m.DependenciesForGroups(nil, []string{"prod"})
		require.Len(t, deps, 1)
		require.Contains(t, deps, "monitor")
	})

	t.Run("ungrouped excluded under only", func(t *testing.T) {
		t.Parallel()

		deps := m.DependenciesForGroups(nil, []string{"dev"})
		require.Len(t, deps, 1)
		require.Contains(t, deps, "devtool")
	})
}

func TestManifestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ManifestFileName)
	m := &Manifest{
		Metadata: &Metadata{ID: "web-scraper", Version: "1.0.0"},
		Dependencies: map[string]Dependency{
			"simple": {Version: "^1.0.0"},
			"pinned": {Version: "2.1.0", Source: "team-tools", Groups: []string{"dev"}},
		},
		Tool: &Tool{Skillpack: &ToolConfig{SkillsDirectory: ".skills"}},
	}

	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m.Metadata.ID, loaded.Metadata.ID)
	require.Equal(t, m.Dependencies["simple"], loaded.Dependencies["simple"])
	require.Equal(t, m.Dependencies["pinned"], loaded.Dependencies["pinned"])
	require.Equal(t, ".skills", loaded.Tool.Skillpack.SkillsDirectory)
}
