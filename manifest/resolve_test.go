// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const projectManifest = `
[dependencies]
web-scraper = "^1.0.0"

[tool.skillpack]
skills_directory = ".skills"
`

func TestResolveProjectFile(t *testing.T) {
	t.Parallel()

	t.Run("found in start directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), projectManifest)

		res, err := ResolveProjectFile(dir)
		require.NoError(t, err)
		require.True(t, res.Found)
		require.Equal(t, filepath.Join(dir, ManifestFileName), res.Path)
		require.Equal(t, ContextProject, res.Context)
	})

	t.Run("walks up to parent", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), projectManifest)
		sub := filepath.Join(dir, "src", "deep")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		res, err := ResolveProjectFile(sub)
		require.NoError(t, err)
		require.True(t, res.Found)
		require.Equal(t, filepath.Join(dir, ManifestFileName), res.Path)
	})

	t.Run("closest file wins", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), projectManifest)
		sub := filepath.Join(dir, "nested")
		writeFile(t, filepath.Join(sub, ManifestFileName), projectManifest)

		res, err := ResolveProjectFile(sub)
		require.NoError(t, err)
		require.Equal(t, filepath.Join(sub, ManifestFileName), res.Path)
	})

	t.Run("not found returns would-be path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		res, err := ResolveProjectFile(dir)
		require.NoError(t, err)
		require.False(t, res.Found)
		require.Equal(t, filepath.Join(dir, ManifestFileName), res.Path)
	})
}

func TestContextDetection(t *testing.T) {
	t.Parallel()

	t.Run("sibling skill document wins", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), "[metadata]\nid = \"tool\"\nversion = \"1.0.0\"\n")
		writeFile(t, filepath.Join(dir, SkillDocFileName), "# Tool\n")

		res, err := ResolveProjectFile(dir)
		require.NoError(t, err)
		require.Equal(t, ContextSkill, res.Context)
	})

	t.Run("dependencies mean project", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), "[dependencies]\nx = \"1.0.0\"\n")

		res, err := ResolveProjectFile(dir)
		require.NoError(t, err)
		require.Equal(t, ContextProject, res.Context)
	})

	t.Run("metadata without skill document stays project", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), "[metadata]\nid = \"workspace\"\nversion = \"1.0.0\"\n")

		res, err := ResolveProjectFile(dir)
		require.NoError(t, err)
		require.Equal(t, ContextProject, res.Context)
	})

	t.Run("empty manifest is ambiguous", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), "")

		res, err := ResolveProjectFile(dir)
		require.NoError(t, err)
		require.Equal(t, ContextAmbiguous, res.Context)
	})
}

func TestRequireProject(t *testing.T) {
	t.Parallel()

	t.Run("valid project", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), projectManifest)

		cfg, err := RequireProject(dir)
		require.NoError(t, err)
		require.Equal(t, dir, cfg.Root)
		require.Equal(t, filepath.Join(dir, ".skills"), cfg.SkillsDir)
		require.Equal(t, filepath.Join(dir, LockFileName), cfg.LockPath())
		require.Contains(t, cfg.Manifest.Dependencies, "web-scraper")
	})

	t.Run("absolute skills directory kept", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		skills := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName),
			"[dependencies]\nx = \"1.0.0\"\n\n[tool.skillpack]\nskills_directory = \""+skills+"\"\n")

		cfg, err := RequireProject(dir)
		require.NoError(t, err)
		require.Equal(t, skills, cfg.SkillsDir)
	})

	t.Run("missing manifest fails with guidance", func(t *testing.T) {
		t.Parallel()

		_, err := RequireProject(t.TempDir())
		require.ErrorContains(t, err, "not found")
	})

	t.Run("skill context refused", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), "[metadata]\nid = \"tool\"\nversion = \"1.0.0\"\n")
		writeFile(t, filepath.Join(dir, SkillDocFileName), "# Tool\n")

		_, err := RequireProject(dir)
		require.ErrorContains(t, err, "belongs to a skill")
	})

	t.Run("ambiguous context fails fast", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), "")

		_, err := RequireProject(dir)
		require.ErrorIs(t, err, ErrAmbiguous)
	})

	t.Run("missing skills directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestFileName), "[dependencies]\nx = \"1.0.0\"\n")

		_, err := RequireProject(dir)
		require.ErrorContains(t, err, "skills_directory")
	})
}

func TestReadSkillDoc(t *testing.T) {
	t.Parallel()

	t.Run("front matter parsed", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, SkillDocFileName), `---
name: web-scraper
version: 1.0.0
description: Scrape pages
tags: [web, http]
---

# Web Scraper
`)

		doc, err := ReadSkillDoc(dir)
		require.NoError(t, err)
		require.Equal(t, "web-scraper", doc.Name)
		require.Equal(t, "1.0.0", doc.Version)
		require.Equal(t, []string{"web", "http"}, doc.Tags)
	})

	t.Run("no front matter yields empty doc", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, SkillDocFileName), "# Just a title\n")

		doc, err := ReadSkillDoc(dir)
		require.NoError(t, err)
		require.Empty(t, doc.Name)
	})

	t.Run("missing document errors", func(t *testing.T) {
		t.Parallel()

		_, err := ReadSkillDoc(t.TempDir())
		require.Error(t, err)
	})
}
