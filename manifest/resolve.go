// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SkillDocFileName is the skill document whose presence next to a manifest
// marks skill context.
const SkillDocFileName = "SKILL.md"

// ErrAmbiguous indicates a manifest whose context cannot be determined from
// location or content. Project-level operations fail fast on it instead of
// guessing.
var ErrAmbiguous = errors.New("manifest context is ambiguous")

// Context classifies what a manifest describes.
type Context int

const (
	// ContextProject is a project consuming skills.
	ContextProject Context = iota
	// ContextSkill is a skill being authored, marked by a sibling SKILL.md.
	ContextSkill
	// ContextAmbiguous means neither location nor content settles it.
	ContextAmbiguous
)

// String implements fmt.Stringer.
func (c Context) String() string {
	switch c {
	case ContextProject:
		return "project"
	case ContextSkill:
		return "skill"
	default:
		return "ambiguous"
	}
}

// Resolution is the outcome of locating a project manifest.
type Resolution struct {
	// Path is the manifest location: the found file, or where one would be
	// created under the starting directory when Found is false.
	Path string
	// Found reports whether a manifest exists.
	Found bool
	// Context is the detected manifest context. Meaningless when Found is
	// false.
	Context Context
}

// ResolveProjectFile walks from start up the directory tree and returns the
// closest skill-project.toml. Resolution is purely a function of the starting
// path; there is no process-wide state involved.
func ResolveProjectFile(start string) (Resolution, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolving start path: %w", err)
	}

	for {
		candidate := filepath.Join(current, ManifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			ctx, err := detectContext(candidate)
			if err != nil {
				return Resolution{}, err
			}
			return Resolution{Path: candidate, Found: true, Context: ctx}, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolving start path: %w", err)
	}
	return Resolution{Path: filepath.Join(abs, ManifestFileName), Found: false, Context: ContextProject}, nil
}

// detectContext classifies a manifest. File location is authoritative: a
// SKILL.md in the same directory means skill context. Without one the content
// decides, and a manifest with neither publish metadata nor dependencies is
// ambiguous. A project-level manifest may legitimately carry [metadata], so
// content never upgrades to skill context on its own.
func detectContext(manifestPath string) (Context, error) {
	dir := filepath.Dir(manifestPath)
	if _, err := os.Stat(filepath.Join(dir, SkillDocFileName)); err == nil {
		return ContextSkill, nil
	}

	m, err := Load(manifestPath)
	if err != nil {
		return ContextAmbiguous, err
	}

	if len(m.Dependencies) > 0 || m.Tool != nil {
		return ContextProject, nil
	}
	if m.Metadata != nil && (m.Metadata.ID != "" || m.Metadata.Version != "") {
		return ContextProject, nil
	}
	return ContextAmbiguous, nil
}

// ProjectConfig is the validated configuration project-level operations run
// against.
type ProjectConfig struct {
	// Root is the directory containing the manifest.
	Root string
	// FilePath is the manifest location.
	FilePath string
	// SkillsDir is the resolved absolute skills directory.
	SkillsDir string
	// Manifest is the decoded manifest.
	Manifest *Manifest
}

// LockPath returns where the project's lock file lives.
func (p *ProjectConfig) LockPath() string {
	return filepath.Join(p.Root, LockFileName)
}

// RequireProject resolves and validates project configuration starting from
// the given directory. It fails fast with remediation guidance when no
// manifest exists, when the closest manifest belongs to a skill, when its
// context is ambiguous, or when the skills directory is not configured.
func RequireProject(start string) (*ProjectConfig, error) {
	res, err := ResolveProjectFile(start)
	if err != nil {
		return nil, err
	}

	if !res.Found {
		return nil, fmt.Errorf("%s not found in this directory or any parent: create one at the top level of your workspace and retry", ManifestFileName)
	}

	switch res.Context {
	case ContextSkill:
		return nil, fmt.Errorf("%s at %s belongs to a skill (same directory as %s): run project operations from the project root", ManifestFileName, res.Path, SkillDocFileName)
	case ContextAmbiguous:
		return nil, fmt.Errorf("%w: %s has neither publish metadata nor dependencies; add a [dependencies] section or publish metadata to settle it", ErrAmbiguous, res.Path)
	}

	m, err := Load(res.Path)
	if err != nil {
		return nil, err
	}

	var skillsDir string
	if m.Tool != nil && m.Tool.Skillpack != nil {
		skillsDir = m.Tool.Skillpack.SkillsDirectory
	}
	if skillsDir == "" {
		return nil, fmt.Errorf("project-level %s requires [tool.skillpack] with skills_directory", ManifestFileName)
	}

	root := filepath.Dir(res.Path)
	if !filepath.IsAbs(skillsDir) {
		skillsDir = filepath.Join(root, skillsDir)
	}

	return &ProjectConfig{
		Root:      root,
		FilePath:  res.Path,
		SkillsDir: skillsDir,
		Manifest:  m,
	}, nil
}
