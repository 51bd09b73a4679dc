// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/stacklok/skillpack-core/repository"
	"github.com/stacklok/skillpack-core/validation/group"
)

// ManifestFileName is the project manifest at the root of a skill or
// project directory.
const ManifestFileName = "skill-project.toml"

// Manifest is the user-authored skill-project.toml. All three sections are
// optional; which ones are present determines whether the file describes a
// skill being authored or a project consuming skills.
type Manifest struct {
	// Metadata describes the skill this directory publishes, if any.
	Metadata *Metadata

	// Dependencies declares the skills a project consumes, keyed by skill
	// name.
	Dependencies map[string]Dependency

	// Tool carries tool-specific configuration such as the skills
	// directory and extra repositories.
	Tool *Tool
}

// Metadata is the publish-time description of an authored skill.
type Metadata struct {
	// ID is the bare skill name, without a scope.
	ID string `toml:"id"`
	// Version is the semantic version to publish.
	Version string `toml:"version"`

	Description  string   `toml:"description,omitempty"`
	Author       string   `toml:"author,omitempty"`
	Tags         []string `toml:"tags,omitempty"`
	Capabilities []string `toml:"capabilities,omitempty"`
	DownloadURL  string   `toml:"download_url,omitempty"`
}

// Dependency is one declared dependency. In TOML it is written either as a
// bare version string:
//
//	web-scraper = "^1.0.0"
//
// or as a table when more than a constraint is needed:
//
//	web-scraper = { version = "^1.0.0", source = "team-tools", groups = ["dev"] }
type Dependency struct {
	// Version is the version constraint.
	Version string
	// Source optionally pins the dependency to a named repository.
	Source string
	// Path installs from a local directory instead of a repository.
	Path string
	// Groups assigns the dependency to install groups, Poetry-style. A
	// dependency with no groups belongs to the implicit main group.
	Groups []string
	// Editable skips staging: the local path is used in place.
	Editable bool
}

// Tool is the [tool] section.
type Tool struct {
	Skillpack *ToolConfig `toml:"skillpack,omitempty"`
}

// ToolConfig is the [tool.skillpack] section.
type ToolConfig struct {
	// SkillsDirectory is where installed skills live, relative to the
	// project root unless absolute.
	SkillsDirectory string `toml:"skills_directory,omitempty"`

	// Repositories declares project-scoped repositories, merged with the
	// user-level repositories.toml by the caller.
	Repositories []*repository.Definition `toml:"repositories,omitempty"`
}

// rawManifest is the decode target. Dependencies arrive as arbitrary TOML
// values because each one is either a string or a table.
type rawManifest struct {
	Metadata     *Metadata      `toml:"metadata"`
	Dependencies map[string]any `toml:"dependencies"`
	Tool         *Tool          `toml:"tool"`
}

// Load reads and decodes a skill-project.toml.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes manifest TOML.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	m := &Manifest{
		Metadata: raw.Metadata,
		Tool:     raw.Tool,
	}

	if raw.Dependencies != nil {
		m.Dependencies = make(map[string]Dependency, len(raw.Dependencies))
		for name, value := range raw.Dependencies {
			dep, err := decodeDependency(value)
			if err != nil {
				return nil, fmt.Errorf("dependency %q: %w", name, err)
			}
			m.Dependencies[name] = dep
		}
	}

	return m, nil
}

// decodeDependency normalizes the string and table forms of a dependency.
func decodeDependency(value any) (Dependency, error) {
	switch v := value.(type) {
	case string:
		return Dependency{Version: v}, nil
	case map[string]any:
		var dep Dependency
		for key, field := range v {
			switch key {
			case "version":
				s, ok := field.(string)
				if !ok {
					return dep, fmt.Errorf("version must be a string")
				}
				dep.Version = s
			case "source":
				s, ok := field.(string)
				if !ok {
					return dep, fmt.Errorf("source must be a string")
				}
				dep.Source = s
			case "path":
				s, ok := field.(string)
				if !ok {
					return dep, fmt.Errorf("path must be a string")
				}
				dep.Path = s
			case "groups":
				items, ok := field.([]any)
				if !ok {
					return dep, fmt.Errorf("groups must be an array of strings")
				}
				for _, item := range items {
					s, ok := item.(string)
					if !ok {
						return dep, fmt.Errorf("groups must be an array of strings")
					}
					if err := group.ValidateName(s); err != nil {
						return dep, err
					}
					dep.Groups = append(dep.Groups, s)
				}
			case "editable":
				b, ok := field.(bool)
				if !ok {
					return dep, fmt.Errorf("editable must be a boolean")
				}
				dep.Editable = b
			default:
				return dep, fmt.Errorf("unknown field %q", key)
			}
		}
		if dep.Version == "" && dep.Path == "" {
			return dep, fmt.Errorf("requires a version or a path")
		}
		return dep, nil
	default:
		return Dependency{}, fmt.Errorf("must be a version string or a table")
	}
}

// encodeDependency renders a dependency back into its most compact TOML
// form: a bare string when only a version constraint is set.
func encodeDependency(dep Dependency) any {
	if dep.Source == "" && dep.Path == "" && len(dep.Groups) == 0 && !dep.Editable {
		return dep.Version
	}

	table := map[string]any{}
	if dep.Version != "" {
		table["version"] = dep.Version
	}
	if dep.Source != "" {
		table["source"] = dep.Source
	}
	if dep.Path != "" {
		table["path"] = dep.Path
	}
	if len(dep.Groups) > 0 {
		table["groups"] = dep.Groups
	}
	if dep.Editable {
		table["editable"] = dep.Editable
	}
	return table
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	raw := rawManifest{
		Metadata: m.Metadata,
		Tool:     m.Tool,
	}
	if m.Dependencies != nil {
		raw.Dependencies = make(map[string]any, len(m.Dependencies))
		for name, dep := range m.Dependencies {
			raw.Dependencies[name] = encodeDependency(dep)
		}
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// DependenciesForGroups filters declared dependencies by install group. When
// only is non-empty, a dependency must belong to one of those groups; a
// dependency with no groups is excluded. When exclude is non-empty, any
// dependency in an excluded group is dropped. Both filters nil means
// everything.
func (m *Manifest) DependenciesForGroups(exclude, only []string) map[string]Dependency {
	out := make(map[string]Dependency, len(m.Dependencies))

	for name, dep := range m.Dependencies {
		if len(only) > 0 {
			if len(dep.Groups) == 0 || !intersects(dep.Groups, only) {
				continue
			}
		}
		if len(exclude) > 0 && intersects(dep.Groups, exclude) {
			continue
		}
		out[name] = dep
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
