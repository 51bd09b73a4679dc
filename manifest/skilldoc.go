// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatterDelimiter separates YAML front matter from the document body.
const frontMatterDelimiter = "---"

// SkillDoc is the YAML front matter of a SKILL.md document. Publish flows
// cross-check it against the manifest's [metadata] section.
type SkillDoc struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
}

// ReadSkillDoc parses the front matter of the SKILL.md in dir. A document
// without front matter yields an empty SkillDoc, not an error; a missing
// file is an error.
func ReadSkillDoc(dir string) (*SkillDoc, error) {
	path := filepath.Join(dir, SkillDocFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	block, ok := frontMatterBlock(string(data))
	if !ok {
		return &SkillDoc{}, nil
	}

	var doc SkillDoc
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("parsing front matter in %s: %w", path, err)
	}
	return &doc, nil
}

// frontMatterBlock extracts the YAML between the leading "---" fence and the
// next one. The opening fence must be the first non-blank line.
func frontMatterBlock(content string) (string, bool) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == frontMatterDelimiter {
			start = i
		}
		break
	}
	if start < 0 {
		return "", false
	}

	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelimiter {
			return strings.Join(lines[start+1:i], "\n"), true
		}
	}
	return "", false
}
