// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// configFileName is the repositories config file under the config root.
const configFileName = "repositories.toml"

// repositoriesFile is the on-disk shape of repositories.toml.
type repositoriesFile struct {
	Repositories []*Definition `toml:"repositories"`
}

// DefaultConfigPath returns the conventional location of repositories.toml
// under the user's XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "skillpack", configFileName)
}

// LoadDefinitions reads repository definitions from a TOML file. A missing
// file is an empty configuration, not an error. Definitions are returned in
// file order; ordering and deduplication policy belong to NewManager.
func LoadDefinitions(path string) ([]*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Definition{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file repositoriesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return file.Repositories, nil
}

// SaveDefinitions writes repository definitions to a TOML file. The write is
// whole-file atomic: content goes to a temp file in the same directory which
// is then renamed over the target, so no reader observes a partial config.
func SaveDefinitions(path string, defs []*Definition) error {
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
	}

	data, err := toml.Marshal(repositoriesFile{Repositories: defs})
	if err != nil {
		return fmt.Errorf("encoding repositories config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp config file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp config file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting config file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
