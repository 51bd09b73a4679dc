// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// LockFileName is the machine-written lock file recording exact installed
// state.
const LockFileName = "skill-lock.toml"

// lockFormatVersion is written into new lock files.
const lockFormatVersion = "1"

// Lock records the exact installed state of every skill. It is written only
// by install, update and remove flows; users edit the manifest, never this.
type Lock struct {
	Metadata LockMetadata  `toml:"metadata"`
	Skills   []LockedSkill `toml:"skills,omitempty"`
}

// LockMetadata describes the lock file itself.
type LockMetadata struct {
	// Version is the lock format version.
	Version string `toml:"version"`
	// GeneratedAt is when the lock was last rewritten.
	GeneratedAt time.Time `toml:"generated_at"`
	// ToolVersion records what wrote the lock, for diagnostics.
	ToolVersion string `toml:"tool_version,omitempty"`
}

// LockedSkill is the exact installed state of one skill.
type LockedSkill struct {
	// ID is the normalized skill name.
	ID string `toml:"id"`
	// Version is the exact installed version.
	Version string `toml:"version"`
	// Source names where the skill came from: a repository name or URL.
	Source string `toml:"source"`
	// CommitHash pins git-sourced skills to an exact commit.
	CommitHash string `toml:"commit_hash,omitempty"`
	// FetchedAt is when the content was retrieved.
	FetchedAt time.Time `toml:"fetched_at"`
	// Checksum is the artifact checksum when the source publishes one.
	Checksum string `toml:"checksum,omitempty"`
	// Groups are the install groups the dependency was declared under.
	Groups []string `toml:"groups,omitempty"`
	// Editable marks a local-path install used in place.
	Editable bool `toml:"editable,omitempty"`
}

// NewLock returns an empty lock at the current format version.
func NewLock() *Lock {
	return &Lock{
		Metadata: LockMetadata{
			Version:     lockFormatVersion,
			GeneratedAt: time.Now().UTC(),
		},
	}
}

// LoadLock reads a lock file. A missing file returns a fresh empty lock so
// first installs need no special casing.
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLock(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var lock Lock
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &lock, nil
}

// Get returns the locked entry for a skill id.
func (l *Lock) Get(id string) (*LockedSkill, bool) {
	for i := range l.Skills {
		if l.Skills[i].ID == id {
			return &l.Skills[i], true
		}
	}
	return nil, false
}

// UpdateSkill inserts or replaces the entry with the same id and touches the
// generation timestamp.
func (l *Lock) UpdateSkill(entry LockedSkill) {
	for i := range l.Skills {
		if l.Skills[i].ID == entry.ID {
			l.Skills[i] = entry
			l.Metadata.GeneratedAt = time.Now().UTC()
			return
		}
	}
	l.Skills = append(l.Skills, entry)
	l.Metadata.GeneratedAt = time.Now().UTC()
}

// RemoveSkill deletes the entry with the given id, reporting whether it was
// present.
func (l *Lock) RemoveSkill(id string) bool {
	for i := range l.Skills {
		if l.Skills[i].ID == id {
			l.Skills = append(l.Skills[:i], l.Skills[i+1:]...)
			l.Metadata.GeneratedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Save writes the lock whole-file atomically: content goes to a temp file in
// the target directory which is then renamed into place, so a crashed writer
// never leaves a half-written lock behind.
func (l *Lock) Save(path string) error {
	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding lock file: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp lock file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp lock file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp lock file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting lock file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp lock file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
