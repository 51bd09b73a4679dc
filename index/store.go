// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"
	"github.com/gofrs/flock"

	"github.com/stacklok/skillpack-core/logger"
	"github.com/stacklok/skillpack-core/names"
)

// defaultLockTimeout bounds how long a writer waits for another writer on
// the same skill before giving up.
const defaultLockTimeout = 30 * time.Second

// lockRetryDelay is the poll interval while waiting for the advisory file lock.
const lockRetryDelay = 100 * time.Millisecond

// maxLineSize is the largest index line a reader will accept (1MB).
const maxLineSize = 1 * 1024 * 1024

// Store is a durable, append-only version log, one NDJSON file per skill.
//
// Writers serialize per skill through an in-process mutex plus a cross-process
// advisory file lock; writers on different skills never block each other.
// Readers take no lock at all: records are appended as a single write and
// flushed before the lock is released, so a reader only ever observes
// complete lines.
type Store struct {
	root        string
	lockTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout sets the maximum time a writer waits for the per-file lock.
// The default is 30 seconds.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// NewStore creates a Store over the given registry root, creating the root
// directory if needed.
func NewStore(root string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating registry root %s: %w", root, err)
	}

	s := &Store{
		root:        root,
		lockTimeout: defaultLockTimeout,
		locks:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the registry root within the given data home directory.
// This is the injectable, testable form. For the standard XDG location, use
// DefaultRoot.
func Root(dataHome string) string {
	return filepath.Join(dataHome, "skillpack", "registry")
}

// DefaultRoot returns the default registry root using XDG base directory
// conventions.
func DefaultRoot() string {
	return Root(xdg.DataHome)
}

// AtomicUpdate appends a new version record to the skill's index file.
//
// The name must normalize to a valid skill name, the version must be a
// MAJOR.MINOR.PATCH semantic version, and the entry's Name/Vers must match
// the arguments; violations return ErrValidation before any I/O. Publishing
// a version that already exists returns ErrConflict: the index is
// append-only and versions are write-once.
//
// The record is either fully appended and flushed or the file is left
// byte-for-byte unchanged.
func (s *Store) AtomicUpdate(name, version string, entry VersionEntry) error {
	normalized, err := s.validateKey(name, version)
	if err != nil {
		return err
	}
	if names.Normalize(entry.Name) != normalized {
		return fmt.Errorf("%w: entry name %q does not match %q", ErrValidation, entry.Name, normalized)
	}
	if entry.Vers != version {
		return fmt.Errorf("%w: entry version %q does not match %q", ErrValidation, entry.Vers, version)
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	path := names.IndexPath(s.root, normalized)
	unlock, err := s.lockIndexFile(path)
	if err != nil {
		return err
	}
	defer unlock()

	existing, err := readEntriesFromFile(path, normalized)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].Vers == version {
			return fmt.Errorf("skill %s version %s: %w", normalized, version, ErrConflict)
		}
	}

	if err := appendEntry(path, entry); err != nil {
		return fmt.Errorf("appending index entry for %s@%s: %w", normalized, version, err)
	}

	logger.Debugw("appended index entry",
		"skill", normalized,
		"version", version,
		"entries", len(existing)+1,
	)
	return nil
}

// ReadVersions returns all published versions of a skill in publish order.
// A skill that has never been published returns an empty history, not an
// error. No lock is taken; the append discipline guarantees readers only see
// complete records.
func (s *Store) ReadVersions(name string) ([]VersionEntry, error) {
	if err := names.Validate(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	normalized := names.Normalize(name)
	return readEntriesFromFile(names.IndexPath(s.root, normalized), normalized)
}

// SetYanked flips the yanked flag on a published version. Yanking never
// removes the record; it only marks the version unusable for new installs.
// The rewrite is whole-file atomic (temp file + rename) under the same
// per-file lock as AtomicUpdate. Returns ErrNotFound if the version has
// never been published.
func (s *Store) SetYanked(name, version string, yanked bool) error {
	normalized, err := s.validateKey(name, version)
	if err != nil {
		return err
	}

	path := names.IndexPath(s.root, normalized)
	unlock, err := s.lockIndexFile(path)
	if err != nil {
		return err
	}
	defer unlock()

	entries, err := readEntriesFromFile(path, normalized)
	if err != nil {
		return err
	}

	found := false
	for i := range entries {
		if entries[i].Vers == version {
			if entries[i].Yanked == yanked {
				return nil
			}
			entries[i].Yanked = yanked
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("skill %s version %s: %w", normalized, version, ErrNotFound)
	}

	if err := rewriteEntries(path, entries); err != nil {
		return fmt.Errorf("rewriting index for %s: %w", normalized, err)
	}

	logger.Infow("updated yanked flag",
		"skill", normalized,
		"version", version,
		"yanked", yanked,
	)
	return nil
}

// validateKey checks the name/version pair shared by all write operations and
// returns the normalized name.
func (s *Store) validateKey(name, version string) (string, error) {
	if err := names.Validate(name); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return "", fmt.Errorf("%w: version %q is not a valid semantic version: %w", ErrValidation, version, err)
	}
	return names.Normalize(name), nil
}

// lockIndexFile acquires the exclusive lock for one skill's index file:
// first the in-process mutex for the path, then the cross-process advisory
// lock on a sidecar file. The returned function releases both.
func (s *Store) lockIndexFile(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	mu := s.pathMutex(path)
	mu.Lock()

	fl := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	start := time.Now()
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		mu.Unlock()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquiring lock on %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s after %s", ErrLockTimeout, path, s.lockTimeout)
	}

	if waited := time.Since(start); waited > lockRetryDelay {
		logger.Debugw("acquired index file lock", "path", path, "waited", waited)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			logger.Warnw("failed to release index file lock", "path", path, "error", err)
		}
		mu.Unlock()
	}, nil
}

func (s *Store) pathMutex(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	mu, ok := s.locks[path]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[path] = mu
	}
	return mu
}

// appendEntry writes one compact JSON line and flushes it to disk. On a
// failed or partial write the file is truncated back to its prior length so
// no torn record is ever left behind.
func appendEntry(path string, entry VersionEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("serializing entry: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	prevSize := info.Size()

	if _, err := f.Write(line); err != nil {
		if truncErr := f.Truncate(prevSize); truncErr != nil {
			logger.Errorw("failed to restore index file after torn write",
				"path", path, "error", truncErr)
		}
		return err
	}

	return f.Sync()
}

// rewriteEntries replaces the whole index file atomically via temp + rename.
func rewriteEntries(path string, entries []VersionEntry) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	for i := range entries {
		line, err := json.Marshal(entries[i])
		if err != nil {
			tmp.Close()
			return fmt.Errorf("serializing entry: %w", err)
		}
		if _, err := tmp.Write(append(line, '\n')); err != nil {
			tmp.Close()
			return err
		}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// readEntriesFromFile parses an NDJSON index file. A missing file is an
// empty history. Corrupt lines are logged and skipped so one bad record
// cannot take the whole skill offline.
func readEntriesFromFile(path, skill string) ([]VersionEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []VersionEntry{}, nil
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	entries := []VersionEntry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry VersionEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			logger.Warnw("skipping corrupt index line",
				"skill", skill,
				"error", err,
			)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index file: %w", err)
	}

	return entries, nil
}
