// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package repository resolves skills across the four supported repository
// backends: HTTP registries serving a sharded NDJSON index, git repositories
// carrying a marketplace.json catalog, ZIP base URLs, and local directories.
//
// A Manager holds the configured repository set ordered by priority and
// builds one Client per definition on demand. Clients resolve authentication
// lazily from the environment on every request; configured definitions carry
// only references to secrets and are safe to persist as plaintext TOML.
//
// Content transfer for git, zip and local repositories is delegated to a
// Fetcher collaborator supplied by the caller; this package only reads the
// fetched directory.
package repository
