// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package index implements the durable registry index: one append-only NDJSON
file per skill, each line a published VersionEntry.

The layout follows the crates.io index format. A skill's file lives at a
sharded path derived from its normalized name (see the names package), so no
single directory grows unbounded. Publishing appends exactly one line under
an exclusive per-file lock; versions are write-once and soft-deleted via the
yanked flag rather than removed.

Locking is scoped to a single skill's file: concurrent publishes of
different skills never contend, and concurrent publishes of the same skill
serialize through an in-process mutex plus a cross-process advisory lock.
Reads take no lock. No lock is ever held across a network call; the index
is a local-disk structure only.
*/
package index
