// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package names canonicalizes skill identifiers and maps them to index paths.

Skills are published either unscoped ("web-scraper") or under an organization
scope ("acme/web-scraper"). Users write the scoped form in several ways
("@acme/web-scraper", "acme:web-scraper", "acme/web-scraper"), and Normalize
collapses all of them to the single canonical "acme/web-scraper". The
canonical name is what every other package keys on: index files, lock
entries, and reconciliation all operate on normalized names.
*/
package names
