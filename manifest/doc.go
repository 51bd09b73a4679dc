// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package manifest models the two project files of a skill workspace: the
// user-authored skill-project.toml and the machine-written skill-lock.toml.
//
// A manifest is resolved by walking up from a starting directory; the closest
// file wins. Its context is then classified as skill (a SKILL.md sits next to
// it), project, or ambiguous, and project-level operations refuse to proceed
// on ambiguity rather than guess.
//
// Lock file rewrites are whole-file atomic so a concurrent reader never
// observes a partially written lock.
package manifest
