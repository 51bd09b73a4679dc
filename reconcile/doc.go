// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package reconcile compares the skills installed on disk against what the
// project manifest declares and what the lock file recorded. The comparison
// is a pure function over caller-supplied inputs; acting on the resulting
// report is a separate concern.
package reconcile
