// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package http provides validation for HTTP header values and registry URLs
// consumed by the repository clients.
package http
