// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"fmt"
)

// Do runs fn and converts any panic into a returned error.
// The repository manager uses it around per-repository workers so a panic in
// one backend cannot take down a fan-out query across all repositories.
func Do(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()
	return fn()
}
