// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package env provides an interface-based abstraction for environment variable
access, enabling dependency injection and testing isolation.

Repository credentials in skillpack-core are stored as references to
environment variables, never as values. Everything that resolves such a
reference takes an env.Reader so the resolution point is explicit and
testable.

# Basic Usage

Use OSReader to read environment variables via the standard os package:

	reader := &env.OSReader{}
	value := reader.Getenv("MY_VAR")

# Testing

Tests can inject either the MapReader defined in this package or the
generated mock from the mocks sub-package:

	ctrl := gomock.NewController(t)
	mock := mocks.NewMockReader(ctrl)
	mock.EXPECT().Getenv("MY_VAR").Return("test-value")

	result := myFunc(mock)

# Design

This package follows the interface-based dependency injection pattern used
throughout skillpack-core. Production code accepts an env.Reader, while tests
substitute a MapReader or the generated mock.
*/
package env
