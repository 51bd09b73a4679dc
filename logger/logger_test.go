// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stacklok/skillpack-core/env"
	"github.com/stacklok/skillpack-core/env/mocks"
)

// TestUnstructuredLogsCheck tests the unstructuredLogs env parsing
func TestUnstructuredLogsCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", true},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Invalid Value", "not-a-bool", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockEnv := mocks.NewMockReader(ctrl)
			mockEnv.EXPECT().Getenv(UnstructuredLogsEnv).Return(tt.envValue)

			if got := unstructuredLogsWithEnv(mockEnv); got != tt.expected {
				t.Errorf("unstructuredLogsWithEnv() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDebugCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", false},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Invalid Value", "yes-please", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader := env.MapReader{DebugEnv: tt.envValue}
			if got := debugWithEnv(reader); got != tt.expected {
				t.Errorf("debugWithEnv() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestInitializeWithEnv verifies that the global logger is replaced and
// respects the debug level selection.
func TestInitializeWithEnv(t *testing.T) { //nolint:paralleltest // replaces the global logger
	t.Run("debug disabled", func(t *testing.T) { //nolint:paralleltest
		InitializeWithEnv(env.MapReader{UnstructuredLogsEnv: "false"})

		require.False(t, zap.L().Core().Enabled(zap.DebugLevel))
		require.True(t, zap.L().Core().Enabled(zap.InfoLevel))
	})

	t.Run("debug enabled", func(t *testing.T) { //nolint:paralleltest
		InitializeWithEnv(env.MapReader{
			UnstructuredLogsEnv: "false",
			DebugEnv:            "true",
		})

		require.True(t, zap.L().Core().Enabled(zap.DebugLevel))
	})
}

// TestSingletonHelpers verifies the package-level helpers forward to the
// global logger.
func TestSingletonHelpers(t *testing.T) { //nolint:paralleltest // replaces the global logger
	core, logs := observer.New(zap.DebugLevel)
	prev := zap.L()
	zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	Infof("installed %s", "acme/web-scraper")
	Warnw("version conflict", "skill", "acme/web-scraper", "version", "1.0.0")
	Debugf("resolved %d repositories", 2)
	Errorf("fetch failed: %s", "timeout")

	entries := logs.All()
	require.Len(t, entries, 4)
	require.Equal(t, "installed acme/web-scraper", entries[0].Message)
	require.Equal(t, "version conflict", entries[1].Message)
}

func TestNewLogr(t *testing.T) { //nolint:paralleltest // reads the global logger
	logger := NewLogr()
	require.NotNil(t, logger.GetSink())
}
