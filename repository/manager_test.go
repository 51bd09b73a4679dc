// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func httpDef(name string, priority uint32, indexURL string) *Definition {
	return &Definition{
		Name:     name,
		Type:     TypeHTTPRegistry,
		Priority: priority,
		IndexURL: indexURL,
	}
}

func TestManagerOrdering(t *testing.T) {
	t.Parallel()

	defs := []*Definition{
		httpDef("c", 20, "https://c.example.com"),
		httpDef("a", 10, "https://a.example.com"),
		httpDef("b", 10, "https://b.example.com"),
	}

	m, err := NewManager(defs)
	require.NoError(t, err)

	listed := m.List()
	require.Len(t, listed, 3)
	require.Equal(t, "a", listed[0].Name)
	require.Equal(t, "b", listed[1].Name, "equal priorities keep insertion order")
	require.Equal(t, "c", listed[2].Name)
}

func TestManagerDuplicateNamesFirstWins(t *testing.T) {
	t.Parallel()

	defs := []*Definition{
		httpDef("central", 20, "https://low.example.com"),
		httpDef("central", 10, "https://high.example.com"),
	}

	m, err := NewManager(defs)
	require.NoError(t, err)

	listed := m.List()
	require.Len(t, listed, 1)
	require.Equal(t, "https://high.example.com", listed[0].IndexURL,
		"after the priority sort the higher-priority duplicate wins")
}

func TestManagerDefault(t *testing.T) {
	t.Parallel()

	t.Run("lowest priority wins", func(t *testing.T) {
		t.Parallel()

		m, err := NewManager([]*Definition{
			httpDef("b", 5, "https://b.example.com"),
			httpDef("a", 1, "https://a.example.com"),
		})
		require.NoError(t, err)

		def, ok := m.Default()
		require.True(t, ok)
		require.Equal(t, "a", def.Name)
	})

	t.Run("name default beats priority", func(t *testing.T) {
		t.Parallel()

		m, err := NewManager([]*Definition{
			httpDef("a", 1, "https://a.example.com"),
			httpDef("default", 99, "https://default.example.com"),
		})
		require.NoError(t, err)

		def, ok := m.Default()
		require.True(t, ok)
		require.Equal(t, "default", def.Name)
	})

	t.Run("empty manager", func(t *testing.T) {
		t.Parallel()

		m, err := NewManager(nil)
		require.NoError(t, err)

		_, ok := m.Default()
		require.False(t, ok)
	})
}

func TestManagerAddRemove(t *testing.T) {
	t.Parallel()

	m, err := NewManager(nil)
	require.NoError(t, err)

	require.NoError(t, m.Add(httpDef("central", 0, "https://registry.example.com")))

	err = m.Add(httpDef("central", 5, "https://other.example.com"))
	require.ErrorIs(t, err, ErrExists)

	require.NoError(t, m.Remove("central"))
	require.ErrorIs(t, m.Remove("central"), ErrNotFound)
}

func TestManagerClientCaching(t *testing.T) {
	t.Parallel()

	m, err := NewManager([]*Definition{httpDef("central", 0, "https://registry.example.com")})
	require.NoError(t, err)

	first, err := m.Client("central")
	require.NoError(t, err)
	second, err := m.Client("central")
	require.NoError(t, err)
	require.Same(t, first, second)

	_, err = m.Client("ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestManagerSearchAllToleratesPartialFailure(t *testing.T) {
	t.Parallel()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id":"acme/tool","name":"tool","description":"scraper","latest_version":"1.0.0"}]`)
	}))
	t.Cleanup(healthy.Close)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	m, err := NewManager([]*Definition{
		httpDef("healthy", 1, healthy.URL),
		httpDef("broken", 2, broken.URL),
	})
	require.NoError(t, err)

	results, err := m.SearchAll(context.Background(), "tool")
	require.NoError(t, err)
	require.Len(t, results, 1, "failed repository is skipped, not fatal")
	require.Equal(t, "healthy", results[0].Repository)
	require.Len(t, results[0].Skills, 1)
}
