// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/skillpack-core/env"
	"github.com/stacklok/skillpack-core/logger"
	"github.com/stacklok/skillpack-core/recovery"
)

// searchConcurrency bounds the fan-out of SearchAll.
const searchConcurrency = 4

// defaultRepositoryName is the reserved name that always wins Default()
// regardless of priority.
const defaultRepositoryName = "default"

// Manager holds the configured repository set and hands out one client per
// repository. Definitions are kept ordered by ascending priority, ties broken
// by insertion order. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	defs    []*Definition
	clients map[string]*Client

	fetcher Fetcher
	environ env.Reader
	httpc   *http.Client
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerFetcher supplies the Fetcher passed to every created client.
func WithManagerFetcher(fetcher Fetcher) ManagerOption {
	return func(m *Manager) {
		m.fetcher = fetcher
	}
}

// WithManagerEnvReader overrides where created clients resolve auth secrets.
func WithManagerEnvReader(environ env.Reader) ManagerOption {
	return func(m *Manager) {
		m.environ = environ
	}
}

// WithManagerHTTPClient overrides the HTTP client passed to created clients.
func WithManagerHTTPClient(httpc *http.Client) ManagerOption {
	return func(m *Manager) {
		m.httpc = httpc
	}
}

// NewManager creates a manager from decoded repository definitions, such as
// the contents of repositories.toml. Definitions are sorted by priority; when
// two share a name, the first occurrence after the sort wins and the rest are
// dropped.
func NewManager(defs []*Definition, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		clients: make(map[string]*Client),
		environ: &env.OSReader{},
	}
	for _, opt := range opts {
		opt(m)
	}

	sorted := make([]*Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	seen := make(map[string]bool, len(sorted))
	for _, def := range sorted {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if seen[def.Name] {
			logger.Warnw("dropping duplicate repository definition", "repository", def.Name)
			continue
		}
		seen[def.Name] = true
		m.defs = append(m.defs, def)
	}

	return m, nil
}

// Add registers a new repository. Adding a name that already exists returns
// ErrExists; editing is remove-then-add.
func (m *Manager) Add(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.defs {
		if existing.Name == def.Name {
			return fmt.Errorf("%q: %w", def.Name, ErrExists)
		}
	}

	m.defs = append(m.defs, def)
	sort.SliceStable(m.defs, func(i, j int) bool {
		return m.defs[i].Priority < m.defs[j].Priority
	})
	return nil
}

// Remove deletes a repository and its cached client.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, def := range m.defs {
		if def.Name == name {
			m.defs = append(m.defs[:i], m.defs[i+1:]...)
			delete(m.clients, name)
			return nil
		}
	}
	return fmt.Errorf("repository %q: %w", name, ErrNotFound)
}

// Get returns the definition registered under name.
func (m *Manager) Get(name string) (*Definition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, def := range m.defs {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}

// List returns all definitions ordered by ascending priority.
func (m *Manager) List() []*Definition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Definition, len(m.defs))
	copy(out, m.defs)
	return out
}

// Default returns the repository installs resolve against when none is named
// explicitly: the one literally named "default" if present, otherwise the
// lowest-priority definition. The second return is false when no repositories
// are configured.
func (m *Manager) Default() (*Definition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, def := range m.defs {
		if def.Name == defaultRepositoryName {
			return def, true
		}
	}
	if len(m.defs) == 0 {
		return nil, false
	}
	return m.defs[0], true
}

// Client returns the client for a named repository, creating and caching it
// on first use.
func (m *Manager) Client(name string) (*Client, error) {
	m.mu.RLock()
	client, ok := m.clients[name]
	m.mu.RUnlock()
	if ok {
		return client, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if client, ok := m.clients[name]; ok {
		return client, nil
	}

	var def *Definition
	for _, d := range m.defs {
		if d.Name == name {
			def = d
			break
		}
	}
	if def == nil {
		return nil, fmt.Errorf("repository %q: %w", name, ErrNotFound)
	}

	opts := []ClientOption{WithEnvReader(m.environ)}
	if m.fetcher != nil {
		opts = append(opts, WithFetcher(m.fetcher))
	}
	if m.httpc != nil {
		opts = append(opts, WithHTTPClient(m.httpc))
	}

	client, err := NewClient(def, opts...)
	if err != nil {
		return nil, err
	}
	m.clients[name] = client
	return client, nil
}

// SearchResult is one repository's contribution to an aggregate search.
type SearchResult struct {
	// Repository is the definition name the skills came from.
	Repository string
	// Skills are the matches, in the repository's own order.
	Skills []Skill
}

// SearchAll fans a query out across every configured repository. One
// repository failing, or panicking, does not abort the others: failed
// repositories are logged and skipped, and the aggregate contains only the
// ones that answered. Results are ordered by repository priority.
func (m *Manager) SearchAll(ctx context.Context, query string) ([]SearchResult, error) {
	defs := m.List()

	results := make([]*SearchResult, len(defs))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(searchConcurrency)

	for i, def := range defs {
		i, def := i, def
		group.Go(func() error {
			err := recovery.Do(func() error {
				client, err := m.Client(def.Name)
				if err != nil {
					return err
				}
				skills, err := client.Search(ctx, query)
				if err != nil {
					return err
				}
				results[i] = &SearchResult{Repository: def.Name, Skills: skills}
				return nil
			})
			if err != nil {
				logger.Warnw("repository search failed, skipping",
					"repository", def.Name,
					"error", err)
			}
			// Partial failure is tolerated; never poison the group.
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	aggregate := make([]SearchResult, 0, len(defs))
	for _, result := range results {
		if result != nil {
			aggregate = append(aggregate, *result)
		}
	}
	return aggregate, nil
}
