/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package datasources

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/ledgerview/core/logging"
	"github.com/google/ledgerview/core/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// preloadLimit bounds concurrent loads during Preload.
const preloadLimit = 4

type source struct {
	fetch  func(ctx context.Context) (any, error)
	remove func(rows any, ids map[string]bool) (any, int)
}

// Manager handles loading and caching of tables.
// Sources are registered eagerly; data is loaded lazily on demand.
// Cached slices are shared and must not be modified by callers.
type Manager struct {
	mu sync.RWMutex

	// edit is held from reading a snapshot to storing the edited rows.
	edit sync.Mutex

	// Concurrent cold loads of one table share a single fetch
	group singleflight.Group

	loader Loader
	logger *logging.Logger

	// Registered sources indexed by table name
	sources map[string]*source

	// Cached rows indexed by table name - populated lazily
	tables map[string]any
}

// NewManager creates a manager serving the ledger tables of loader.
func NewManager(loader Loader, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	m := &Manager{
		loader:  loader,
		logger:  logger.WithComponent(logging.ComponentDatasource),
		sources: make(map[string]*source),
		tables:  make(map[string]any),
	}
	Register(m, TableCustomers, loader.Customers, models.Customer.ID)
	Register(m, TableInvoices, loader.Invoices, models.Invoice.ID)
	Register(m, TableQuotes, loader.Quotes, models.Quote.ID)
	Register(m, TablePayments, loader.Payments, models.Payment.ID)
	Register(m, TableExpenses, loader.Expenses, models.Expense.ID)
	return m
}

// Register adds or replaces a table source. id identifies rows for Delete.
func Register[T any](m *Manager, name string, fetch func(context.Context) ([]T, error), id func(T) string) {
	src := &source{
		fetch: func(ctx context.Context) (any, error) {
			rows, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			if rows == nil {
				rows = []T{}
			}
			return rows, nil
		},
		remove: func(rows any, ids map[string]bool) (any, int) {
			typed := rows.([]T)
			kept := make([]T, 0, len(typed))
			for _, row := range typed {
				if !ids[id(row)] {
					kept = append(kept, row)
				}
			}
			return kept, len(typed) - len(kept)
		},
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[name] = src
	delete(m.tables, name)
}

// Load returns the rows of a table, loading them on first use.
func Load[T any](ctx context.Context, m *Manager, name string) ([]T, error) {
	rows, err := m.load(ctx, name)
	if err != nil {
		return nil, err
	}
	typed, ok := rows.([]T)
	if !ok {
		return nil, fmt.Errorf("table %q holds %T, not %T", name, rows, typed)
	}
	return typed, nil
}

// load returns cached data if already loaded; otherwise loads from the source.
func (m *Manager) load(ctx context.Context, name string) (any, error) {
	m.mu.RLock()
	if rows, ok := m.tables[name]; ok {
		m.mu.RUnlock()
		return rows, nil
	}
	src, ok := m.sources[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}

	rows, err, _ := m.group.Do(name, func() (any, error) {
		start := time.Now()
		rows, err := src.fetch(ctx)
		if err != nil {
			m.logger.ErrorContext(ctx, "table load failed", logging.NewFields().WithTable(name, 0).WithError(err).ToSlice()...)
			return nil, fmt.Errorf("failed to load table %q: %w", name, err)
		}
		fields := logging.NewFields().WithTable(name, reflect.ValueOf(rows).Len())
		fields[logging.FieldDuration] = time.Since(start).Milliseconds()
		m.logger.DebugContext(ctx, "table loaded", fields.ToSlice()...)

		m.mu.Lock()
		defer m.mu.Unlock()
		// An edit stored while fetching is newer than what was fetched
		if cached, ok := m.tables[name]; ok {
			return cached, nil
		}
		m.tables[name] = rows
		return rows, nil
	})
	return rows, err
}

// SourceType returns the type of the underlying loader.
func (m *Manager) SourceType() string {
	return m.loader.SourceType()
}

// Names returns the registered table names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preload loads every registered table concurrently and stops at the first
// error.
func (m *Manager) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadLimit)
	for _, name := range m.Names() {
		g.Go(func() error {
			_, err := m.load(ctx, name)
			return err
		})
	}
	return g.Wait()
}

// InvalidateCache removes a table from the cache, forcing reload on next access.
func (m *Manager) InvalidateCache(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, name)
}

// InvalidateAllCaches removes all tables from the cache.
func (m *Manager) InvalidateAllCaches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = make(map[string]any)
}

// IsLoaded returns whether data for a table is currently cached.
func (m *Manager) IsLoaded(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[name]
	return ok
}

// LoadedSources returns names of all currently cached tables, sorted.
func (m *Manager) LoadedSources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete removes rows by id and returns how many were removed. The change is
// persisted when the loader is a Writer. Edits are serialized.
func (m *Manager) Delete(ctx context.Context, table string, ids []string) (int, error) {
	m.edit.Lock()
	defer m.edit.Unlock()

	rows, err := m.load(ctx, table)
	if err != nil {
		return 0, err
	}
	m.mu.RLock()
	src := m.sources[table]
	m.mu.RUnlock()

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	kept, n := src.remove(rows, set)
	if n == 0 {
		return 0, nil
	}
	if w, ok := m.loader.(Writer); ok {
		if err := w.Delete(ctx, table, ids); err != nil {
			return 0, fmt.Errorf("failed to delete from %q: %w", table, err)
		}
	}

	m.mu.Lock()
	m.tables[table] = kept
	m.mu.Unlock()
	m.logger.InfoContext(ctx, "rows deleted", logging.NewFields().WithTable(table, n).ToSlice()...)
	return n, nil
}

// SetInvoiceStatus changes the status of the given invoices and returns how
// many exist.
func (m *Manager) SetInvoiceStatus(ctx context.Context, numbers []string, status models.InvoiceStatus) (int, error) {
	m.edit.Lock()
	defer m.edit.Unlock()

	invoices, err := Load[models.Invoice](ctx, m, TableInvoices)
	if err != nil {
		return 0, err
	}
	set := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		set[n] = true
	}

	updated := make([]models.Invoice, len(invoices))
	count := 0
	for i, inv := range invoices {
		if set[inv.Number] {
			inv.Status = status
			count++
		}
		updated[i] = inv
	}
	if count == 0 {
		return 0, nil
	}
	if w, ok := m.loader.(Writer); ok {
		if err := w.SetInvoiceStatus(ctx, numbers, status); err != nil {
			return 0, fmt.Errorf("failed to update invoices: %w", err)
		}
	}

	m.mu.Lock()
	m.tables[TableInvoices] = updated
	m.mu.Unlock()
	return count, nil
}
